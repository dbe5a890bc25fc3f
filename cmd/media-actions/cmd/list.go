package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ironsheep/media-actions/internal/actions"
)

func newListCommand() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every operation with its parameters and defaults",
		Long: `Lists the operations, grouped by menu, with their input kind and
parameters.

Examples:
  media-actions list
  media-actions list --group video`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if group != "" && !validGroup(actions.Group(group)) {
				return fmt.Errorf("unknown group %q (files, image or video)", group)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, op := range catalog() {
				if group != "" && string(op.Group) != group {
					continue
				}
				printf(tw, "%s %s\t%s\t%s\n", op.Group, op.Name, inputLabel(op), op.Description)
				for _, p := range op.Params {
					printf(tw, "    --%s\t%s\t%s\n", flagName(p.Name), paramLabel(p), p.Description)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Only list one group: files, image or video")
	return cmd
}

func validGroup(g actions.Group) bool {
	return g == actions.GroupFiles || g == actions.GroupImage || g == actions.GroupVideo
}

func inputLabel(op *actions.Operation) string {
	noun := "files"
	if op.Input == actions.InputDirectory {
		noun = "dirs"
	}
	switch {
	case op.MaxInputs > 0 && op.MaxInputs == op.MinInputs:
		return fmt.Sprintf("%d %s", op.MinInputs, noun)
	case op.MaxInputs > 0:
		return fmt.Sprintf("%d-%d %s", op.MinInputs, op.MaxInputs, noun)
	}
	return fmt.Sprintf("%d+ %s", op.MinInputs, noun)
}

func paramLabel(p actions.Param) string {
	label := string(p.Type)
	if p.Type == actions.TypeEnum {
		label = strings.Join(p.Choices, "|")
	}
	if p.Default != nil {
		label += fmt.Sprintf(" (default %v)", p.Default)
	}
	return label
}
