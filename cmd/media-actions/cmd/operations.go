package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/media-actions/internal/actions"
)

var groupShort = map[actions.Group]string{
	actions.GroupFiles: "Rename, split, thin out, number and copy files",
	actions.GroupImage: "Resize, crop, compose, recolour, filter and tag images",
	actions.GroupVideo: "Build movies and slideshows from stills, join videos",
}

// newGroupCommands returns "files", "image" and "video", each holding one
// subcommand per operation of that group.
func newGroupCommands(env *environment) []*cobra.Command {
	groups := map[actions.Group]*cobra.Command{}
	var ordered []*cobra.Command

	for _, op := range catalog() {
		parent, ok := groups[op.Group]
		if !ok {
			parent = &cobra.Command{
				Use:   string(op.Group),
				Short: groupShort[op.Group],
			}
			groups[op.Group] = parent
			ordered = append(ordered, parent)
		}
		parent.AddCommand(newOperationCommand(env, op))
	}
	return ordered
}

// flagName turns a parameter name into its flag: new_width -> new-width.
func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

func newOperationCommand(env *environment, op *actions.Operation) *cobra.Command {
	use := op.Name + " <file>..."
	if op.Input == actions.InputDirectory {
		use = op.Name + " <dir>..."
	}

	args := cobra.MinimumNArgs(op.MinInputs)
	if op.MaxInputs > 0 {
		args = cobra.RangeArgs(op.MinInputs, op.MaxInputs)
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: op.Description,
		Args:  args,
		RunE: func(cmd *cobra.Command, paths []string) error {
			raw, err := changedParams(cmd, op)
			if err != nil {
				return err
			}
			if err := env.load(); err != nil {
				return err
			}

			res, runErr := env.registry.Run(cmd.Context(), op.Name, paths, raw)
			if res != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	for _, p := range op.Params {
		name := flagName(p.Name)
		usage := p.Description
		switch p.Type {
		case actions.TypeInteger:
			def, _ := p.Default.(int)
			flags.Int(name, def, usage)
		case actions.TypeNumber:
			def, _ := p.Default.(float64)
			flags.Float64(name, def, usage)
		case actions.TypeBoolean:
			def, _ := p.Default.(bool)
			flags.Bool(name, def, usage)
		default:
			if p.Type == actions.TypeEnum {
				usage = fmt.Sprintf("%s (%s)", usage, strings.Join(p.Choices, "|"))
			}
			def, _ := p.Default.(string)
			flags.String(name, def, usage)
		}
	}
	return cmd
}

// changedParams collects the flags the user set. Everything else is left to
// the registry defaults so both front-ends share one set of defaults.
func changedParams(cmd *cobra.Command, op *actions.Operation) (map[string]any, error) {
	flags := cmd.Flags()
	raw := map[string]any{}

	for _, p := range op.Params {
		name := flagName(p.Name)
		if !flags.Changed(name) {
			continue
		}

		var (
			v   any
			err error
		)
		switch p.Type {
		case actions.TypeInteger:
			v, err = flags.GetInt(name)
		case actions.TypeNumber:
			v, err = flags.GetFloat64(name)
		case actions.TypeBoolean:
			v, err = flags.GetBool(name)
		default:
			v, err = flags.GetString(name)
		}
		if err != nil {
			return nil, err
		}
		raw[p.Name] = v
	}
	return raw, nil
}
