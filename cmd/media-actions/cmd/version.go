package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			printf(w, "media-actions %s\n", Version)
			printf(w, "  Build time: %s\n", BuildTime)
			printf(w, "  Git commit: %s\n", GitCommit)
			printf(w, "  Go version: %s\n", runtime.Version())
			printf(w, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
