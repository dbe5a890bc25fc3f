package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/media-actions/internal/server"
)

func newServeCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Runs the MCP (Model Context Protocol) server over stdio. Every operation
is exposed as a tool. Configure it in your MCP client; logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.load(); err != nil {
				return err
			}

			env.logger.Info("MCP server starting", "version", Version, "build_time", BuildTime, "commit", GitCommit)
			srv := server.New(env.registry, server.WithLogger(env.logger), server.WithVersion(Version))
			if err := srv.Serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
			env.logger.Info("MCP server stopped")
			return nil
		},
	}
}
