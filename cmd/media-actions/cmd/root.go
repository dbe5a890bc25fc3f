// Package cmd is the media-actions command tree: the MCP server, the
// operation list, and one subcommand per operation generated from the
// actions catalogue.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/media-actions/internal/actions"
	"github.com/ironsheep/media-actions/internal/config"
	"github.com/ironsheep/media-actions/internal/imaging"
	"github.com/ironsheep/media-actions/internal/video"
)

// Version information, set from main.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Execute runs the command tree on os.Args. An interrupt cancels the
// running operation, including any encoder process.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "media-actions",
		Short: "Batch actions on files, images and videos",
		Long: `media-actions renames and reorganizes files, edits images and builds
videos from stills. Every action is available as a subcommand and as a
tool of the MCP server started by "media-actions serve".

Configuration is read from the environment:
  MEDIA_ACTIONS_FFMPEG         encoder binary (default: ffmpeg)
  MEDIA_ACTIONS_JPEG_QUALITY   JPEG/WebP quality 1..100 (default: 100)
  MEDIA_ACTIONS_WEBP_LOSSLESS  lossless WebP output (default: false)
  LOG_FORMAT                   text or json (default: text)
  LOG_LEVEL                    debug, info, warn or error (default: info)`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	env := &environment{verbose: &verbose}
	root.AddCommand(
		newServeCommand(env),
		newListCommand(),
		newVersionCommand(),
	)
	root.AddCommand(newGroupCommands(env)...)
	return root
}

// environment builds the configured registry on first use, so that the
// command tree itself can be constructed without reading the environment.
type environment struct {
	verbose *bool

	logger   *slog.Logger
	registry *actions.Registry
}

func (e *environment) load() error {
	if e.registry != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *e.verbose {
		cfg.LogLevel = "debug"
	}

	e.logger = cfg.NewLogger()
	e.logger.Debug("configuration loaded", "config", cfg.String())

	images := imaging.NewProcessor(
		imaging.WithJPEGQuality(cfg.JPEGQuality),
		imaging.WithWebPLossless(cfg.WebPLossless),
		imaging.WithLogger(e.logger),
	)
	videos := video.NewProcessor(cfg.FFmpegPath, video.WithLogger(e.logger))
	e.registry = actions.NewRegistry(images, videos, actions.WithLogger(e.logger))
	return nil
}

// catalog returns the operation schema without touching configuration.
func catalog() []*actions.Operation {
	return actions.NewRegistry(nil, nil).Operations()
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
