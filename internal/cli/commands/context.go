// Package commands implements the recipelint subcommands.
package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bioforge-labs/recipelint/internal/cli/config"
	"github.com/bioforge-labs/recipelint/internal/cli/output"
)

// Context keys for values the root command stores on the command context.
type (
	// ConfigKey keys the resolved *config.Config.
	ConfigKey struct{}
	// RendererKey keys the *output.Renderer.
	RendererKey struct{}
	// LoggerKey keys the *slog.Logger.
	LoggerKey struct{}
)

// CommandContext bundles the values every command needs.
type CommandContext struct {
	Cfg      *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
}

// NewCommandContext extracts config, renderer and logger from the command's
// context, falling back to sane defaults when a value is missing (as happens
// in tests that invoke a subcommand directly).
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()

	cfg, _ := ctx.Value(ConfigKey{}).(*config.Config)
	if cfg == nil {
		cfg = &config.Config{
			RecipeDir: config.DefaultRecipeDir,
			Jobs:      config.DefaultJobs,
			Output:    config.DefaultOutput,
		}
	}

	renderer, _ := ctx.Value(RendererKey{}).(*output.Renderer)
	if renderer == nil {
		renderer = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
	}

	logger, _ := ctx.Value(LoggerKey{}).(*slog.Logger)
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &CommandContext{Cfg: cfg, Renderer: renderer, Logger: logger}
}
