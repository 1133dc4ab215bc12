package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/bioforge-labs/recipelint/internal/cli/config"
	"github.com/bioforge-labs/recipelint/internal/cli/output"
	"github.com/bioforge-labs/recipelint/pkg/lint"
	"github.com/bioforge-labs/recipelint/pkg/lint/checks"
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, json
	Exclude  []string // Check names to skip for every recipe
	Jobs     int      // Number of recipes linted concurrently
	SkipText string   // Text scanned for lint skip directives
	Watch    bool     // Re-lint on file changes
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [recipe...]",
		Short: "Run checks on package recipes",
		Long: `Run all registered checks against package recipes.

With no arguments every recipe under the recipe directory is linted.
Recipe names are directories containing a meta.yaml file, given relative
to the recipe directory.

Individual checks can be skipped per recipe with a directive of the form
"[lint skip <check> for <recipe>]" in the text passed via --skip-text or
the LINT_SKIP environment variable, or by listing check names under
extra/skip-lints in the recipe itself.`,
		Example: `  # Lint all recipes
  recipelint lint

  # Lint specific recipes
  recipelint lint bwa samtools

  # Lint eight recipes at a time
  recipelint lint --jobs 8

  # Skip a check for one recipe via a commit-message style directive
  recipelint lint --skip-text "[lint skip missing_home for bwa]"

  # Output as JSON
  recipelint lint --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Check names to skip for every recipe")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "Number of recipes linted concurrently")
	cmd.Flags().StringVar(&opts.SkipText, "skip-text", "", "Text scanned for lint skip directives")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch the recipe directory and re-lint on changes")

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// Override renderer if format flag is set
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	linter, err := buildLinter(cfg, opts, cmdCtx)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names, err = discoverRecipes(cfg.RecipeDir)
		if err != nil {
			return fmt.Errorf("failed to discover recipes: %w", err)
		}
		if len(names) == 0 {
			return fmt.Errorf("no recipes found under %s", cfg.RecipeDir)
		}
	}

	lintOnce := func() bool {
		messages, failed := linter.Lint(cmd.Context(), names)
		renderLintResults(r, messages, len(names))
		return failed
	}

	if opts.Watch {
		return watchAndLint(cmd, cfg.RecipeDir, lintOnce)
	}

	if lintOnce() {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// buildLinter assembles the check registry and linter from config and flags.
func buildLinter(cfg *config.Config, opts *LintOptions, cmdCtx *CommandContext) (*lint.Linter, error) {
	defs := checks.All()
	if len(cfg.Blacklist) > 0 {
		defs = append(defs, checks.RecipeIsBlacklisted(cfg.Blacklist))
	}

	registry, err := lint.NewRegistry(defs...)
	if err != nil {
		return nil, err
	}

	exclude := cfg.Exclude
	if len(opts.Exclude) > 0 {
		exclude = opts.Exclude
	}
	skipText := cfg.SkipText
	if opts.SkipText != "" {
		skipText = opts.SkipText
	}
	jobs := cfg.Jobs
	if opts.Jobs > 0 {
		jobs = opts.Jobs
	}

	return lint.New(registry, lint.Options{
		RecipeFolder: cfg.RecipeDir,
		Exclude:      exclude,
		SkipText:     skipText,
		Jobs:         jobs,
		Logger:       cmdCtx.Logger,
	})
}

// discoverRecipes walks the recipe directory and returns the relative path of
// every directory containing a meta.yaml file, sorted.
func discoverRecipes(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "meta.yaml" {
			return nil
		}
		rel, err := filepath.Rel(dir, filepath.Dir(path))
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// lintSummary aggregates message counts for the lint run.
type lintSummary struct {
	RecipesLinted int `json:"recipes_linted"`
	TotalMessages int `json:"total_messages"`
	Failures      int `json:"failures"`
	Warnings      int `json:"warnings"`
	Notices       int `json:"notices"`
}

// lintJSONOutput is the JSON output structure for the lint command.
type lintJSONOutput struct {
	Summary  lintSummary   `json:"summary"`
	Messages []lintMessage `json:"messages"`
	Failed   bool          `json:"failed"`
}

// lintMessage mirrors lint.Message for JSON output with string severities.
type lintMessage struct {
	Recipe    string `json:"recipe"`
	Check     string `json:"check"`
	Severity  string `json:"severity"`
	Level     string `json:"level"`
	Title     string `json:"title"`
	File      string `json:"file,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

func renderLintResults(r *output.Renderer, messages []lint.Message, recipeCount int) {
	summary := lintSummary{RecipesLinted: recipeCount, TotalMessages: len(messages)}
	failed := false
	for _, m := range messages {
		switch m.Level() {
		case "failure":
			summary.Failures++
			failed = true
		case "warning":
			summary.Warnings++
		default:
			summary.Notices++
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := lintJSONOutput{Summary: summary, Failed: failed}
		for _, m := range messages {
			out.Messages = append(out.Messages, lintMessage{
				Recipe:    m.Recipe,
				Check:     m.Check,
				Severity:  m.Severity.String(),
				Level:     m.Level(),
				Title:     m.Title,
				File:      m.File,
				StartLine: m.StartLine,
				EndLine:   m.EndLine,
			})
		}
		_ = r.JSON(out)
		return
	}

	if len(messages) == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d recipes", recipeCount))
		return
	}

	styles := r.Styles()
	currentRecipe := ""
	for _, m := range messages {
		if m.Recipe != currentRecipe {
			if currentRecipe != "" {
				r.Println("")
			}
			currentRecipe = m.Recipe
			r.Println(styles.Recipe.Render(m.Recipe))
		}

		loc := "-"
		if m.StartLine > 0 {
			loc = fmt.Sprintf("%d", m.StartLine)
			if m.EndLine > m.StartLine {
				loc = fmt.Sprintf("%d-%d", m.StartLine, m.EndLine)
			}
		}
		r.Printf("  %s  %s  %s  %s\n",
			styles.Muted.Render(fmt.Sprintf("%-5s", loc)),
			levelStyle(r, m),
			styles.Bold.Render(m.Check),
			m.Title,
		)
	}
	r.Println("")

	parts := []string{fmt.Sprintf("%d messages", summary.TotalMessages)}
	if summary.Failures > 0 {
		parts = append(parts, fmt.Sprintf("%d failures", summary.Failures))
	}
	if summary.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", summary.Warnings))
	}
	if summary.Notices > 0 {
		parts = append(parts, fmt.Sprintf("%d notices", summary.Notices))
	}
	r.Printf("Summary: %s in %d recipes\n", strings.Join(parts, ", "), recipeCount)
}

func levelStyle(r *output.Renderer, m lint.Message) string {
	switch m.Level() {
	case "failure":
		return r.Styles().Error.Render("failure")
	case "warning":
		return r.Styles().Warning.Render("warning")
	default:
		return r.Styles().Info.Render("notice ")
	}
}

// watchAndLint lints once, then re-lints whenever a meta.yaml under dir
// changes. Events are debounced briefly since editors fire several per save.
func watchAndLint(cmd *cobra.Command, dir string, lintOnce func() bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes (Ctrl+C to stop)\n", dir)
	lintOnce()

	var timer *time.Timer
	relint := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case <-relint:
			lintOnce()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// New recipe directories need to be watched too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if filepath.Base(event.Name) != "meta.yaml" {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case relint <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watch error: %v\n", err)
		}
	}
}
