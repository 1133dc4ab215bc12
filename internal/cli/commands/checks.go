package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/bioforge-labs/recipelint/internal/cli/output"
	"github.com/bioforge-labs/recipelint/pkg/lint"
	"github.com/bioforge-labs/recipelint/pkg/lint/checks"
)

// ChecksOptions holds options for the checks command.
type ChecksOptions struct {
	Format  string // Output format: text, json
	Verbose bool   // Show full documentation
}

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	opts := &ChecksOptions{}
	cmd := &cobra.Command{
		Use:   "checks [check-name]",
		Short: "List registered checks",
		Long: `List every registered check with its severity, prerequisites and a
one-line description. Pass a check name to see its full documentation.`,
		Example: `  # List all checks
  recipelint checks

  # Show details for a specific check
  recipelint checks missing_checksum

  # Output as JSON
  recipelint checks --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showCheck(cmd, args[0], opts)
			}
			return listChecks(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")

	return cmd
}

func checksRegistry(cmd *cobra.Command) (*lint.Registry, error) {
	cmdCtx := NewCommandContext(cmd)
	defs := checks.All()
	if len(cmdCtx.Cfg.Blacklist) > 0 {
		defs = append(defs, checks.RecipeIsBlacklisted(cmdCtx.Cfg.Blacklist))
	}
	return lint.NewRegistry(defs...)
}

func listChecks(cmd *cobra.Command, opts *ChecksOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	registry, err := checksRegistry(cmd)
	if err != nil {
		return err
	}
	all := registry.All()

	if r.EffectiveMode() == output.ModeJSON {
		return listChecksJSON(r, all)
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Name", "Severity", "Requires", "Description"})
	for _, check := range all {
		t.AppendRow(table.Row{
			check.Name,
			check.Severity.String(),
			strings.Join(check.Requires, ", "),
			check.Title,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	r.Println("")
	r.Printf("%d checks registered\n", registry.Count())
	if opts.Verbose {
		r.Println(r.Styles().Muted.Render("Use 'recipelint checks <name>' for full documentation"))
	}
	return nil
}

// checkInfo is the JSON representation of a registered check.
type checkInfo struct {
	Name     string   `json:"name"`
	Severity string   `json:"severity"`
	Requires []string `json:"requires,omitempty"`
	Title    string   `json:"title"`
	Body     string   `json:"body,omitempty"`
}

func listChecksJSON(r *output.Renderer, all []*lint.Check) error {
	infos := make([]checkInfo, len(all))
	for i, check := range all {
		infos[i] = checkInfo{
			Name:     check.Name,
			Severity: check.Severity.String(),
			Requires: check.Requires,
			Title:    check.Title,
			Body:     check.Body,
		}
	}
	return r.JSON(struct {
		Checks []checkInfo `json:"checks"`
		Count  int         `json:"count"`
	}{Checks: infos, Count: len(infos)})
}

func showCheck(cmd *cobra.Command, name string, opts *ChecksOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(opts.Format))
	}

	registry, err := checksRegistry(cmd)
	if err != nil {
		return err
	}
	check, ok := registry.Get(name)
	if !ok {
		return fmt.Errorf("check %q not found", name)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(checkInfo{
			Name:     check.Name,
			Severity: check.Severity.String(),
			Requires: check.Requires,
			Title:    check.Title,
			Body:     check.Body,
		})
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Bold.Render(check.Name))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Severity"), check.Severity.String())
	if len(check.Requires) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Requires"), strings.Join(check.Requires, ", "))
	}
	r.Println("")
	r.Println("  " + check.Title)
	if check.Body != "" {
		r.Println("")
		for _, line := range strings.Split(check.Body, "\n") {
			r.Println(styles.Muted.Render("  " + line))
		}
	}
	r.Println("")
	return nil
}
