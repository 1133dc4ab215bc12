package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bioforge-labs/recipelint/internal/dag"
	"github.com/bioforge-labs/recipelint/pkg/recipe"
)

// LoadFunc loads a recipe by name. The default reads
// <folder>/<name>/meta.yaml via recipe.LoadFile.
type LoadFunc func(folder, name string) (*recipe.Recipe, error)

// Options configures a Linter.
type Options struct {
	// RecipeFolder is the directory recipes live in.
	RecipeFolder string

	// Exclude lists check names skipped for every recipe.
	Exclude []string

	// SkipText is free text scanned for "[lint skip <check> for <recipe>]"
	// directives, typically the most recent commit message or the LINT_SKIP
	// environment variable.
	SkipText string

	// Jobs is the number of recipes linted concurrently. Checks for one
	// recipe always run sequentially; only distinct recipes are parallel.
	// Values below 2 mean serial.
	Jobs int

	// Logger receives skip decisions and recovered check failures.
	// Defaults to a discard logger.
	Logger *slog.Logger

	// Load overrides recipe loading, mainly for tests.
	Load LoadFunc
}

// Linter runs all registered checks against recipes. Construct once with New;
// the registry, graph and execution order are immutable afterwards. Skip sets
// and message buffers are per run.
type Linter struct {
	registry *Registry
	graph    *dag.Graph
	order    []string

	folder  string
	exclude []string
	skips   map[string][]string
	jobs    int
	logger  *slog.Logger
	load    LoadFunc
}

// New builds a linter from the registry. An unknown prerequisite name or a
// cycle in the prerequisite relation is a fatal configuration error.
func New(registry *Registry, opts Options) (*Linter, error) {
	graph := dag.NewGraph()
	for _, check := range registry.All() {
		graph.AddNode(check.Name)
	}
	for _, check := range registry.All() {
		for _, req := range check.Requires {
			if !graph.Has(req) {
				return nil, fmt.Errorf("check %q requires unknown check %q", check.Name, req)
			}
			if err := graph.AddEdge(req, check.Name); err != nil {
				return nil, fmt.Errorf("building check graph: %w", err)
			}
		}
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("cycle in check requirements: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	load := opts.Load
	if load == nil {
		load = recipe.LoadFile
	}

	return &Linter{
		registry: registry,
		graph:    graph,
		order:    order,
		folder:   opts.RecipeFolder,
		exclude:  opts.Exclude,
		skips:    ParseSkips(opts.SkipText),
		jobs:     opts.Jobs,
		logger:   logger,
		load:     load,
	}, nil
}

// Order returns the cached execution order, prerequisites first.
func (l *Linter) Order() []string {
	return l.order
}

// Lint runs all checks for every named recipe and returns the collected
// messages plus the overall verdict: true iff any message has severity Error
// or higher. Recipe names are processed in sorted order; with Jobs > 1
// independent recipes are linted concurrently while message order stays
// deterministic.
func (l *Linter) Lint(ctx context.Context, recipeNames []string) ([]Message, bool) {
	names := append([]string(nil), recipeNames...)
	sort.Strings(names)

	results := make([][]Message, len(names))

	if l.jobs > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(l.jobs)
		for i, name := range names {
			i, name := i, name
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = l.LintOne(gctx, name)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, name := range names {
			if ctx.Err() != nil {
				break
			}
			results[i] = l.LintOne(ctx, name)
		}
	}

	var messages []Message
	failed := false
	for _, msgs := range results {
		for _, msg := range msgs {
			if msg.Severity >= SeverityError {
				failed = true
			}
		}
		messages = append(messages, msgs...)
	}
	return messages, failed
}

// LintOne runs all checks for a single recipe and returns its messages in
// execution order. A recipe that fails to load yields exactly one message
// from the matching sentinel check, and no other checks run.
func (l *Linter) LintOne(ctx context.Context, recipeName string) (messages []Message) {
	// A failure outside any single check still must not abort the run.
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("unexpected panic in lint run",
				slog.String("recipe", recipeName), slog.Any("panic", p))
			check, _ := l.registry.Get(CheckLinterFailure)
			messages = []Message{makeMessage(check, recipe.New(recipeName))}
		}
	}()

	r, err := l.load(l.folder, recipeName)
	if err != nil {
		return []Message{l.structuralFailure(recipeName, err)}
	}

	skip := l.resolveSkips(r)

	for _, name := range l.order {
		if ctx.Err() != nil {
			break
		}
		if skip[name] {
			continue
		}
		check, ok := l.registry.Get(name)
		if !ok {
			continue
		}

		msgs := l.runCheck(check, r)

		if len(msgs) > 0 {
			// Reactive propagation: a failed prerequisite preemptively
			// disables its dependents for this recipe only.
			for _, dep := range l.graph.Dependents(name) {
				if !skip[dep] {
					l.logger.Info("disabling dependent of failed check",
						slog.String("check", dep),
						slog.String("failed", name))
					skip[dep] = true
				}
			}
		}
		messages = append(messages, msgs...)
	}

	return messages
}

// runCheck invokes one check's hooks for a recipe with a fresh message
// buffer. A panic inside a hook is converted into a single synthetic Error
// message naming the check.
func (l *Linter) runCheck(check *Check, r *recipe.Recipe) (messages []Message) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("check raised an unexpected error",
				slog.String("check", check.Name),
				slog.String("recipe", r.Name),
				slog.Any("panic", p))
			messages = []Message{{
				Recipe:   r.Name,
				Check:    check.Name,
				Severity: SeverityError,
				Title:    "Check raised an unexpected exception",
				File:     r.Path,
			}}
		}
	}()

	run := &Run{Recipe: r, check: check}

	if check.CheckRecipe != nil {
		check.CheckRecipe(run)
	}

	if check.CheckSource != nil {
		switch source := r.Get("source", nil).(type) {
		case map[string]any:
			check.CheckSource(run, source, "source")
		case []any:
			for i, entry := range source {
				if src, ok := entry.(map[string]any); ok {
					check.CheckSource(run, src, fmt.Sprintf("source/%d", i))
				}
			}
		}
	}

	if check.CheckDeps != nil {
		check.CheckDeps(run, r.GetDepsDict())
	}

	return run.messages
}

// structuralFailure maps a recipe load error to its sentinel check message.
func (l *Linter) structuralFailure(recipeName string, err error) Message {
	checkName := CheckLinterFailure
	line := 0

	var rerr *recipe.Error
	if errors.As(err, &rerr) {
		if name, ok := sentinelForKind[rerr.Kind]; ok {
			checkName = name
		}
		line = rerr.Line
	}
	l.logger.Debug("recipe failed to load",
		slog.String("recipe", recipeName),
		slog.String("check", checkName),
		slog.Any("error", err))

	check, _ := l.registry.Get(checkName)
	return makeMessage(check, recipe.New(recipeName), WithLine(line))
}
