package lint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioforge-labs/recipelint/internal/testutil"
	"github.com/bioforge-labs/recipelint/pkg/recipe"
)

const minimalRecipe = `package:
  name: testpkg
  version: "1.0"
build:
  number: 0
`

// mapLoader serves recipes from an in-memory map of meta.yaml texts.
func mapLoader(files map[string]string) LoadFunc {
	return func(_, name string) (*recipe.Recipe, error) {
		text, ok := files[name]
		if !ok {
			return nil, &recipe.Error{Kind: recipe.ErrMissingFile}
		}
		return recipe.Load(name, []byte(text))
	}
}

// alwaysFail returns a check that emits one message on every recipe.
func alwaysFail(name string, requires ...string) CheckDef {
	return CheckDef{
		Name:     name,
		Requires: requires,
		Doc:      name + " failed\n\nDetails for " + name + ".",
		CheckRecipe: func(run *Run) {
			run.Message()
		},
	}
}

// alwaysPass returns a check that never emits a message.
func alwaysPass(name string, requires ...string) CheckDef {
	return CheckDef{
		Name:        name,
		Requires:    requires,
		Doc:         name + " passed",
		CheckRecipe: func(_ *Run) {},
	}
}

func newTestLinter(t *testing.T, opts Options, files map[string]string, defs ...CheckDef) *Linter {
	t.Helper()
	reg, err := NewRegistry(defs...)
	require.NoError(t, err)
	if opts.Load == nil {
		opts.Load = mapLoader(files)
	}
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(t)
	}
	l, err := New(reg, opts)
	require.NoError(t, err)
	return l
}

func checkNames(msgs []Message) []string {
	names := make([]string, len(msgs))
	for i, m := range msgs {
		names[i] = m.Check
	}
	return names
}

func TestRegistry_DuplicateNameFails(t *testing.T) {
	_, err := NewRegistry(alwaysPass("dup"), alwaysPass("dup"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate check name")
}

func TestRegistry_IncludesSentinels(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	for _, name := range []string{
		CheckLinterFailure, CheckDuplicateKey, CheckMissingNameOrVer,
		CheckEmptyMetaYaml, CheckMissingBuild, CheckUnknownSelector,
		CheckMissingMetaYaml, CheckTemplateRender,
	} {
		_, ok := reg.Get(name)
		assert.True(t, ok, "sentinel %s not registered", name)
	}
}

func TestNew_CycleIsFatal(t *testing.T) {
	reg, err := NewRegistry(
		alwaysPass("a", "b"),
		alwaysPass("b", "a"),
	)
	require.NoError(t, err)

	_, err = New(reg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestNew_UnknownPrerequisiteIsFatal(t *testing.T) {
	reg, err := NewRegistry(alwaysPass("a", "no_such_check"))
	require.NoError(t, err)

	_, err = New(reg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check")
}

func TestOrder_PrerequisitesFirst(t *testing.T) {
	l := newTestLinter(t, Options{}, nil,
		alwaysPass("zz_late", "mid"),
		alwaysPass("mid", "aa_early"),
		alwaysPass("aa_early"),
		alwaysPass("standalone"),
	)

	pos := make(map[string]int)
	for i, name := range l.Order() {
		pos[name] = i
	}
	for _, check := range l.registry.All() {
		for _, req := range check.Requires {
			assert.Less(t, pos[req], pos[check.Name],
				"%s must run before %s", req, check.Name)
		}
	}
}

func TestLintOne_PanicIsolated(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{}, files,
		CheckDef{
			Name:        "panics",
			Doc:         "This check panics",
			CheckRecipe: func(_ *Run) { panic("boom") },
		},
		alwaysFail("unrelated"),
	)

	msgs := l.LintOne(context.Background(), "r1")

	var panicMsgs, unrelatedMsgs []Message
	for _, m := range msgs {
		switch m.Check {
		case "panics":
			panicMsgs = append(panicMsgs, m)
		case "unrelated":
			unrelatedMsgs = append(unrelatedMsgs, m)
		}
	}

	require.Len(t, panicMsgs, 1, "panicking check must yield exactly one message")
	assert.Equal(t, SeverityError, panicMsgs[0].Severity)
	assert.Equal(t, "Check raised an unexpected exception", panicMsgs[0].Title)
	require.Len(t, unrelatedMsgs, 1, "other checks must still run")
}

func TestLintOne_FailedPrerequisiteSkipsDependents(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{}, files,
		alwaysFail("b"),
		alwaysFail("a", "b"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.Equal(t, []string{"b"}, checkNames(msgs),
		"b's failure must suppress a")
}

func TestLintOne_FailedCheckSkipsTransitiveDependents(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{}, files,
		alwaysFail("base"),
		alwaysFail("mid", "base"),
		alwaysFail("top", "mid"),
		alwaysFail("standalone"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.ElementsMatch(t, []string{"base", "standalone"}, checkNames(msgs))
}

func TestLintOne_PrerequisiteAloneStillRuns(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{Exclude: []string{"a"}}, files,
		alwaysFail("b"),
		alwaysFail("a", "b"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.Equal(t, []string{"b"}, checkNames(msgs),
		"excluding the dependent must not silence the prerequisite")
}

func TestLintOne_SkipDirectiveIsRecipeSpecific(t *testing.T) {
	files := map[string]string{"bar": minimalRecipe, "other": minimalRecipe}
	l := newTestLinter(t, Options{SkipText: "[lint skip foo for bar]"}, files,
		alwaysFail("foo"),
	)

	assert.Empty(t, l.LintOne(context.Background(), "bar"),
		"directive must suppress foo for bar")
	assert.Equal(t, []string{"foo"},
		checkNames(l.LintOne(context.Background(), "other")),
		"directive must not affect other recipes")
}

func TestLintOne_ProactiveSkipPropagatesToPrerequisites(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{SkipText: "[lint skip top for r1]"}, files,
		alwaysFail("base"),
		alwaysFail("top", "base"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.Empty(t, msgs, "skipping top must drag its prerequisite base along")
}

func TestLintOne_SkippingPrerequisiteKeepsDependent(t *testing.T) {
	// The asymmetry: proactive propagation walks toward prerequisites only.
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t, Options{SkipText: "[lint skip base for r1]"}, files,
		alwaysPass("base"),
		alwaysFail("top", "base"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.Equal(t, []string{"top"}, checkNames(msgs),
		"skipping base must not proactively silence top")
}

func TestLintOne_EmbeddedSkipLints(t *testing.T) {
	withSkip := minimalRecipe + `extra:
  skip-lints:
    - noisy
`
	files := map[string]string{"r1": withSkip}
	l := newTestLinter(t, Options{}, files, alwaysFail("noisy"))

	assert.Empty(t, l.LintOne(context.Background(), "r1"))
}

func TestLintOne_EmbeddedSkipLintsNotAList(t *testing.T) {
	malformed := minimalRecipe + `extra:
  skip-lints: noisy
`
	files := map[string]string{"r1": malformed}
	l := newTestLinter(t, Options{}, files, alwaysFail("noisy"))

	// The malformed override is ignored for skip purposes.
	assert.Equal(t, []string{"noisy"},
		checkNames(l.LintOne(context.Background(), "r1")))
}

func TestLintOne_UnknownSkipNameIgnored(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	l := newTestLinter(t,
		Options{Exclude: []string{"does_not_exist"}}, files,
		alwaysFail("real"),
	)

	msgs := l.LintOne(context.Background(), "r1")
	assert.Equal(t, []string{"real"}, checkNames(msgs),
		"unknown skip names are non-fatal and ignored")
}

func TestLintOne_PassingCheckEmitsNothing(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	allHooks := CheckDef{
		Name:        "quiet",
		Doc:         "Never fails",
		CheckRecipe: func(_ *Run) {},
		CheckSource: func(_ *Run, _ map[string]any, _ string) {},
		CheckDeps:   func(_ *Run, _ map[string][]string) {},
	}
	l := newTestLinter(t, Options{}, files, allHooks)

	assert.Empty(t, l.LintOne(context.Background(), "r1"))
}

func TestLintOne_SourceIteration(t *testing.T) {
	single := minimalRecipe + `source:
  url: https://example.com/a.tar.gz
`
	list := minimalRecipe + `source:
  - url: https://example.com/a.tar.gz
  - url: https://example.com/b.tar.gz
`

	var sections []string
	record := CheckDef{
		Name: "record_sections",
		Doc:  "Records visited source sections",
		CheckSource: func(_ *Run, _ map[string]any, section string) {
			sections = append(sections, section)
		},
	}

	files := map[string]string{"single": single, "list": list}
	l := newTestLinter(t, Options{}, files, record)

	sections = nil
	l.LintOne(context.Background(), "single")
	assert.Equal(t, []string{"source"}, sections)

	sections = nil
	l.LintOne(context.Background(), "list")
	assert.Equal(t, []string{"source/0", "source/1"}, sections)
}

func TestLintOne_DepsHookReceivesFullMapping(t *testing.T) {
	withDeps := minimalRecipe + `requirements:
  run:
    - zlib
    - python >=3.8
`
	var got map[string][]string
	record := CheckDef{
		Name: "record_deps",
		Doc:  "Records the deps mapping",
		CheckDeps: func(_ *Run, deps map[string][]string) {
			got = deps
		},
	}

	files := map[string]string{"r1": withDeps}
	l := newTestLinter(t, Options{}, files, record)
	l.LintOne(context.Background(), "r1")

	require.NotNil(t, got)
	assert.Equal(t, []string{"requirements/run/0"}, got["zlib"])
	assert.Equal(t, []string{"requirements/run/1"}, got["python"])
}

func TestLintOne_DuplicateKeySentinel(t *testing.T) {
	dup := `package:
  name: foo
  version: "1.0"
  name: bar
build:
  number: 0
`
	files := map[string]string{"r1": dup}
	l := newTestLinter(t, Options{}, files, alwaysFail("never_runs"))

	msgs := l.LintOne(context.Background(), "r1")
	require.Len(t, msgs, 1,
		"structural failure must yield exactly one sentinel message")
	assert.Equal(t, CheckDuplicateKey, msgs[0].Check)
	assert.Equal(t, SeverityError, msgs[0].Severity)
}

func TestLintOne_MissingRecipeSentinel(t *testing.T) {
	l := newTestLinter(t, Options{}, map[string]string{}, alwaysFail("never_runs"))

	msgs := l.LintOne(context.Background(), "gone")
	require.Len(t, msgs, 1)
	assert.Equal(t, CheckMissingMetaYaml, msgs[0].Check)
	assert.Equal(t, "gone", msgs[0].Recipe)
}

func TestLint_Verdict(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}

	warnOnly := CheckDef{
		Name:        "warns",
		Severity:    SeverityWarning,
		Doc:         "Only warns",
		CheckRecipe: func(run *Run) { run.Message() },
	}
	l := newTestLinter(t, Options{}, files, warnOnly)
	msgs, failed := l.Lint(context.Background(), []string{"r1"})
	require.Len(t, msgs, 1)
	assert.False(t, failed, "warnings alone must not fail the run")

	l = newTestLinter(t, Options{}, files, alwaysFail("errs"))
	msgs, failed = l.Lint(context.Background(), []string{"r1"})
	require.Len(t, msgs, 1)
	assert.True(t, failed)
}

func TestLint_ParallelMatchesSerial(t *testing.T) {
	files := map[string]string{
		"r1": minimalRecipe,
		"r2": minimalRecipe,
		"r3": minimalRecipe,
		"r4": minimalRecipe,
	}
	names := []string{"r4", "r2", "r3", "r1"}
	defs := []CheckDef{alwaysFail("one"), alwaysFail("two")}

	serial := newTestLinter(t, Options{}, files, defs...)
	parallel := newTestLinter(t, Options{Jobs: 4}, files, defs...)

	serialMsgs, serialFailed := serial.Lint(context.Background(), names)
	parallelMsgs, parallelFailed := parallel.Lint(context.Background(), names)

	assert.Equal(t, serialMsgs, parallelMsgs)
	assert.Equal(t, serialFailed, parallelFailed)
}

func TestMessage_SeverityMatchesCheck(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	info := CheckDef{
		Name:        "fyi",
		Severity:    SeverityInfo,
		Doc:         "Heads up\n\nJust so you know.",
		CheckRecipe: func(run *Run) { run.Message() },
	}
	l := newTestLinter(t, Options{}, files, info)

	msgs := l.LintOne(context.Background(), "r1")
	require.Len(t, msgs, 1)
	assert.Equal(t, SeverityInfo, msgs[0].Severity)
	assert.Equal(t, "Heads up", msgs[0].Title)
	assert.Equal(t, "Just so you know.", msgs[0].Body)
	assert.Equal(t, "notice", msgs[0].Level())
}

func TestMessage_SectionResolution(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}

	located := CheckDef{
		Name:        "locates",
		Doc:         "Points at the build section",
		CheckRecipe: func(run *Run) { run.Message(WithSection("build")) },
	}
	dangling := CheckDef{
		Name:        "dangles",
		Doc:         "Points at a missing section",
		CheckRecipe: func(run *Run) { run.Message(WithSection("no/such/path")) },
	}
	l := newTestLinter(t, Options{}, files, located, dangling)

	msgs := l.LintOne(context.Background(), "r1")
	require.Len(t, msgs, 2)

	byCheck := make(map[string]Message)
	for _, m := range msgs {
		byCheck[m.Check] = m
	}

	// the build section's content sits on line 5 of minimalRecipe
	assert.Equal(t, 5, byCheck["locates"].StartLine)
	assert.Equal(t, 5, byCheck["locates"].EndLine)

	// unresolvable path falls back to a single-line span at the top
	assert.Equal(t, 1, byCheck["dangles"].StartLine)
	assert.Equal(t, 1, byCheck["dangles"].EndLine)
}

func TestMessage_ExplicitLineAndFile(t *testing.T) {
	files := map[string]string{"r1": minimalRecipe}
	pinned := CheckDef{
		Name: "pinned",
		Doc:  "Pins a line",
		CheckRecipe: func(run *Run) {
			run.Message(WithLine(42), WithFile("build.sh"))
		},
	}
	l := newTestLinter(t, Options{}, files, pinned)

	msgs := l.LintOne(context.Background(), "r1")
	require.Len(t, msgs, 1)
	assert.Equal(t, 42, msgs[0].StartLine)
	assert.Equal(t, 42, msgs[0].EndLine)
	assert.Equal(t, "build.sh", msgs[0].File)
}
