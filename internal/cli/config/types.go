// Package config loads recipelint configuration from file, environment
// variables and CLI flags.
package config

// Defaults for configuration values.
const (
	DefaultRecipeDir = "recipes"
	DefaultOutput    = "auto"
	DefaultJobs      = 1
)

// Config holds the resolved recipelint configuration.
type Config struct {
	// RecipeDir is the folder recipes live in, one subdirectory per recipe.
	RecipeDir string `koanf:"recipe_dir"`

	// Exclude lists check names skipped for every recipe.
	Exclude []string `koanf:"exclude"`

	// Blacklist lists recipe names flagged by the recipe_is_blacklisted check.
	Blacklist []string `koanf:"blacklist"`

	// SkipText is scanned for "[lint skip <check> for <recipe>]" directives.
	// Usually provided via the LINT_SKIP environment variable or a commit
	// message piped in by CI.
	SkipText string `koanf:"skip_text"`

	// Jobs is the number of recipes linted concurrently.
	Jobs int `koanf:"jobs"`

	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`

	// Output selects the output format (auto|text|json).
	Output string `koanf:"output"`
}
