package config

import (
	"fmt"
	"strings"
)

var validOutputs = []string{"auto", "text", "json"}

// Validate checks the resolved configuration for values that would only fail
// later with a worse error message.
func (c *Config) Validate() error {
	if c.RecipeDir == "" {
		return fmt.Errorf("recipe_dir must not be empty")
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}

	ok := false
	for _, v := range validOutputs {
		if c.Output == v {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unknown output format %q (available: %s)",
			c.Output, strings.Join(validOutputs, ", "))
	}
	return nil
}
