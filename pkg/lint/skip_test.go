package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSkips(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string][]string
	}{
		{
			name: "single directive",
			text: "fix the build\n\n[lint skip missing_home for bowtie]",
			want: map[string][]string{"bowtie": {"missing_home"}},
		},
		{
			name: "whitespace tolerant",
			text: "[  lint skip uses_git_url for samtools  ]",
			want: map[string][]string{"samtools": {"uses_git_url"}},
		},
		{
			name: "multiple directives",
			text: "[lint skip a for r1][lint skip b for r1]\n[lint skip a for r2]",
			want: map[string][]string{"r1": {"a", "b"}, "r2": {"a"}},
		},
		{
			name: "recipe name with slash",
			text: "[lint skip missing_home for bowtie/2.1.0]",
			want: map[string][]string{"bowtie/2.1.0": {"missing_home"}},
		},
		{
			name: "no directives",
			text: "just a regular commit message",
			want: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSkips(tt.text))
		})
	}
}
