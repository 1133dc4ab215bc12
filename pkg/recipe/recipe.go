// Package recipe provides the package-recipe document model consumed by the
// lint engine. A recipe is a meta.yaml file; loading performs template
// rendering, structural validation and line tracking for lint annotations.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the canonical recipe file name.
const DefaultFileName = "meta.yaml"

// Recipe is a parsed recipe document.
type Recipe struct {
	// Name identifies the recipe, e.g. "bowtie2" or "bowtie2/2.1.0".
	Name string
	// Path is the file name used in lint messages.
	Path string

	root *yaml.Node
	data any
}

// New returns an empty recipe shell carrying only identity. Used for messages
// about recipes that failed to load.
func New(name string) *Recipe {
	return &Recipe{Name: name, Path: DefaultFileName}
}

// LoadFile reads and parses <folder>/<name>/meta.yaml.
func LoadFile(folder, name string) (*Recipe, error) {
	path := filepath.Join(folder, name, DefaultFileName)
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError(ErrMissingFile, err)
	}
	r, err := Load(name, text)
	if err != nil {
		return nil, err
	}
	r.Path = path
	return r, nil
}

var selectorRe = regexp.MustCompile(`#\s*\[.+\]\s*$`)

// Load parses recipe text. Structural failures are reported as *Error with a
// kind that maps to a sentinel lint check.
func Load(name string, text []byte) (*Recipe, error) {
	if strings.TrimSpace(string(text)) == "" {
		return nil, newError(ErrEmptyRecipe, 0, "meta.yaml is empty")
	}

	for i, line := range strings.Split(string(text), "\n") {
		if selectorRe.MatchString(line) {
			return nil, newError(ErrHasSelector, i+1, fmt.Sprintf("selector on line %d", i+1))
		}
	}

	rendered, err := render(string(text))
	if err != nil {
		return nil, wrapError(ErrRenderFailure, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(rendered), &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", DefaultFileName, err)
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, newError(ErrEmptyRecipe, 0, "meta.yaml has no mapping content")
	}
	root := doc.Content[0]

	if key, line := findDuplicateKey(root); key != "" {
		return nil, newError(ErrDuplicateKey, line, fmt.Sprintf("key %q defined twice", key))
	}

	var data any
	if err := root.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", DefaultFileName, err)
	}

	r := &Recipe{
		Name: name,
		Path: DefaultFileName,
		root: root,
		data: data,
	}

	if r.Get("package/name", nil) == nil || r.Get("package/version", nil) == nil {
		return nil, newError(ErrMissingKey, 1, "package name and/or version missing")
	}
	if r.Get("build", nil) == nil {
		return nil, newError(ErrMissingBuild, 1, "build section missing")
	}

	return r, nil
}

var (
	setRe  = regexp.MustCompile(`\{%\s*set\s+(\w+)\s*=\s*"?([^"%]*?)"?\s*%\}`)
	exprRe = regexp.MustCompile(`\{\{\s*([^}]*?)\s*\}\}`)
	tagRe  = regexp.MustCompile(`\{%[^}]*%\}`)
)

// render applies minimal template handling: `{% set var = value %}`
// assignments and `{{ var }}` substitutions. Anything beyond plain variable
// references fails rendering.
func render(text string) (string, error) {
	vars := make(map[string]string)
	for _, m := range setRe.FindAllStringSubmatch(text, -1) {
		vars[m[1]] = m[2]
	}
	text = setRe.ReplaceAllString(text, "")

	if m := tagRe.FindString(text); m != "" {
		return "", fmt.Errorf("unsupported template tag %q", m)
	}

	var renderErr error
	text = exprRe.ReplaceAllStringFunc(text, func(expr string) string {
		name := strings.TrimSpace(exprRe.FindStringSubmatch(expr)[1])
		val, ok := vars[name]
		if !ok {
			if renderErr == nil {
				renderErr = fmt.Errorf("undefined template variable %q", name)
			}
			return expr
		}
		return val
	})
	if renderErr != nil {
		return "", renderErr
	}
	return text, nil
}

// findDuplicateKey walks the node tree looking for a mapping with a repeated
// key. Returns the key and its line, or "" if none.
func findDuplicateKey(node *yaml.Node) (string, int) {
	if node.Kind == yaml.MappingNode {
		seen := make(map[string]bool)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			if seen[key.Value] {
				return key.Value, key.Line
			}
			seen[key.Value] = true
		}
	}
	for _, child := range node.Content {
		if key, line := findDuplicateKey(child); key != "" {
			return key, line
		}
	}
	return "", 0
}

// Get looks up a field by slash-delimited path, e.g. "package/name" or
// "source/0/url". Numeric segments index into lists. Returns def if the path
// does not resolve.
func (r *Recipe) Get(path string, def any) any {
	cur := r.data
	if path == "" {
		return cur
	}
	for _, seg := range strings.Split(path, "/") {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return def
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return def
			}
			cur = v[idx]
		default:
			return def
		}
	}
	if cur == nil {
		return def
	}
	return cur
}

// requirement sections scanned by GetDepsDict, in document order.
var depSections = []string{"build", "host", "run"}

// GetDepsDict returns a mapping from dependency identifier to the ordered list
// of section paths where it is declared, covering the top-level requirements
// and every output's requirements.
func (r *Recipe) GetDepsDict() map[string][]string {
	deps := make(map[string][]string)

	collect := func(prefix string) {
		for _, sec := range depSections {
			path := prefix + "requirements/" + sec
			list, ok := r.Get(path, nil).([]any)
			if !ok {
				continue
			}
			for i, entry := range list {
				spec, ok := entry.(string)
				if !ok {
					continue
				}
				// Strip version constraints: "zlib >=1.2" declares "zlib"
				name := strings.Fields(spec)
				if len(name) == 0 {
					continue
				}
				deps[name[0]] = append(deps[name[0]], fmt.Sprintf("%s/%d", path, i))
			}
		}
	}

	collect("")
	if outputs, ok := r.Get("outputs", nil).([]any); ok {
		for i := range outputs {
			collect(fmt.Sprintf("outputs/%d/", i))
		}
	}

	return deps
}

// GetRawRange resolves a section path to its source location as
// (startLine, startCol, endLine, endCol). Lines are 1-based. The end column is
// zero when the section spans whole lines, in which case endLine points one
// past the last line. Returns an error if the path does not resolve.
func (r *Recipe) GetRawRange(section string) (int, int, int, int, error) {
	node := r.resolveNode(section)
	if node == nil {
		return 0, 0, 0, 0, fmt.Errorf("section %q not found", section)
	}
	return node.Line, node.Column, lastLine(node) + 1, 0, nil
}

// resolveNode walks the retained yaml node tree along a slash-delimited path.
func (r *Recipe) resolveNode(section string) *yaml.Node {
	node := r.root
	if node == nil {
		return nil
	}
	for _, seg := range strings.Split(section, "/") {
		switch node.Kind {
		case yaml.MappingNode:
			var next *yaml.Node
			for i := 0; i+1 < len(node.Content); i += 2 {
				if node.Content[i].Value == seg {
					next = node.Content[i+1]
					break
				}
			}
			if next == nil {
				return nil
			}
			node = next
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node.Content) {
				return nil
			}
			node = node.Content[idx]
		default:
			return nil
		}
	}
	return node
}

// lastLine returns the greatest line number among a node and its descendants.
func lastLine(node *yaml.Node) int {
	line := node.Line
	for _, child := range node.Content {
		if l := lastLine(child); l > line {
			line = l
		}
	}
	return line
}
