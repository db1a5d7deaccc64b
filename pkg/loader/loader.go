// Package loader reads node trees from files. Three formats are supported:
// nested JSON (tree.json), nested YAML (tree.yaml), and flat JSONL
// (nodes.jsonl) where each line is one node row carrying a parent reference.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	// WarningHandler is called with warning messages (e.g., malformed rows).
	// If nil, warnings are printed to os.Stderr (suppressed in robot mode).
	WarningHandler func(string)

	// BufferSize sets the maximum JSONL line size (in bytes) to read at
	// once. Lines longer than this are skipped with a warning.
	// If 0, uses DefaultMaxBufferSize.
	BufferSize int
}

func (o ParseOptions) warn() func(string) {
	if o.WarningHandler != nil {
		return o.WarningHandler
	}
	if os.Getenv("CNP_ROBOT") == "1" {
		return func(string) {}
	}
	return func(msg string) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}

// LoadTree reads a tree from path, choosing the parser by file extension.
func LoadTree(path string) ([]*model.Node, error) {
	return LoadTreeWithOptions(path, ParseOptions{})
}

// LoadTreeWithOptions reads a tree from path with custom options.
func LoadTreeWithOptions(path string, opts ParseOptions) ([]*model.Node, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tree file: %w", err)
		}
		return ParseJSON(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tree file: %w", err)
		}
		return ParseYAML(data)
	case ".jsonl":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open nodes file: %w", err)
		}
		defer f.Close()
		return ParseFlat(f, opts)
	default:
		return nil, fmt.Errorf("unsupported tree format %q (want .json, .yaml, or .jsonl)", filepath.Ext(path))
	}
}

// treeFile is the wrapper object form: {"roots": [...]}. A bare top-level
// array of nodes is accepted too.
type treeFile struct {
	Roots []*model.Node `json:"roots" yaml:"roots"`
}

// ParseJSON parses a nested JSON tree: either a bare array of root nodes or
// an object with a "roots" key.
func ParseJSON(data []byte) ([]*model.Node, error) {
	data = stripBOM(data)

	var roots []*model.Node
	if err := json.Unmarshal(data, &roots); err == nil {
		return validateRoots(roots)
	}

	var file treeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tree JSON: %w", err)
	}
	return validateRoots(file.Roots)
}

// ParseYAML parses a nested YAML tree, same shapes as ParseJSON.
func ParseYAML(data []byte) ([]*model.Node, error) {
	var roots []*model.Node
	if err := yaml.Unmarshal(data, &roots); err == nil && len(roots) > 0 {
		return validateRoots(roots)
	}

	var file treeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tree YAML: %w", err)
	}
	return validateRoots(file.Roots)
}

// validateRoots checks every reachable node carries an id. Shape defects
// beyond that (duplicate ids) are the engine's diagnostics, not the
// loader's.
func validateRoots(roots []*model.Node) ([]*model.Node, error) {
	var check func(n *model.Node, path string) error
	check = func(n *model.Node, path string) error {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("node at %s: %w", path, err)
		}
		for i, c := range n.Children {
			if err := check(c, fmt.Sprintf("%s/%s[%d]", path, n.ID, i)); err != nil {
				return err
			}
		}
		return nil
	}
	for i, r := range roots {
		if err := check(r, fmt.Sprintf("roots[%d]", i)); err != nil {
			return nil, err
		}
	}
	return roots, nil
}
