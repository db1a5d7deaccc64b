// Package datasource provides multi-source detection and selection for
// canopy tree data. It discovers, validates, and selects the freshest valid
// source from SQLite databases, nested JSON/YAML tree files, and flat JSONL
// node files in a data directory.
package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/canopy/pkg/loader"
	"github.com/vanderheijden86/canopy/pkg/model"
)

// SourceType identifies the type of data source.
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (tree.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeTreeFile is a nested JSON or YAML tree file.
	SourceTypeTreeFile SourceType = "tree_file"
	// SourceTypeJSONL is a flat JSONL node file.
	SourceTypeJSONL SourceType = "jsonl"
)

// Priority values for source types (higher = more authoritative).
const (
	PrioritySQLite   = 100
	PriorityTreeFile = 80
	PriorityJSONL    = 50
)

// candidateNames maps well-known file names to source types.
var candidateNames = []struct {
	name     string
	typ      SourceType
	priority int
}{
	{"tree.db", SourceTypeSQLite, PrioritySQLite},
	{"tree.json", SourceTypeTreeFile, PriorityTreeFile},
	{"tree.yaml", SourceTypeTreeFile, PriorityTreeFile},
	{"tree.yml", SourceTypeTreeFile, PriorityTreeFile},
	{"nodes.jsonl", SourceTypeJSONL, PriorityJSONL},
}

// DataSource represents a potential source of tree data.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// Priority determines preference when timestamps are equal (higher = preferred)
	Priority int `json:"priority"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Valid indicates whether the source passed validation
	Valid bool `json:"valid"`
	// ValidationError describes why validation failed (if Valid is false)
	ValidationError string `json:"validation_error,omitempty"`
	// NodeCount is the number of nodes in the source (set during validation)
	NodeCount int `json:"node_count"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source.
func (s DataSource) String() string {
	status := "valid"
	if !s.Valid {
		status = fmt.Sprintf("invalid: %s", s.ValidationError)
	}
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s, nodes=%d, %s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339), s.NodeCount, status)
}

// DiscoveryOptions configures source discovery behavior.
type DiscoveryOptions struct {
	// Dir is the data directory to scan. Uses cwd if empty.
	Dir string
	// Validate loads each discovered source to confirm it parses.
	Validate bool
	// IncludeInvalid includes sources that failed validation in results.
	IncludeInvalid bool
	// Logger receives verbose log messages. Nil disables logging.
	Logger func(msg string)
}

// DiscoverSources finds all potential tree data sources in the directory,
// sorted freshest-first (priority breaks modification-time ties).
func DiscoverSources(opts DiscoveryOptions) ([]DataSource, error) {
	logf := opts.Logger
	if logf == nil {
		logf = func(string) {}
	}

	dir := opts.Dir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	logf(fmt.Sprintf("Discovering sources in: %s", dir))

	var sources []DataSource
	for _, cand := range candidateNames {
		path := filepath.Join(dir, cand.name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || info.Size() == 0 {
			continue
		}
		sources = append(sources, DataSource{
			Type:     cand.typ,
			Path:     path,
			Priority: cand.priority,
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
		logf(fmt.Sprintf("Found %s: %s (mod=%s)", cand.typ, path, info.ModTime().Format(time.RFC3339)))
	}

	if opts.Validate {
		// Validation parses each candidate in full; run candidates
		// concurrently since they are independent files.
		g, _ := errgroup.WithContext(context.Background())
		for i := range sources {
			src := &sources[i]
			g.Go(func() error {
				if err := ValidateSource(src); err != nil {
					logf(fmt.Sprintf("Validation failed for %s: %v", src.Path, err))
				}
				return nil
			})
		}
		_ = g.Wait()

		if !opts.IncludeInvalid {
			valid := sources[:0]
			for _, s := range sources {
				if s.Valid {
					valid = append(valid, s)
				}
			}
			sources = valid
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ModTime.After(sources[j].ModTime)
	})

	logf(fmt.Sprintf("Discovered %d sources", len(sources)))
	return sources, nil
}

// ValidateSource loads the source and records node count or failure on it.
func ValidateSource(s *DataSource) error {
	roots, err := LoadSource(*s)
	if err != nil {
		s.Valid = false
		s.ValidationError = err.Error()
		return err
	}
	s.Valid = true
	s.ValidationError = ""
	s.NodeCount = model.CountNodes(roots)
	return nil
}

// LoadSource reads the tree from a single source.
func LoadSource(s DataSource) ([]*model.Node, error) {
	switch s.Type {
	case SourceTypeSQLite:
		r, err := NewSQLiteReader(s)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return r.LoadTree()
	case SourceTypeTreeFile, SourceTypeJSONL:
		return loader.LoadTree(s.Path)
	default:
		return nil, fmt.Errorf("unknown source type %q", s.Type)
	}
}

// LoadTree discovers sources in dir and loads the freshest valid one.
func LoadTree(dir string) ([]*model.Node, DataSource, error) {
	sources, err := DiscoverSources(DiscoveryOptions{Dir: dir, Validate: true})
	if err != nil {
		return nil, DataSource{}, err
	}
	if len(sources) == 0 {
		return nil, DataSource{}, fmt.Errorf("no tree data found in %s (want tree.db, tree.json, tree.yaml, or nodes.jsonl)", dir)
	}

	best := sources[0]
	roots, err := LoadSource(best)
	if err != nil {
		return nil, best, fmt.Errorf("loading %s: %w", best.Path, err)
	}
	return roots, best, nil
}
