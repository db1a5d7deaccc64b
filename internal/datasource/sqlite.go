package datasource

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/canopy/pkg/model"
)

// SQLiteReader provides read access to a canopy tree database. The schema
// is a single flat table:
//
//	CREATE TABLE nodes (
//	    id       TEXT PRIMARY KEY,
//	    label    TEXT NOT NULL DEFAULT '',
//	    parent   TEXT,
//	    position INTEGER NOT NULL DEFAULT 0
//	);
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading.
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode with pragmas tuned for read performance.
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA cache_size = -16000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		_, _ = db.Exec(pragma) // Non-fatal
	}

	return &SQLiteReader{db: db, path: source.Path}, nil
}

// Close closes the database connection.
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type nodeRow struct {
	id       string
	label    string
	parent   string
	position int
}

// LoadTree reads all node rows and assembles the ownership tree. Rows whose
// parent does not exist become roots, matching the JSONL loader.
func (r *SQLiteReader) LoadTree() ([]*model.Node, error) {
	rows, err := r.db.Query(`SELECT id, COALESCE(label, ''), COALESCE(parent, ''), COALESCE(position, 0) FROM nodes`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var all []nodeRow
	for rows.Next() {
		var row nodeRow
		if err := rows.Scan(&row.id, &row.label, &row.parent, &row.position); err != nil {
			return nil, fmt.Errorf("scanning node row: %w", err)
		}
		if row.id == "" {
			continue
		}
		all = append(all, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading nodes: %w", err)
	}

	return assembleRows(all), nil
}

// assembleRows mirrors the flat JSONL build: position orders siblings,
// missing parents promote to roots, parent cycles are broken at the
// revisited row.
func assembleRows(all []nodeRow) []*model.Node {
	if len(all) == 0 {
		return nil
	}

	byID := make(map[string]*nodeRow, len(all))
	childrenOf := make(map[string][]*nodeRow)
	for i := range all {
		row := &all[i]
		if _, exists := byID[row.id]; !exists {
			byID[row.id] = row
		}
		if row.parent != "" {
			childrenOf[row.parent] = append(childrenOf[row.parent], row)
		}
	}
	for parent := range childrenOf {
		siblings := childrenOf[parent]
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].position < siblings[j].position
		})
	}

	visited := make(map[string]bool)
	var build func(row *nodeRow) *model.Node
	build = func(row *nodeRow) *model.Node {
		if visited[row.id] {
			return nil
		}
		visited[row.id] = true
		defer func() { visited[row.id] = false }()

		node := &model.Node{ID: row.id, Label: row.label}
		if node.Label == "" {
			node.Label = row.id
		}
		for _, child := range childrenOf[row.id] {
			if cn := build(child); cn != nil {
				node.Children = append(node.Children, cn)
			}
		}
		return node
	}

	var roots []*model.Node
	for i := range all {
		row := &all[i]
		if row.parent != "" {
			if _, parentExists := byID[row.parent]; parentExists {
				continue
			}
		}
		if n := build(row); n != nil {
			roots = append(roots, n)
		}
	}

	attached := make(map[string]bool)
	var mark func(n *model.Node)
	mark = func(n *model.Node) {
		attached[n.ID] = true
		for _, c := range n.Children {
			mark(c)
		}
	}
	for _, r := range roots {
		mark(r)
	}
	for i := range all {
		row := &all[i]
		if attached[row.id] {
			continue
		}
		if n := build(row); n != nil {
			roots = append(roots, n)
			mark(n)
		}
	}

	return roots
}
