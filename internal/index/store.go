package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
)

// Change describes what Save did with a file.
type Change int

const (
	Unchanged Change = iota
	Created
	Updated
)

func (c Change) String() string {
	switch c {
	case Created:
		return "new"
	case Updated:
		return "upd"
	default:
		return "trk"
	}
}

// ErrNotFound is returned by Get for an unknown scenario id.
var ErrNotFound = errors.New("scenario not found")

// Store reads and writes indexed files.
type Store struct {
	db  *sql.DB
	log logr.Logger
}

func NewStore(db *sql.DB, log logr.Logger) *Store {
	return &Store{db: db, log: log}
}

// Save stores f, replacing whatever was indexed for the same path. Files
// whose content did not change are left untouched.
func (s *Store) Save(ctx context.Context, f *File) (Change, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Unchanged, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		fileID  int64
		content string
		change  = Updated
	)
	err = tx.QueryRowContext(ctx, `SELECT id, content FROM files WHERE file_path = ?`, f.Path).Scan(&fileID, &content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		change = Created
		res, err := tx.ExecContext(ctx,
			`INSERT INTO files (file_path, title, language, background, content) VALUES (?, ?, ?, ?, ?)`,
			f.Path, f.Title, f.Language, f.Background, f.Content)
		if err != nil {
			return Unchanged, fmt.Errorf("inserting %s: %w", f.Path, err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return Unchanged, err
		}
	case err != nil:
		return Unchanged, fmt.Errorf("querying %s: %w", f.Path, err)
	case content == f.Content:
		return Unchanged, nil
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE files SET title = ?, language = ?, background = ?, content = ?, updated_at = datetime('now') WHERE id = ?`,
			f.Title, f.Language, f.Background, f.Content, fileID); err != nil {
			return Unchanged, fmt.Errorf("updating %s: %w", f.Path, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM scenarios WHERE file_id = ?`, fileID); err != nil {
			return Unchanged, fmt.Errorf("clearing scenarios of %s: %w", f.Path, err)
		}
	}

	for _, sc := range f.Scenarios {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO scenarios (file_id, name, kind, line, content) VALUES (?, ?, ?, ?, ?)`,
			fileID, sc.Name, sc.Kind, sc.Line, sc.Content)
		if err != nil {
			return Unchanged, fmt.Errorf("inserting scenario %q: %w", sc.Name, err)
		}
		scenarioID, err := res.LastInsertId()
		if err != nil {
			return Unchanged, err
		}
		for _, tag := range sc.Tags {
			if _, err := tx.ExecContext(ctx, `INSERT INTO tags (scenario_id, name) VALUES (?, ?)`, scenarioID, tag); err != nil {
				return Unchanged, fmt.Errorf("inserting tag %q: %w", tag, err)
			}
		}
		for _, ex := range sc.Examples {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO examples (scenario_id, ordinal, name, line) VALUES (?, ?, ?, ?)`,
				scenarioID, ex.Index, ex.Name, ex.Line); err != nil {
				return Unchanged, fmt.Errorf("inserting example %q: %w", ex.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Unchanged, fmt.Errorf("committing %s: %w", f.Path, err)
	}
	s.log.V(1).Info("indexed file", "file", f.Path, "change", change.String(), "scenarios", len(f.Scenarios))
	return change, nil
}

// Remove drops path from the index. It reports whether anything was removed.
func (s *Store) Remove(ctx context.Context, path string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE file_path = ?`, path)
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Paths returns every indexed file path.
func (s *Store) Paths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_path FROM files ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Row is a scenario as listed from the index.
type Row struct {
	ID   int64
	Path string
	Name string
	Kind string
	Line int
	Tags []string
}

// List returns the indexed scenarios in file order. A non-empty tag keeps
// only the scenarios carrying it.
func (s *Store) List(ctx context.Context, tag string) ([]Row, error) {
	query := `
		SELECT s.id, f.file_path, s.name, s.kind, s.line,
			COALESCE((SELECT group_concat(name, char(31)) FROM tags WHERE scenario_id = s.id), '')
		FROM scenarios s
		JOIN files f ON s.file_id = f.id`
	var args []any
	if tag = strings.TrimPrefix(tag, "@"); tag != "" {
		query += ` WHERE EXISTS (SELECT 1 FROM tags t WHERE t.scenario_id = s.id AND t.name = ?)`
		args = append(args, tag)
	}
	query += ` ORDER BY f.file_path, s.line`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scenarios: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r    Row
			tags string
		)
		if err := rows.Scan(&r.ID, &r.Path, &r.Name, &r.Kind, &r.Line, &tags); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if tags != "" {
			r.Tags = strings.Split(tags, "\x1f")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}

// Detail is a single scenario with its source text.
type Detail struct {
	Row
	Language   string
	Background string
	Content    string
	Examples   []Example
}

func (s *Store) Get(ctx context.Context, id int64) (*Detail, error) {
	d := &Detail{}
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, f.file_path, s.name, s.kind, s.line, s.content, f.language, f.background
		FROM scenarios s
		JOIN files f ON s.file_id = f.id
		WHERE s.id = ?
	`, id).Scan(&d.ID, &d.Path, &d.Name, &d.Kind, &d.Line, &d.Content, &d.Language, &d.Background)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scenario %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying scenario %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags WHERE scenario_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		d.Tags = append(d.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exRows, err := s.db.QueryContext(ctx, `SELECT ordinal, name, line FROM examples WHERE scenario_id = ? ORDER BY ordinal`, id)
	if err != nil {
		return nil, fmt.Errorf("querying examples: %w", err)
	}
	defer exRows.Close()
	for exRows.Next() {
		var ex Example
		if err := exRows.Scan(&ex.Index, &ex.Name, &ex.Line); err != nil {
			return nil, fmt.Errorf("scanning example: %w", err)
		}
		d.Examples = append(d.Examples, ex)
	}
	return d, exRows.Err()
}
