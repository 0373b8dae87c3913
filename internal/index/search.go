package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/akorchak/paragon/internal/model"
)

// SearchStore projects the JSON index into a SQLite database with an FTS5
// table over title, summary and tags. The database is disposable: it is
// rebuilt from the index on demand and is never a contract between stages.
type SearchStore struct {
	db *sql.DB
}

// OpenSearchStore opens or creates the search database at path. Use
// ":memory:" for a throwaway store.
func OpenSearchStore(path string) (*SearchStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening search database: %w", err)
	}

	s := &SearchStore{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SearchStore) Close() error {
	return s.db.Close()
}

func (s *SearchStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS notes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			file TEXT NOT NULL,
			path TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL,
			subcategory TEXT NOT NULL,
			title TEXT,
			tags TEXT,
			summary TEXT,
			processed TEXT,
			size INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='notes_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE notes_fts USING fts5(title, summary, tags, content=notes, content_rowid=rowid)`,
			`CREATE TRIGGER notes_ai AFTER INSERT ON notes BEGIN
				INSERT INTO notes_fts(rowid, title, summary, tags) VALUES (new.rowid, new.title, new.summary, new.tags);
			END`,
			`CREATE TRIGGER notes_ad AFTER DELETE ON notes BEGIN
				INSERT INTO notes_fts(notes_fts, rowid, title, summary, tags) VALUES('delete', old.rowid, old.title, old.summary, old.tags);
			END`,
			`CREATE TRIGGER notes_au AFTER UPDATE ON notes BEGIN
				INSERT INTO notes_fts(notes_fts, rowid, title, summary, tags) VALUES('delete', old.rowid, old.title, old.summary, old.tags);
				INSERT INTO notes_fts(rowid, title, summary, tags) VALUES (new.rowid, new.title, new.summary, new.tags);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Rebuild replaces the store contents with the given index entries.
func (s *SearchStore) Rebuild(ctx context.Context, notes []model.NoteEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes
		(file, path, category, subcategory, title, tags, summary, processed, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, n := range notes {
		tags, err := json.Marshal(n.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %s: %w", n.File, err)
		}
		if _, err := stmt.ExecContext(ctx, n.File, n.Path, n.Category, n.Subcategory,
			n.Title, string(tags), n.Summary, n.Processed, n.Size); err != nil {
			return fmt.Errorf("inserting %s: %w", n.File, err)
		}
	}

	return tx.Commit()
}

// Search queries the store. query runs against the FTS table (empty means
// match all); tag and category narrow the result; limit caps it (0 = 20).
func (s *SearchStore) Search(ctx context.Context, query, tag, category string, limit int) ([]model.NoteEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		sb   strings.Builder
		args []any
	)

	if query != "" {
		sb.WriteString(`SELECT n.file, n.path, n.category, n.subcategory, n.title, n.tags, n.summary, n.processed, n.size
			FROM notes n JOIN notes_fts f ON n.rowid = f.rowid
			WHERE notes_fts MATCH ?`)
		args = append(args, query)
	} else {
		sb.WriteString(`SELECT n.file, n.path, n.category, n.subcategory, n.title, n.tags, n.summary, n.processed, n.size
			FROM notes n WHERE 1=1`)
	}

	if category != "" {
		sb.WriteString(` AND n.category = ?`)
		args = append(args, category)
	}
	if tag != "" {
		// Tags are stored as a JSON array; match the quoted element.
		sb.WriteString(` AND n.tags LIKE ?`)
		args = append(args, `%"`+tag+`"%`)
	}

	sb.WriteString(` ORDER BY n.title LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.NoteEntry
	for rows.Next() {
		var n model.NoteEntry
		var tags string
		if err := rows.Scan(&n.File, &n.Path, &n.Category, &n.Subcategory,
			&n.Title, &tags, &n.Summary, &n.Processed, &n.Size); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			n.Tags = []string{}
		}
		results = append(results, n)
	}

	return results, rows.Err()
}
