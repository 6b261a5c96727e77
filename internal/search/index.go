// Package search maintains a derived full-text index over the memory log.
//
// The index is SQLite with FTS5, stored under meridian/index/. It is a
// rebuildable cache: the JSON Lines log stays the source of truth, and
// the whole index can be regenerated from it at any time. Losing or
// deleting the index never loses a memory entry.
package search

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/meridianhq/meridian/internal/memlog"
)

// IndexDir is the subdirectory under meridian/ holding the index database.
const IndexDir = "index"

// dbFile is the SQLite database filename.
const dbFile = "memory.db"

// Result is a search hit: the matched entry with its FTS5 rank score.
type Result struct {
	memlog.Entry
	Rank float64 `json:"rank"`
}

// Index is the FTS5 index handle.
type Index struct {
	db *sql.DB
}

// Path returns the directory the index database lives in.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, memlog.MeridianDir, IndexDir)
}

// Open opens (creating if needed) the index database under dataDir.
func Open(dataDir string) (*Index, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	ix := &Index{db: db}
	if err := ix.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("index migration: %w", err)
	}
	return ix, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS entries (
			id        TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			summary   TEXT NOT NULL,
			tags      TEXT NOT NULL DEFAULT '',
			links     TEXT NOT NULL DEFAULT ''
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
			summary,
			tags,
			links,
			content='entries',
			content_rowid='rowid'
		);
	`
	if _, err := ix.db.Exec(schema); err != nil {
		return err
	}

	// Triggers keep FTS in sync (idempotent check).
	var name string
	err := ix.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='trigger' AND name='entries_fts_insert'",
	).Scan(&name)
	if err == sql.ErrNoRows {
		triggers := `
			CREATE TRIGGER entries_fts_insert AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, summary, tags, links)
				VALUES (new.rowid, new.summary, new.tags, new.links);
			END;

			CREATE TRIGGER entries_fts_delete AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, summary, tags, links)
				VALUES ('delete', old.rowid, old.summary, old.tags, old.links);
			END;
		`
		if _, err := ix.db.Exec(triggers); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return nil
}

// Add indexes one entry. Re-adding an already-indexed ID is a no-op —
// the log is append-only, so an ID's content never changes.
func (ix *Index) Add(e memlog.Entry) error {
	_, err := ix.db.Exec(
		`INSERT OR IGNORE INTO entries (id, timestamp, summary, tags, links) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp, e.Summary, joinTokens(e.Tags), joinTokens(e.Links),
	)
	if err != nil {
		return fmt.Errorf("indexing entry %s: %w", e.ID, err)
	}
	return nil
}

// Reindex replaces the whole index with the given entries and returns
// the number indexed.
func (ix *Index) Reindex(entries []memlog.Entry) (int, error) {
	tx, err := ix.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("reindex: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("reindex: clear: %w", err)
	}

	for _, e := range entries {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO entries (id, timestamp, summary, tags, links) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Timestamp, e.Summary, joinTokens(e.Tags), joinTokens(e.Links),
		); err != nil {
			return 0, fmt.Errorf("reindex: entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("reindex: commit: %w", err)
	}
	return len(entries), nil
}

// Search runs an FTS5 query over summaries, tags, and links, best
// matches first.
func (ix *Index) Search(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := ix.db.Query(`
		SELECT e.id, e.timestamp, e.summary, e.tags, e.links, fts.rank
		FROM entries_fts fts
		JOIN entries e ON e.rowid = fts.rowid
		WHERE entries_fts MATCH ?
		ORDER BY fts.rank
		LIMIT ?
	`, sanitizeFTS(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var tags, links string
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Summary, &tags, &links, &r.Rank); err != nil {
			return nil, err
		}
		r.Tags = splitTokens(tags)
		r.Links = splitTokens(links)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Count returns the number of indexed entries.
func (ix *Index) Count() (int, error) {
	var n int
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Normalized tag/link tokens contain no whitespace or commas, so a
// space join round-trips losslessly.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

func splitTokens(s string) []string {
	fields := strings.Fields(s)
	if fields == nil {
		return []string{}
	}
	return fields
}

// sanitizeFTS wraps each word in quotes so FTS5 doesn't choke on special
// characters. "fix auth bug" → `"fix" "auth" "bug"`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		w = strings.Trim(w, `"`)
		words[i] = `"` + w + `"`
	}
	return strings.Join(words, " ")
}
