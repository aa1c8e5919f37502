package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/rxnkit/pkg/rxnkit/internalerr"
	"github.com/cognicore/rxnkit/pkg/rxnkit/reaction"
	"github.com/cognicore/rxnkit/pkg/rxnkit/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite results archive with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	created_at TEXT NOT NULL,
	source TEXT,
	params TEXT
);

CREATE TABLE IF NOT EXISTS classified_reactions (
	run_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	idx TEXT NOT NULL,
	reactants TEXT NOT NULL,
	products TEXT NOT NULL,
	selection_freq REAL NOT NULL,
	classification TEXT,
	tag TEXT,
	phase INTEGER,
	PRIMARY KEY(run_id, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS top_reactions (
	run_id TEXT NOT NULL,
	role TEXT NOT NULL,
	seq INTEGER NOT NULL,
	species TEXT NOT NULL,
	idx TEXT NOT NULL,
	reactants TEXT NOT NULL,
	products TEXT NOT NULL,
	selection_freq REAL NOT NULL,
	PRIMARY KEY(run_id, role, seq),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// CreateRun inserts a run row. Duplicate ids are rejected.
func (s *sqliteStore) CreateRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("create run: empty id: %w", internalerr.ErrInvalidInput)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, kind, created_at, source, params) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Kind, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Source, r.Params)
	if err != nil {
		return fmt.Errorf("create run %s: %w", r.ID, err)
	}
	return nil
}

// GetRun returns a run by id.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, created_at, source, params FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	query := `SELECT id, kind, created_at, source, params FROM runs ORDER BY id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (store.Run, error) {
	var (
		r              store.Run
		created        string
		source, params sql.NullString
	)
	if err := sc.Scan(&r.ID, &r.Kind, &created, &source, &params); err != nil {
		return store.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return store.Run{}, fmt.Errorf("run %s: created_at %q: %w", r.ID, created, err)
	}
	r.CreatedAt = t
	r.Source = source.String
	r.Params = params.String
	return r, nil
}

func (s *sqliteStore) requireRun(ctx context.Context, tx *sql.Tx, id string) error {
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return nil
}

// PutClassified appends reactions to a run's archive.
func (s *sqliteStore) PutClassified(ctx context.Context, runID string, rs []*reaction.Reaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.requireRun(ctx, tx, runID); err != nil {
		return err
	}

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq) + 1, 0) FROM classified_reactions WHERE run_id = ?`, runID).Scan(&next); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO classified_reactions
	(run_id, seq, idx, reactants, products, selection_freq, classification, tag, phase)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range rs {
		reactants, products, err := encodeSides(r)
		if err != nil {
			return err
		}
		path, err := json.Marshal(r.ClassificationList)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, next+i, r.Index, reactants, products,
			r.SelectionFreq, string(path), r.Tag, r.Phase); err != nil {
			return fmt.Errorf("store reaction %s: %w", r.Index, err)
		}
	}
	return tx.Commit()
}

// GetClassified returns a run's classified reactions in insertion order.
func (s *sqliteStore) GetClassified(ctx context.Context, runID string) ([]reaction.Reaction, error) {
	if _, ok, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT idx, reactants, products, selection_freq, classification, tag, phase
FROM classified_reactions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reaction.Reaction
	for rows.Next() {
		var (
			r                         reaction.Reaction
			reactants, products, path string
			tag                       sql.NullString
			phase                     sql.NullInt64
		)
		if err := rows.Scan(&r.Index, &reactants, &products, &r.SelectionFreq, &path, &tag, &phase); err != nil {
			return nil, err
		}
		if err := decodeSides(&r, reactants, products); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(path), &r.ClassificationList); err != nil {
			return nil, fmt.Errorf("reaction %s classification: %w", r.Index, err)
		}
		r.Tag = tag.String
		r.Phase = int(phase.Int64)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PutTopReactions replaces the top table of role for a run.
func (s *sqliteStore) PutTopReactions(ctx context.Context, runID string, role reaction.Role, entries []store.TopEntry) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.requireRun(ctx, tx, runID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM top_reactions WHERE run_id = ? AND role = ?`, runID, string(role)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO top_reactions
	(run_id, role, seq, species, idx, reactants, products, selection_freq)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		reactants, products, err := encodeSides(&e.Reaction)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, runID, string(role), i, e.Species, e.Reaction.Index,
			reactants, products, e.Reaction.SelectionFreq); err != nil {
			return fmt.Errorf("store top reaction for %s: %w", e.Species, err)
		}
	}
	return tx.Commit()
}

// GetTopReactions returns the top table of role for a run.
func (s *sqliteStore) GetTopReactions(ctx context.Context, runID string, role reaction.Role) ([]store.TopEntry, error) {
	if _, ok, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("run %s: %w", runID, internalerr.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT species, idx, reactants, products, selection_freq
FROM top_reactions WHERE run_id = ? AND role = ? ORDER BY seq`, runID, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []store.TopEntry{}
	for rows.Next() {
		var (
			e                   store.TopEntry
			reactants, products string
		)
		if err := rows.Scan(&e.Species, &e.Reaction.Index, &reactants, &products, &e.Reaction.SelectionFreq); err != nil {
			return nil, err
		}
		if err := decodeSides(&e.Reaction, reactants, products); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func encodeSides(r *reaction.Reaction) (string, string, error) {
	reactants, err := json.Marshal(r.Reactants)
	if err != nil {
		return "", "", err
	}
	products, err := json.Marshal(r.Products)
	if err != nil {
		return "", "", err
	}
	return string(reactants), string(products), nil
}

func decodeSides(r *reaction.Reaction, reactants, products string) error {
	if err := json.Unmarshal([]byte(reactants), &r.Reactants); err != nil {
		return fmt.Errorf("reaction %s reactants: %w", r.Index, err)
	}
	if err := json.Unmarshal([]byte(products), &r.Products); err != nil {
		return fmt.Errorf("reaction %s products: %w", r.Index, err)
	}
	return nil
}
