// Package storage keeps finished runs in a SQLite database. Run metadata
// and summaries are stored as JSON columns; per-history tallies are stored
// as one zstd-compressed JSON blob per run.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DataDog/zstd"
	_ "modernc.org/sqlite"

	"github.com/san-kum/radsim/internal/particle"
	"github.com/san-kum/radsim/internal/transport"
)

// ErrNotFound is returned for an unknown run id.
var ErrNotFound = errors.New("storage: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	atom      TEXT    NOT NULL,
	particle  TEXT    NOT NULL,
	energy    REAL    NOT NULL,
	histories INTEGER NOT NULL,
	seed      INTEGER NOT NULL,
	created   INTEGER NOT NULL,
	config    TEXT    NOT NULL,
	summary   TEXT    NOT NULL,
	metrics   TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS tallies (
	run_id INTEGER PRIMARY KEY REFERENCES runs(id) ON DELETE CASCADE,
	data   BLOB    NOT NULL
);
`

// compressionLevel trades ratio for speed; tallies are written once per run.
const compressionLevel = 3

type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

type RunMetadata struct {
	ID        int64              `json:"id"`
	Atom      string             `json:"atom"`
	Particle  particle.Type      `json:"particle"`
	Energy    float64            `json:"energy"`
	Histories int                `json:"histories"`
	Seed      int64              `json:"seed"`
	Created   time.Time          `json:"created"`
	Config    transport.Config   `json:"config"`
	Summary   transport.Summary  `json:"summary"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save stores res and its tallies and returns the new run id.
func (s *Store) Save(ctx context.Context, res *transport.Result) (int64, error) {
	config, err := json.Marshal(res.Config)
	if err != nil {
		return 0, err
	}
	summary, err := json.Marshal(res.Summary)
	if err != nil {
		return 0, err
	}
	metrics, err := json.Marshal(res.Metrics)
	if err != nil {
		return 0, err
	}
	raw, err := json.Marshal(res.Tallies)
	if err != nil {
		return 0, err
	}
	blob, err := zstd.CompressLevel(nil, raw, compressionLevel)
	if err != nil {
		return 0, fmt.Errorf("storage: compress tallies: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx, `
		INSERT INTO runs (atom, particle, energy, histories, seed, created, config, summary, metrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Atom, res.Particle.String(), res.Config.Energy, res.Config.Histories, res.Config.Seed,
		time.Now().UnixNano(), string(config), string(summary), string(metrics),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: insert run: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO tallies (run_id, data) VALUES (?, ?)`, id, blob); err != nil {
		return 0, fmt.Errorf("storage: insert tallies: %w", err)
	}
	return id, tx.Commit()
}

const selectRuns = `SELECT id, atom, particle, energy, histories, seed, created, config, summary, metrics FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunMetadata, error) {
	var (
		meta                     RunMetadata
		kind                     string
		created                  int64
		config, summary, metrics string
	)
	if err := row.Scan(&meta.ID, &meta.Atom, &kind, &meta.Energy, &meta.Histories, &meta.Seed,
		&created, &config, &summary, &metrics); err != nil {
		return nil, err
	}
	t, err := particle.ParseType(kind)
	if err != nil {
		return nil, err
	}
	meta.Particle = t
	meta.Created = time.Unix(0, created)
	if err := json.Unmarshal([]byte(config), &meta.Config); err != nil {
		return nil, fmt.Errorf("storage: run %d config: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(summary), &meta.Summary); err != nil {
		return nil, fmt.Errorf("storage: run %d summary: %w", meta.ID, err)
	}
	if err := json.Unmarshal([]byte(metrics), &meta.Metrics); err != nil {
		return nil, fmt.Errorf("storage: run %d metrics: %w", meta.ID, err)
	}
	return &meta, nil
}

// List returns every stored run, newest first.
func (s *Store) List(ctx context.Context) ([]RunMetadata, error) {
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		meta, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *meta)
	}
	return runs, rows.Err()
}

func (s *Store) Load(ctx context.Context, id int64) (*RunMetadata, error) {
	meta, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return meta, err
}

// LoadHistories returns the per-history tallies of run id.
func (s *Store) LoadHistories(ctx context.Context, id int64) ([]transport.HistoryTally, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM tallies WHERE run_id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	raw, err := zstd.Decompress(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("storage: decompress tallies of run %d: %w", id, err)
	}
	var tallies []transport.HistoryTally
	if err := json.Unmarshal(raw, &tallies); err != nil {
		return nil, fmt.Errorf("storage: decode tallies of run %d: %w", id, err)
	}
	return tallies, nil
}

// Delete removes run id and its tallies.
func (s *Store) Delete(ctx context.Context, id int64) error {
	r, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := r.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
