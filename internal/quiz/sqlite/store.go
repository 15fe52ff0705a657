package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Namespace keys for the four JSON records.
const (
	keySavedQuizzes = "generador_quiz_saved"
	keyAttempts     = "generador_quiz_attempts"
	keyDraft        = "generador_quiz_current"
	keySettings     = "generador_quiz_settings"
)

// Store persists the four quiz namespaces as JSON text rows in a single
// key-value table. Corrupted rows are logged and treated as absent; a read
// never surfaces a parse failure to the caller.
type Store struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

func New(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = "quizgen.db"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := &Store{
		db:     db,
		logger: log.New(os.Stderr, "", log.LstdFlags),
		now:    time.Now,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SetLogger replaces the destination for soft-failure log lines.
func (s *Store) SetLogger(logger *log.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Store) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// writeJSON serializes v into its namespace row.
func (s *Store) writeJSON(ctx context.Context, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.set(ctx, key, string(payload))
}

// readJSON deserializes a namespace row into dst. A missing row or corrupted
// JSON leaves dst untouched and reports absent; only database errors escape.
func (s *Store) readJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := s.get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Printf("sqlite: discarding corrupted %s record: %v", key, err)
		return false, nil
	}
	return true, nil
}

func newQuizID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("quiz_%d_%s", now.UnixMilli(), suffix)
}
