package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/nissyi-gh/guide/internal/model"
)

// DefaultDBPath is relative to the working directory.
const DefaultDBPath = "data/tasks.db"

// SQLiteStore keeps tasks in a SQLite database. Unlike the text file it
// also persists tags.
type SQLiteStore struct {
	db     *sql.DB
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database and ensures the schema exists.
func OpenSQLite(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = DefaultDBPath
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lk, err := lockFor(dbPath)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		lk.Unlock()
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		lk.Unlock()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS tasks (
		position    INTEGER PRIMARY KEY,
		kind        TEXT    NOT NULL,
		done        INTEGER NOT NULL DEFAULT 0,
		description TEXT    NOT NULL,
		by_at       TEXT,
		from_at     TEXT,
		to_at       TEXT,
		tag         TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		lk.Unlock()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, lock: lk, logger: logger}, nil
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var kind, description string
	var done int
	var by, from, to, tag sql.NullString
	if err := scanner.Scan(&kind, &done, &description, &by, &from, &to, &tag); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("%w: empty description", ErrCorrupt)
	}

	var t *model.Task
	switch kind {
	case "T":
		t = model.NewToDo(description, done != 0)
	case "D":
		if !by.Valid {
			return nil, fmt.Errorf("%w: deadline without by", ErrCorrupt)
		}
		t = model.NewDeadline(description, by.String, done != 0)
	case "E":
		if !from.Valid || !to.Valid {
			return nil, fmt.Errorf("%w: event without from/to", ErrCorrupt)
		}
		t = model.NewEvent(description, from.String, to.String, done != 0)
	default:
		return nil, fmt.Errorf("%w: unknown task type %q", ErrCorrupt, kind)
	}
	if tag.Valid {
		t.SetTag(tag.String)
	}
	return t, nil
}

// Load returns all tasks ordered by position.
func (s *SQLiteStore) Load() ([]*model.Task, error) {
	rows, err := s.db.Query("SELECT kind, done, description, by_at, from_at, to_at, tag FROM tasks ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.logger.Debug("loaded tasks", "backend", "sqlite", "count", len(tasks))
	return tasks, nil
}

func nullable(s string, ok bool) sql.NullString {
	return sql.NullString{String: s, Valid: ok}
}

// Save replaces every row in a single transaction.
func (s *SQLiteStore) Save(tasks []*model.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tasks"); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO tasks (position, kind, done, description, by_at, from_at, to_at, tag) VALUES (?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		done := 0
		if t.Done {
			done = 1
		}
		tag, tagged := t.Tag()
		_, err := stmt.Exec(i, t.Kind.Letter(), done, t.Description,
			nullable(t.By, t.Kind == model.KindDeadline),
			nullable(t.From, t.Kind == model.KindEvent),
			nullable(t.To, t.Kind == model.KindEvent),
			nullable(tag, tagged),
		)
		if err != nil {
			return fmt.Errorf("insert task %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	s.logger.Debug("saved tasks", "backend", "sqlite", "count", len(tasks))
	return nil
}

// Close closes the database connection and releases the lock.
func (s *SQLiteStore) Close() error {
	err := s.db.Close()
	if uerr := s.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}
