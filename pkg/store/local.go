package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/notekeep/notekeep/pkg/notes"
)

var (
	//go:embed files/create_notekeep_tables.sql
	CREATE_NOTEKEEP_TABLES_SQL string
)

// collectionKey is the single fixed key the whole note collection lives
// under, serialized as one JSON array, newest-first.
const collectionKey = "notes"

// Local is the fallback strategy used when no remote service is
// configured. It keeps the entire collection as one JSON blob in a
// key/value table so reads and writes are whole-collection operations.
// It assumes a single active caller; read-modify-write sequences are not
// protected against a second concurrent process.
type Local struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewLocal opens (creating if necessary) the sqlite file at path.
func NewLocal(path string, logger *slog.Logger) (*Local, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(CREATE_NOTEKEEP_TABLES_SQL); err != nil {
		db.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Local{db: db, logger: logger}, nil
}

func (l *Local) Close() error {
	return l.db.Close()
}

func (l *Local) List(ctx context.Context) ([]*notes.Note, error) {
	return l.load(ctx)
}

func (l *Local) Get(ctx context.Context, id string) (*notes.Note, error) {
	collection, err := l.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, n := range collection {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, ErrNotFound
}

// Create builds the note directly in canonical shape: generated id,
// "Untitled" title when none is given, current timestamp. The new note
// is prepended so the stored collection stays newest-first.
func (l *Local) Create(ctx context.Context, patch notes.Patch) (*notes.Note, error) {
	collection, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	note := &notes.Note{
		ID:        newNoteID(),
		Title:     "Untitled",
		UpdatedAt: time.Now().UTC(),
	}
	if patch.Title != nil && *patch.Title != "" {
		note.Title = *patch.Title
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}

	collection = append([]*notes.Note{note}, collection...)
	if err := l.save(ctx, collection); err != nil {
		return nil, err
	}
	return note, nil
}

// Update merges the set patch fields over the existing note and
// re-stamps updatedAt. An unknown id is an ErrNotFound.
func (l *Local) Update(ctx context.Context, id string, patch notes.Patch) (*notes.Note, error) {
	collection, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	for i, n := range collection {
		if n.ID != id {
			continue
		}
		merged := *n
		if patch.Title != nil {
			merged.Title = *patch.Title
		}
		if patch.Content != nil {
			merged.Content = *patch.Content
		}
		merged.UpdatedAt = time.Now().UTC()
		collection[i] = &merged
		if err := l.save(ctx, collection); err != nil {
			return nil, err
		}
		return &merged, nil
	}
	return nil, ErrNotFound
}

// Delete is idempotent: removing an absent id succeeds.
func (l *Local) Delete(ctx context.Context, id string) error {
	collection, err := l.load(ctx)
	if err != nil {
		return err
	}

	kept := collection[:0]
	for _, n := range collection {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	return l.save(ctx, kept)
}

// Private

// load deserializes the stored collection. An absent key yields an empty
// collection; corrupt data is discarded entirely (the key is deleted) so
// corruption is never fatal to the caller.
func (l *Local) load(ctx context.Context) ([]*notes.Note, error) {
	row := l.db.QueryRowContext(ctx, "SELECT value FROM notekeep_kv WHERE key = ?", collectionKey)

	var value string
	err := row.Scan(&value)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return []*notes.Note{}, nil
	} else if err != nil {
		return nil, &PersistenceError{Message: "failed to read local collection: " + err.Error()}
	}

	var collection []*notes.Note
	if err := json.Unmarshal([]byte(value), &collection); err != nil {
		l.logger.Warn("local collection is corrupt; resetting to empty",
			"err", err)
		if _, err := l.db.ExecContext(ctx, "DELETE FROM notekeep_kv WHERE key = ?", collectionKey); err != nil {
			return nil, &PersistenceError{Message: "failed to reset corrupt collection: " + err.Error()}
		}
		return []*notes.Note{}, nil
	}
	if collection == nil {
		collection = []*notes.Note{}
	}
	return collection, nil
}

// save serializes the full collection and overwrites the key in a single
// statement, so no partial-write state is observable.
func (l *Local) save(ctx context.Context, collection []*notes.Note) error {
	value, err := json.Marshal(collection)
	if err != nil {
		return &PersistenceError{Message: "failed to serialize collection: " + err.Error()}
	}

	stmt, err := l.db.PrepareContext(ctx, `
        INSERT INTO notekeep_kv (key, value) VALUES (?, ?)
            ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return &PersistenceError{Message: "failed to write local collection: " + err.Error()}
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, collectionKey, string(value)); err != nil {
		return &PersistenceError{Message: "failed to write local collection: " + err.Error()}
	}
	return nil
}

// newNoteID generates a collision-resistant local identifier. The "n_"
// prefix keeps locally-assigned ids visually distinct from anything a
// server would hand out.
func newNoteID() string {
	id := uuid.New()
	return "n_" + hex.EncodeToString(id[:])
}
