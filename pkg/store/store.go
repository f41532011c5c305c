package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notekeep/notekeep/pkg/notes"
)

// ErrNotFound is returned when a note id is not present in the local
// collection. In remote mode the service's status code is surfaced
// through a PersistenceError instead.
var ErrNotFound = errors.New("note not found")

// PersistenceError wraps a failed storage or service operation. Status
// carries the HTTP status code in remote mode and is zero otherwise.
type PersistenceError struct {
	Message string
	Status  int
}

func (e *PersistenceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	return e.Message
}

// Store is the uniform CRUD contract both persistence strategies
// implement. Strategies are stateless pass-throughs; the in-memory
// collection belongs to the caller.
type Store interface {
	List(ctx context.Context) ([]*notes.Note, error)
	Get(ctx context.Context, id string) (*notes.Note, error)
	Create(ctx context.Context, patch notes.Patch) (*notes.Note, error)
	Update(ctx context.Context, id string, patch notes.Patch) (*notes.Note, error)
	Delete(ctx context.Context, id string) error
}

// Config selects the persistence strategy at construction time.
type Config struct {
	// RemoteURL is the base URL of the notes service. Non-empty after
	// trimming selects remote mode.
	RemoteURL string

	// DatabasePath locates the local sqlite file used when no remote
	// is configured.
	DatabasePath string

	Logger *slog.Logger
}

// New constructs the configured strategy. The decision is made exactly
// once; callers hold the returned Store for the process lifetime and
// never switch modes at runtime.
func New(cfg Config) (Store, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.RemoteURL), "/")
	if base != "" {
		return NewRemote(base), nil
	}
	return NewLocal(cfg.DatabasePath, cfg.Logger)
}
