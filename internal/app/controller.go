package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/notekeep/notekeep/pkg/notes"
	"github.com/notekeep/notekeep/pkg/store"
)

// Controller owns the single in-memory copy of the note collection and
// the draft of the currently-open note. It is the sole mutator of both:
// every mutation is two-phase - issue the store operation, await the
// result, then apply it - so a failed operation leaves the in-memory
// state untouched and the user can retry. The one exception is the
// draft, which tracks user input immediately and independently of
// persistence.
type Controller struct {
	store  store.Store
	saver  *store.Saver
	logger *slog.Logger

	// mu guards notes and draft; the saver fires from timer goroutines.
	mu    sync.Mutex
	notes []*notes.Note
	draft *notes.Note
}

func New(st store.Store, window time.Duration, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		store:  st,
		logger: logger,
	}
	c.saver = store.NewSaver(c.persistDraft, window)
	return c
}

// Refresh replaces the in-memory collection with the store's.
func (c *Controller) Refresh(ctx context.Context) error {
	list, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.notes = list
	c.mu.Unlock()
	return nil
}

// Notes returns a snapshot of the in-memory collection.
func (c *Controller) Notes() []*notes.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := make([]*notes.Note, len(c.notes))
	copy(snapshot, c.notes)
	return snapshot
}

// Search filters the in-memory collection by a case-insensitive substring
// match on title or content. An empty query returns everything.
func (c *Controller) Search(query string) []*notes.Note {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.Notes()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	var matched []*notes.Note
	for _, n := range c.notes {
		if strings.Contains(strings.ToLower(n.Title), query) ||
			strings.Contains(strings.ToLower(n.Content), query) {
			matched = append(matched, n)
		}
	}
	return matched
}

// Open fetches a note and makes it the active draft.
func (c *Controller) Open(ctx context.Context, id string) (*notes.Note, error) {
	n, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	draft := *n
	c.mu.Lock()
	c.draft = &draft
	c.mu.Unlock()
	return n, nil
}

// Draft returns a copy of the active draft, or nil if no note is open.
func (c *Controller) Draft() *notes.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == nil {
		return nil
	}
	draft := *c.draft
	return &draft
}

// EditTitle applies the edit to the draft immediately and schedules a
// debounced save.
func (c *Controller) EditTitle(title string) {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return
	}
	c.draft.Title = title
	id := c.draft.ID
	c.mu.Unlock()

	c.saver.Schedule(id, notes.Patch{Title: &title})
}

// EditContent applies the edit to the draft immediately and schedules a
// debounced save.
func (c *Controller) EditContent(content string) {
	c.mu.Lock()
	if c.draft == nil {
		c.mu.Unlock()
		return
	}
	c.draft.Content = content
	id := c.draft.ID
	c.mu.Unlock()

	c.saver.Schedule(id, notes.Patch{Content: &content})
}

// ScheduleSave exposes the debounced saver directly for callers that
// accumulate their own patches.
func (c *Controller) ScheduleSave(id string, patch notes.Patch) {
	c.saver.Schedule(id, patch)
}

// FlushDraft persists any pending debounced save for the open draft
// without waiting out the window.
func (c *Controller) FlushDraft() {
	c.mu.Lock()
	var id string
	if c.draft != nil {
		id = c.draft.ID
	}
	c.mu.Unlock()

	if id != "" {
		c.saver.Flush(id)
	}
}

// CreateNote persists a new note and, once confirmed, prepends it to the
// in-memory collection.
func (c *Controller) CreateNote(ctx context.Context, title string, content string) (*notes.Note, error) {
	patch := notes.Patch{}
	if title != "" {
		patch.Title = &title
	}
	if content != "" {
		patch.Content = &content
	}

	n, err := c.store.Create(ctx, patch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.notes = append([]*notes.Note{n}, c.notes...)
	c.mu.Unlock()
	return n, nil
}

// DeleteNote removes the note from the store and, once confirmed, from
// the in-memory collection. Deleting the open draft closes it.
func (c *Controller) DeleteNote(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	kept := c.notes[:0]
	for _, n := range c.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	c.notes = kept
	if c.draft != nil && c.draft.ID == id {
		c.draft = nil
	}
	c.mu.Unlock()
	return nil
}

// Close cancels any pending debounced saves.
func (c *Controller) Close() {
	c.saver.Stop()
}

// persistDraft is the saver's target. It runs on a timer goroutine once
// per burst; the confirmed result is reconciled into the collection so
// updatedAt reflects the persisted write, not the pending edit.
func (c *Controller) persistDraft(id string, patch notes.Patch) {
	updated, err := c.store.Update(context.Background(), id, patch)
	if err != nil {
		c.logger.Error("failed to save note",
			"id", id,
			"err", err)
		return
	}
	c.apply(updated)
}

// apply reconciles a confirmed write into the collection. The draft only
// takes the new timestamp: its text fields may already hold edits from a
// newer, not-yet-persisted burst.
func (c *Controller) apply(updated *notes.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.notes {
		if n.ID == updated.ID {
			c.notes[i] = updated
			break
		}
	}
	if c.draft != nil && c.draft.ID == updated.ID {
		c.draft.UpdatedAt = updated.UpdatedAt
	}
}
