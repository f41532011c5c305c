package store

import (
	"sync"
	"time"

	"github.com/notekeep/notekeep/pkg/notes"
)

// DefaultSaveWindow is the quiescence window used when none is configured.
const DefaultSaveWindow = 500 * time.Millisecond

// Saver coalesces rapid successive edits to the same note into a single
// persisted write per quiet period, so typing does not cost one storage
// call per keystroke. Patch fields accumulate across a burst: a title
// edit followed within the window by a content edit persists both, with
// the last value per field winning.
type Saver struct {
	persist func(id string, patch notes.Patch)
	window  time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSave
	stopped bool
}

type pendingSave struct {
	timer *time.Timer
	patch notes.Patch

	// gen stamps the burst's most recent call. A fired timer that lost
	// the race against a newer Schedule carries a stale gen and must
	// not consume the burst early.
	gen int
}

// NewSaver wraps persist in a debounced scheduler. persist is invoked on
// a timer goroutine once per burst, after the window elapses with no
// further Schedule call for that id.
func NewSaver(persist func(id string, patch notes.Patch), window time.Duration) *Saver {
	if window <= 0 {
		window = DefaultSaveWindow
	}
	return &Saver{
		persist: persist,
		window:  window,
		pending: make(map[string]*pendingSave),
	}
}

// Schedule folds patch into the note's accumulated burst and resets its
// quiescence timer, implicitly cancelling any not-yet-fired save from the
// previous burst. Empty patches change nothing and are dropped.
func (s *Saver) Schedule(id string, patch notes.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || patch.IsEmpty() {
		return
	}

	p, ok := s.pending[id]
	if !ok {
		p = &pendingSave{}
		s.pending[id] = p
	} else {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(s.window, func() { s.fire(id, gen) })

	if patch.Title != nil {
		p.patch.Title = patch.Title
	}
	if patch.Content != nil {
		p.patch.Content = patch.Content
	}
}

// Flush persists any pending save for id immediately instead of waiting
// out the window.
func (s *Saver) Flush(id string) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	if ok {
		s.persist(id, p.patch)
	}
}

// Stop cancels every pending save without firing. Further Schedule calls
// are dropped.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

func (s *Saver) fire(id string, gen int) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if ok && p.gen != gen {
		// Superseded by a newer call; quiescence restarts from it.
		s.mu.Unlock()
		return
	}
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()

	// A concurrent Flush or Stop may have claimed the entry already.
	if !ok {
		return
	}
	s.persist(id, p.patch)
}
