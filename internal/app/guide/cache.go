package guide

import (
	"sync"
	"time"

	"github.com/MotWakorb/guidearr/internal/app/dispatcharr"
)

// Generation is one atomically swapped bundle of cache state. Readers treat a
// generation obtained from the store as immutable; the store never hands out
// a partially built one.
type Generation struct {
	Groups   map[int64]string
	Logos    map[int64]dispatcharr.Logo
	Channels []dispatcharr.Channel
	Programs []dispatcharr.Program
	Index    *ProgramIndex

	HTML      string // rendered guide page, or the synthesized error page
	UpdatedAt time.Time
	LastError string
}

// Store holds the single live generation behind one mutual-exclusion region.
// A full refresh runs outside this lock; only Swap, Read and RecordError take
// it, so readers never stall on an in-progress refresh.
type Store struct {
	mu  sync.RWMutex
	gen *Generation
}

func NewStore() *Store {
	return &Store{}
}

// Swap replaces the live generation in one step.
func (s *Store) Swap(gen *Generation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen = gen
}

// Read returns the live generation, or nil before the first refresh.
func (s *Store) Read() *Generation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// RecordError notes a refresh failure on the live generation without touching
// its data fields. The live generation is replaced by a copy so that readers
// already holding the old pointer keep a consistent snapshot. With no prior
// generation there is nothing to annotate and the call is a no-op; the
// orchestrator installs a synthesized error generation in that case.
func (s *Store) RecordError(err error) {
	if err == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == nil {
		return
	}

	next := *s.gen
	next.LastError = err.Error()
	s.gen = &next
}
