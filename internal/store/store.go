package store

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vestadash/vesta/internal/dashboard"
)

// Snapshot is one published dashboard document together with its
// identity: a unique ID and the moment it was loaded.
type Snapshot struct {
	ID       uuid.UUID
	LoadedAt time.Time
	Doc      *dashboard.Document
}

// Store owns the live dashboard snapshot. Readers take the current
// snapshot with an atomic pointer load; the only mutation is the
// whole-snapshot swap performed by Reload.
//
// Store is safe for concurrent use.
type Store struct {
	path string

	cur atomic.Pointer[Snapshot]

	// reloadMu serializes Reload calls so overlapping filesystem events
	// can never race to publish out of order.
	reloadMu sync.Mutex

	subMu sync.Mutex
	subs  map[chan *Snapshot]struct{}

	now func() time.Time // injectable for deterministic tests
}

// New loads the document at path and returns a Store publishing it.
// A load failure here is fatal to the caller: without an initial
// document there is nothing to serve.
func New(path string) (*Store, error) {
	s := &Store{
		path: path,
		subs: make(map[chan *Snapshot]struct{}),
		now:  time.Now,
	}
	doc, err := dashboard.Load(path)
	if err != nil {
		return nil, err
	}
	s.cur.Store(s.newSnapshot(doc))
	return s, nil
}

// Path returns the document path the store reloads from.
func (s *Store) Path() string {
	return s.path
}

// Current returns the latest successfully published snapshot. It never
// blocks on a reload in progress and never returns a partially
// constructed document.
func (s *Store) Current() *Snapshot {
	return s.cur.Load()
}

// Reload re-reads the document from disk. On success the new snapshot
// is published atomically and subscribers are notified. On failure the
// previous snapshot remains live and the error is returned; a
// malformed edit must not take the dashboard down.
func (s *Store) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	doc, err := dashboard.Load(s.path)
	if err != nil {
		return err
	}

	snap := s.newSnapshot(doc)
	s.cur.Store(snap)
	s.notify(snap)
	return nil
}

// Subscribe registers a channel that receives every snapshot published
// after the call. The channel is buffered; a subscriber that falls
// behind misses intermediate snapshots instead of blocking a reload.
func (s *Store) Subscribe() chan *Snapshot {
	ch := make(chan *Snapshot, 1)
	s.subMu.Lock()
	s.subs[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

// Unsubscribe removes ch and closes it.
func (s *Store) Unsubscribe(ch chan *Snapshot) {
	s.subMu.Lock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
	s.subMu.Unlock()
}

func (s *Store) newSnapshot(doc *dashboard.Document) *Snapshot {
	return &Snapshot{
		ID:       uuid.New(),
		LoadedAt: s.now().UTC(),
		Doc:      doc,
	}
}

func (s *Store) notify(snap *Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Drop the stale queued snapshot, keep the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
