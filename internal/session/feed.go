package session

import (
	"sync"

	"github.com/vovakirdan/gravity-tap/internal/game"
)

// feed fans published states out to subscribers. Each subscriber has a
// one-slot channel; a new state replaces an unread one.
type feed struct {
	mu          sync.RWMutex
	state       game.GameState
	nextSpawnAt int64
	subs        map[int]chan game.GameState
	nextID      int
	closed      bool
}

func newFeed(initial game.GameState, nextSpawnAt int64) *feed {
	return &feed{
		state:       initial,
		nextSpawnAt: nextSpawnAt,
		subs:        make(map[int]chan game.GameState),
	}
}

func (f *feed) latest() game.GameState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *feed) snapshot() game.Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return game.Snapshot{
		Version:     game.SnapshotVersion,
		State:       f.state,
		NextSpawnAt: f.nextSpawnAt,
	}
}

// publish stores the state and hands it to every subscriber. States are
// never mutated after publishing, so subscribers may share them.
func (f *feed) publish(s game.GameState, nextSpawnAt int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = s
	f.nextSpawnAt = nextSpawnAt
	for _, ch := range f.subs {
		replaceLatest(ch, s)
	}
}

func (f *feed) subscribe() (<-chan game.GameState, func()) {
	ch := make(chan game.GameState, 1)

	f.mu.Lock()
	ch <- f.state
	if f.closed {
		close(ch)
		f.mu.Unlock()
		return ch, func() {}
	}
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if _, ok := f.subs[id]; ok {
				delete(f.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// close ends every subscription. Unread states stay readable.
func (f *feed) close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
}

// replaceLatest sends v, dropping an unread value first.
func replaceLatest(ch chan game.GameState, v game.GameState) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
