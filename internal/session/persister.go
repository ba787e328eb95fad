package session

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gravity-tap/internal/game"
)

// persistOp is a pending write to the snapshot store.
type persistOp struct {
	snap   game.Snapshot
	remove bool
}

// persister writes snapshots in the background. Only the most recent
// pending operation is kept, and operations run in the order they were
// queued, so the store never goes back to an older state.
type persister struct {
	store  SnapshotStore
	slot   string
	logger *log.Logger

	mu      sync.Mutex
	pending *persistOp
	wake    chan struct{}
	quit    chan struct{}
	once    sync.Once
}

func newPersister(store SnapshotStore, slot string, logger *log.Logger) *persister {
	return &persister{
		store:  store,
		slot:   slot,
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

// start launches the writer. The returned channel is closed once the
// writer has flushed its last operation after close.
func (p *persister) start() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-p.wake:
				p.flush()
			case <-p.quit:
				p.flush()
				return
			}
		}
	}()
	return done
}

func (p *persister) close() {
	p.once.Do(func() { close(p.quit) })
}

func (p *persister) save(snap game.Snapshot) {
	p.queue(&persistOp{snap: snap})
}

func (p *persister) remove() {
	p.queue(&persistOp{remove: true})
}

func (p *persister) queue(op *persistOp) {
	if p.store == nil {
		return
	}
	p.mu.Lock()
	p.pending = op
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *persister) flush() {
	p.mu.Lock()
	op := p.pending
	p.pending = nil
	p.mu.Unlock()

	if op == nil {
		return
	}

	if op.remove {
		if err := p.store.DeleteSnapshot(p.slot); err != nil {
			p.logger.Error("cannot clear saved session", "slot", p.slot, "err", err)
		}
		return
	}
	if err := p.store.SaveSnapshot(p.slot, op.snap); err != nil {
		p.logger.Error("cannot save session", "slot", p.slot, "err", err)
	}
}
