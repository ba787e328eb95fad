package storage

import "sync"

type topSubscriber struct {
	limit int
	ch    chan []ScoreRecord
	once  sync.Once
}

func (t *topSubscriber) close() {
	t.once.Do(func() { close(t.ch) })
}

// send delivers the latest list, replacing an unread one.
func (t *topSubscriber) send(records []ScoreRecord) {
	select {
	case <-t.ch:
	default:
	}
	select {
	case t.ch <- records:
	default:
	}
}

// SubscribeTop returns a feed of the top-N list. The current list is
// available immediately and a fresh one follows every save or clear. A
// slow reader only sees the newest list. Call cancel to unsubscribe.
func (s *Store) SubscribeTop(limit int) (<-chan []ScoreRecord, func(), error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	current, err := s.TopScores(limit)
	if err != nil {
		return nil, nil, err
	}

	sub := &topSubscriber{limit: limit, ch: make(chan []ScoreRecord, 1)}
	sub.send(current)

	s.mu.Lock()
	if s.subs == nil {
		s.mu.Unlock()
		return nil, nil, errClosed
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel, nil
}

// publishTop refreshes every subscriber. Query failures skip the update;
// the subscriber keeps its previous list.
func (s *Store) publishTop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		records, err := s.TopScores(sub.limit)
		if err != nil {
			continue
		}
		sub.send(records)
	}
}
