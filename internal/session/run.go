package session

import (
	"context"

	"github.com/vovakirdan/gravity-tap/internal/audio"
	"github.com/vovakirdan/gravity-tap/internal/game"
)

// input is anything the Run goroutine accepts besides ticks.
type input interface{}

type actionInput struct {
	action game.Action
}

type groundInput struct {
	px float64
}

// Run drives the session until the run ends, Stop is called, or ctx is
// done. It returns nil when the game is over or stopped, and ctx.Err()
// when the context ended first. Run may only be called once.
func (s *Session) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	persistDone := s.persist.start()
	defer func() {
		s.persist.close()
		<-persistDone
		s.feed.close()
		s.doneOnce.Do(func() { close(s.done) })
	}()

	settings, unsubscribe := s.settings.Subscribe()
	defer unsubscribe()

	ticks := s.loop.Ticks(ctx)

	s.logger.Info("session started",
		"difficulty", s.state.Difficulty,
		"restored", s.restored,
		"lives", s.state.Lives,
	)

	for {
		select {
		case tick, ok := <-ticks:
			if !ok {
				return ctx.Err()
			}
			if s.handleTick(tick) {
				return nil
			}

		case in := <-s.inputs:
			if s.handleInput(in) {
				return nil
			}

		case cur, ok := <-settings:
			if !ok {
				settings = nil
				continue
			}
			if cur.SoundEnabled != s.soundEnabled {
				s.logger.Debug("sound setting changed", "enabled", cur.SoundEnabled)
				s.soundEnabled = cur.SoundEnabled
			}

		case <-s.stop:
			s.logger.Info("session stopped", "score", s.state.Score)
			return nil

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// handleTick applies a tick and, when no ball is in flight, a due spawn.
// It reports whether the run ended.
func (s *Session) handleTick(t game.Tick) bool {
	prevSpawn := s.sched.Snapshot()

	changed, over := s.apply(t)
	if over {
		return true
	}

	if !s.state.HasObject() && s.sched.ShouldSpawn(t.NowMs, s.state.Difficulty.SpawnIntervalMs()) {
		var spawned bool
		spawned, over = s.apply(game.Spawn{NowMs: t.NowMs})
		if over {
			return true
		}
		changed = changed || spawned
	}

	// A spawn gated by pause still moves the schedule.
	if !changed && s.sched.Snapshot() != prevSpawn {
		s.save()
	}
	return false
}

func (s *Session) handleInput(in input) bool {
	switch in := in.(type) {
	case actionInput:
		_, over := s.apply(in.action)
		return over
	case groundInput:
		if in.px > 0 && in.px != s.reducer.GroundLevel() {
			s.reducer = s.reducer.WithGroundLevel(in.px)
			s.logger.Debug("ground level changed", "px", in.px)
		}
	}
	return false
}

// apply runs one reducer transition and performs its side effects: cues,
// publish, persistence and effect delivery. It reports whether the state
// changed and whether the run ended.
func (s *Session) apply(a game.Action) (changed, over bool) {
	prev := s.state
	res := s.reducer.Reduce(prev, a)

	if res.Changed(prev) {
		changed = true
		s.state = res.State

		if err := s.state.Validate(s.lanes); err != nil {
			s.logger.Error("state invariant violated", "action", a, "err", err)
		}

		s.playCues(prev, s.state)
		s.feed.publish(s.state, s.sched.Snapshot())
		if res.Effect == nil {
			s.save()
		}
	}

	if res.Effect != nil {
		s.deliver(res.Effect)
		return changed, true
	}
	return changed, false
}

func (s *Session) save() {
	s.persist.save(game.NewSnapshot(s.state, s.sched))
}

// deliver forwards an effect. The effect channel has room for the single
// game-over a session can produce.
func (s *Session) deliver(e game.Effect) {
	if over, ok := e.(game.GameOver); ok {
		s.logger.Info("game over",
			"score", over.Score,
			"difficulty", over.Difficulty,
			"max_combo", over.MaxCombo,
		)
		s.persist.remove()
	}

	select {
	case s.effects <- e:
	default:
		s.logger.Error("effect channel full, dropping effect", "effect", e)
	}
}

func (s *Session) playCues(prev, next game.GameState) {
	if s.cues == nil || !s.soundEnabled {
		return
	}
	if next.Score > prev.Score {
		s.cues.Play(audio.CueHit)
	}
	if next.Lives < prev.Lives {
		s.cues.Play(audio.CueMiss)
	}
}
