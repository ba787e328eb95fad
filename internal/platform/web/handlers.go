package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vovakirdan/gravity-tap/internal/config"
	"github.com/vovakirdan/gravity-tap/internal/game"
	"github.com/vovakirdan/gravity-tap/internal/session"
	"github.com/vovakirdan/gravity-tap/internal/storage"
)

// maxLimit bounds the number of score records one request can ask for.
const maxLimit = 100

// sessionInfo summarizes a live session.
type sessionInfo struct {
	ID         session.ID        `json:"id"`
	Slot       string            `json:"slot"`
	StartedAt  time.Time         `json:"started_at"`
	Difficulty config.Difficulty `json:"difficulty"`
	Score      int               `json:"score"`
	Lives      int               `json:"lives"`
	Paused     bool              `json:"paused"`
}

// stateMessage is the body of /api/state and of each websocket frame.
type stateMessage struct {
	Session     session.ID     `json:"session"`
	State       game.GameState `json:"state"`
	NextSpawnAt int64          `json:"next_spawn_at"`
	Lanes       int            `json:"lanes"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) listScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeError(w, http.StatusServiceUnavailable, "scores unavailable")
		return
	}

	limit := storage.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	var (
		records []storage.ScoreRecord
		err     error
	)
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d, perr := config.ParseDifficulty(raw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		records, err = s.scores.TopScoresByDifficulty(d, limit)
	} else {
		records, err = s.scores.TopScores(limit)
	}
	if err != nil {
		s.logger.Error("cannot load scores", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if records == nil {
		records = []storage.ScoreRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		writeError(w, http.StatusServiceUnavailable, "scores unavailable")
		return
	}
	stats, err := s.scores.Stats()
	if err != nil {
		s.logger.Error("cannot load stats", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot load stats")
		return
	}

	out := make([]*storage.DifficultyStats, 0, len(stats))
	for _, d := range config.Difficulties() {
		if st, ok := stats[d]; ok {
			out = append(out, st)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	list := s.sessions.List()
	out := make([]sessionInfo, 0, len(list))
	for _, sess := range list {
		st := sess.State()
		out = append(out, sessionInfo{
			ID:         sess.ID(),
			Slot:       sess.Slot(),
			StartedAt:  sess.StartedAt(),
			Difficulty: st.Difficulty,
			Score:      st.Score,
			Lives:      st.Lives,
			Paused:     st.Paused,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	if !ok {
		writeError(w, http.StatusNotFound, "no such session")
		return
	}
	writeJSON(w, http.StatusOK, newStateMessage(sess, sess.Snapshot()))
}

// lookup resolves the ?session= parameter. Without it the oldest live
// session is used.
func (s *Server) lookup(r *http.Request) (*session.Session, bool) {
	if id := r.URL.Query().Get("session"); id != "" {
		return s.sessions.Get(session.ID(id))
	}
	list := s.sessions.List()
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

func newStateMessage(sess *session.Session, snap game.Snapshot) stateMessage {
	return stateMessage{
		Session:     sess.ID(),
		State:       snap.State,
		NextSpawnAt: snap.NextSpawnAt,
		Lanes:       sess.Lanes(),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
