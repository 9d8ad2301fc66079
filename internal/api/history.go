package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/rubberduck/internal/store"
)

const (
	defaultHistoryDays  = 30
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler serves archived sessions.
type HistoryHandler struct {
	archive store.ArchiveRepo
	now     func() time.Time
}

// NewHistoryHandler creates a handler reading from archive.
func NewHistoryHandler(archive store.ArchiveRepo) *HistoryHandler {
	return &HistoryHandler{archive: archive, now: time.Now}
}

// RegisterRoutes registers history routes.
func (h *HistoryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/history", h.List)
	r.Get("/api/history/{id}", h.View)
}

type historySummary struct {
	SessionID       string    `json:"sessionId"`
	Topic           string    `json:"topic"`
	StartedAt       time.Time `json:"startedAt"`
	EndedAt         time.Time `json:"endedAt"`
	DurationMs      int64     `json:"duration"`
	FinalScore      int       `json:"finalScore"`
	Percentage      int       `json:"percentage"`
	EvaluationCount int       `json:"evaluationCount"`
}

// List returns sessions ended within the last ?days= days (default 30).
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultHistoryDays)
	if err != nil || days <= 0 {
		Error(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil || limit <= 0 {
		Error(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	limit = min(limit, maxHistoryLimit)

	since := h.now().AddDate(0, 0, -days)
	sessions, err := h.archive.Recent(r.Context(), since, limit)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]historySummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, historySummary{
			SessionID:       s.SessionID,
			Topic:           s.Topic,
			StartedAt:       s.StartedAt,
			EndedAt:         s.EndedAt,
			DurationMs:      s.DurationMs,
			FinalScore:      s.FinalScore,
			Percentage:      s.Percentage,
			EvaluationCount: s.EvaluationCount,
		})
	}
	JSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// View returns one archived session with its transcript.
func (h *HistoryHandler) View(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.archive.Get(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if s == nil {
		Error(w, http.StatusNotFound, "archived session not found")
		return
	}
	JSON(w, http.StatusOK, s)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}
