package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/rubberduck/internal/session"
)

// SessionHandler serves the teaching-session endpoints.
type SessionHandler struct {
	svc *session.Service
}

// NewSessionHandler creates a handler backed by svc.
func NewSessionHandler(svc *session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions/start", h.Start)
		r.Post("/sessions/end", h.End)
		r.Get("/sessions/{id}", h.Get)
		r.Post("/ask", h.Ask)
		r.Post("/evaluate", h.Evaluate)
	})
}

type startRequest struct {
	Topic string `json:"topic"`
}

type askRequest struct {
	SessionID    string `json:"sessionId"`
	UserResponse string `json:"userResponse"`
}

type sessionRequest struct {
	SessionID string `json:"sessionId"`
}

// Start opens a session.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Start(r.Context(), req.Topic)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// Ask records an answer and returns the duck's next question.
func (h *SessionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Ask(r.Context(), req.SessionID, req.UserResponse)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// Evaluate scores the latest answer.
func (h *SessionHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Evaluate(r.Context(), req.SessionID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// End completes a session.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.End(r.Context(), req.SessionID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

// Get returns a session's status summary.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, res)
}
