package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

type sessionStore interface {
	Create() *services.Session
	Get(id uuid.UUID) (*services.Session, error)
	Delete(id uuid.UUID)
}

type tokenIssuer interface {
	IssueToken(sessionID uuid.UUID, ttl time.Duration) (string, time.Time, error)
}

type sessionCloser interface {
	CloseSession(sessionID uuid.UUID)
}

type SessionHandler struct {
	sessions sessionStore
	tokens   tokenIssuer
	ttl      time.Duration
	closer   sessionCloser
}

func NewSessionHandler(sessions sessionStore, tokens tokenIssuer, ttl time.Duration, closer sessionCloser) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens, ttl: ttl, closer: closer}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Create()

	token, expiresAt, err := h.tokens.IssueToken(session.ID, h.ttl)
	if err != nil {
		h.sessions.Delete(session.ID)
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SessionResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	h.sessions.Delete(sessionID)
	if h.closer != nil {
		h.closer.CloseSession(sessionID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh issues a new token for the caller's live session. Token lifetime is
// absolute, so clients call this before expires_at to keep a session in use.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, expiresAt, err := h.tokens.IssueToken(session.ID, h.ttl)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.SessionResponse{
		SessionID: session.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
