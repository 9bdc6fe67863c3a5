package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

type exporter interface {
	Export(kind models.ArtifactKind, entry models.HistoryEntry, format string) ([]byte, string, bool, error)
}

type HistoryHandler struct {
	sessions sessionStore
	exports  exporter
}

func NewHistoryHandler(sessions sessionStore, exports exporter) *HistoryHandler {
	return &HistoryHandler{sessions: sessions, exports: exports}
}

// List returns the session's history newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	items := services.HistoryItems(session.History())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": items,
		"total":   len(items),
	})
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Export downloads one artifact of an entry as txt or pdf.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseArtifactKind(chi.URLParam(r, "kind"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown artifact kind", r))
		return
	}

	entry, ok := h.entry(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	data, contentType, supported, err := h.exports.Export(kind, entry, format)
	if !supported {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Unsupported export format",
			map[string]string{"format": "must be txt or pdf"}, r))
		return
	}
	if err != nil {
		log.Printf("Export of %s for entry %s failed: %v", kind, entry.ID, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to render export", r))
		return
	}

	filename := services.ExportFilename(kind, entry.Bundle.VideoID, format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *HistoryHandler) entry(w http.ResponseWriter, r *http.Request) (models.HistoryEntry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid history entry ID", r))
		return models.HistoryEntry{}, false
	}

	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return models.HistoryEntry{}, false
	}

	entry, err := session.Entry(id)
	if err != nil {
		handleServiceError(w, r, err)
		return models.HistoryEntry{}, false
	}
	return entry, true
}
