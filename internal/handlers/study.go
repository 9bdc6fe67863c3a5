package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

type studyPipeline interface {
	FetchTranscript(ctx context.Context, url string) (string, error)
	GenerateBundleWithProgress(ctx context.Context, url string, level models.Level, progress services.ProgressFunc) (*models.StudyMaterialBundle, error)
	GenerateArtifact(ctx context.Context, kind models.ArtifactKind, transcript string, level models.Level) models.Artifact
}

type StudyHandler struct {
	sessions  sessionStore
	pipeline  studyPipeline
	publisher services.Publisher
}

func NewStudyHandler(sessions sessionStore, pipeline studyPipeline, publisher services.Publisher) *StudyHandler {
	if publisher == nil {
		publisher = services.NopPublisher{}
	}
	return &StudyHandler{sessions: sessions, pipeline: pipeline, publisher: publisher}
}

// Transcript fetches and caches the flattened transcript of a video.
func (h *StudyHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	var req models.TranscriptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	videoID, ok := services.ResolveIdentifier(req.URL)
	if !ok {
		handleServiceError(w, r, services.ErrInvalidURL)
		return
	}

	transcript, err := h.pipeline.FetchTranscript(r.Context(), req.URL)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	session.CacheTranscript(videoID, transcript)

	writeJSON(w, http.StatusOK, models.TranscriptResponse{
		VideoID:    videoID,
		Transcript: transcript,
		WordCount:  len(strings.Fields(transcript)),
	})
}

// GenerateBundle runs the full pipeline and records the result in history.
func (h *StudyHandler) GenerateBundle(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	session, err := h.sessions.Get(sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	progress := services.ProgressReporter(r.Context(), h.publisher, sessionID, nil)
	bundle, err := h.pipeline.GenerateBundleWithProgress(r.Context(), req.URL, req.Level, progress)
	if err != nil {
		code, msg := services.ClassifyError(err)
		h.publisher.Publish(r.Context(), sessionID, models.WSMessage{
			Type:    "error",
			Payload: models.ErrorEvent{ErrorCode: code, ErrorMessage: msg},
		})
		handleServiceError(w, r, err)
		return
	}

	entry := session.Append(bundle)
	h.publisher.Publish(r.Context(), sessionID, models.WSMessage{
		Type:    "completed",
		Payload: models.CompletedEvent{EntryID: entry.ID, Degraded: bundle.Degraded()},
	})

	writeJSON(w, http.StatusOK, models.BundleResponse{EntryID: entry.ID, Bundle: bundle})
}

// GenerateArtifact regenerates a single artifact, reusing the session's
// cached transcript when it belongs to the same video.
func (h *StudyHandler) GenerateArtifact(w http.ResponseWriter, r *http.Request) {
	kind, ok := models.ParseArtifactKind(chi.URLParam(r, "kind"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Unknown artifact kind", r))
		return
	}

	var req models.ArtifactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	videoID, ok := services.ResolveIdentifier(req.URL)
	if !ok {
		handleServiceError(w, r, services.ErrInvalidURL)
		return
	}

	transcript, cached := session.CachedTranscript(videoID)
	if !cached {
		transcript, err = h.pipeline.FetchTranscript(r.Context(), req.URL)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		session.CacheTranscript(videoID, transcript)
	}

	writeJSON(w, http.StatusOK, h.pipeline.GenerateArtifact(r.Context(), kind, transcript, req.Level))
}

func (h *StudyHandler) Latest(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Get(middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	bundle := session.Latest()
	if bundle == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "No study material generated yet", r))
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}
