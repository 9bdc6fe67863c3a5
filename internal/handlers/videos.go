package handlers

import (
	"context"
	"net/http"

	"studycoach-backend/internal/models"
	"studycoach-backend/internal/services"
)

type videoInfoLookup interface {
	Lookup(ctx context.Context, videoID string) *models.VideoInfo
}

type VideoHandler struct {
	info videoInfoLookup
}

func NewVideoHandler(info videoInfoLookup) *VideoHandler {
	return &VideoHandler{info: info}
}

// Resolve extracts the video ID from ?url= and optionally looks up metadata.
func (h *VideoHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	videoID, ok := services.ResolveIdentifier(r.URL.Query().Get("url"))
	if !ok {
		writeJSON(w, http.StatusOK, models.ResolveResponse{Found: false})
		return
	}

	info := &models.VideoInfo{
		VideoID:      videoID,
		ThumbnailURL: services.ThumbnailURL(videoID),
	}
	if r.URL.Query().Get("metadata") == "1" && h.info != nil {
		if looked := h.info.Lookup(r.Context(), videoID); looked != nil {
			info = looked
		}
	}

	writeJSON(w, http.StatusOK, models.ResolveResponse{Found: true, VideoInfo: info})
}
