package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GenerateVideo forwards the UI's video_inputs generate request to the
// vendor byte-for-byte and returns the vendor payload carrying the new job
// id. Shape validation is the vendor's job.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		a.fail(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	data, err := a.HeyGen.GenerateVideo(r.Context(), body)
	if err != nil {
		a.vendorFailure(w, r, err, "failed to submit video job")
		return
	}
	a.success(w, data)
}

// ListVideos returns the vendor's full job list.
func (a *App) ListVideos(w http.ResponseWriter, r *http.Request) {
	data, err := a.HeyGen.ListVideos(r.Context())
	if err != nil {
		a.vendorFailure(w, r, err, "failed to fetch video list")
		return
	}
	a.success(w, data)
}

// VideoStatus returns the vendor's status payload for one job.
func (a *App) VideoStatus(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")
	if videoID == "" {
		a.fail(w, http.StatusBadRequest, "video id is required")
		return
	}
	data, err := a.HeyGen.VideoStatus(r.Context(), videoID)
	if err != nil {
		a.vendorFailure(w, r, err, "failed to fetch video status")
		return
	}
	a.success(w, data)
}
