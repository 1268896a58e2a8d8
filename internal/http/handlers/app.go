package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"server/internal/heygen"
	"server/internal/infra"
)

// VendorAPI is the slice of the HeyGen client the routes need. Handlers are
// tested against a fake implementation.
type VendorAPI interface {
	UploadAsset(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error)
	CreateTalkingPhoto(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error)
	ListAvatars(ctx context.Context) (json.RawMessage, error)
	DeleteTalkingPhoto(ctx context.Context, id string) error
	GenerateVideo(ctx context.Context, body json.RawMessage) (json.RawMessage, error)
	ListVideos(ctx context.Context) (json.RawMessage, error)
	VideoStatus(ctx context.Context, videoID string) (json.RawMessage, error)
}

// App bundles the handler dependencies.
type App struct {
	HeyGen           VendorAPI
	AudioContentType string
	Logger           *infra.Logger
}

func NewApp(vendor VendorAPI, audioContentType string, logger *infra.Logger) *App {
	if audioContentType == "" {
		audioContentType = "audio/mpeg"
	}
	return &App{HeyGen: vendor, AudioContentType: audioContentType, Logger: logger}
}

// Envelope is the uniform wrapper every route returns, regardless of the
// shape of the upstream vendor response. Code 200 implies Data carries the
// vendor payload; 400 and 500 imply Data is null.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// success answers {200, "success", <vendor payload>}. A nil payload encodes
// as a JSON null.
func (a *App) success(w http.ResponseWriter, data json.RawMessage) {
	a.json(w, http.StatusOK, Envelope{Code: http.StatusOK, Message: "success", Data: data})
}

// fail answers the uniform failure envelope with a null data member.
func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, Envelope{Code: code, Message: message})
}

// vendorFailure maps any vendor-call error to a 500 envelope, preferring the
// vendor's own error message over the fallback when one was received.
func (a *App) vendorFailure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	message := fallback
	var apiErr *heygen.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		message = apiErr.Message
	}
	if a.Logger != nil {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("vendor call failed")
	}
	a.fail(w, http.StatusInternalServerError, message)
}
