// Package apiclient is a Go client for the local proxy API, the programmatic
// counterpart of the browser UI. It satisfies the poller's fetcher and the
// avatar store's lister interfaces.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"server/internal/heygen"
)

// Error is a non-200 envelope returned by the proxy.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (code %d)", e.Message, e.Code)
}

// Options configures the proxy API client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

// Client calls the local proxy surface and unwraps its envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// UploadAsset sends a file through POST /api/assets and returns the vendor
// asset object.
func (c *Client) UploadAsset(ctx context.Context, filename string, content io.Reader, fileType string) (*heygen.Asset, error) {
	raw, err := c.postMultipart(ctx, "/api/assets", filename, content, fileType)
	if err != nil {
		return nil, err
	}
	var asset heygen.Asset
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, fmt.Errorf("api: decode asset: %w", err)
	}
	return &asset, nil
}

// CreateAvatar uploads a photo through POST /api/avatars and returns the raw
// vendor talking-photo payload.
func (c *Client) CreateAvatar(ctx context.Context, filename string, content io.Reader) (json.RawMessage, error) {
	return c.postMultipart(ctx, "/api/avatars", filename, content, "")
}

// Avatars fetches GET /api/avatars.
func (c *Client) Avatars(ctx context.Context) (*heygen.AvatarList, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/avatars", "", nil)
	if err != nil {
		return nil, err
	}
	list, err := heygen.DecodeAvatarList(raw)
	if err != nil {
		return nil, fmt.Errorf("api: decode avatar list: %w", err)
	}
	return list, nil
}

// DeleteAvatar removes a talking photo via DELETE /api/avatars?id=.
func (c *Client) DeleteAvatar(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/avatars?id="+url.QueryEscape(id), "", nil)
	return err
}

// GenerateRequest describes one talking-photo video to render.
type GenerateRequest struct {
	Title          string
	TalkingPhotoID string
	AudioAssetID   string
	TalkingStyle   string
	Width          int
	Height         int
	Test           bool
}

type generateCharacter struct {
	Type           string `json:"type"`
	TalkingPhotoID string `json:"talking_photo_id"`
	TalkingStyle   string `json:"talking_style,omitempty"`
}

type generateVoice struct {
	Type         string `json:"type"`
	AudioAssetID string `json:"audio_asset_id"`
}

type generateInput struct {
	Character generateCharacter `json:"character"`
	Voice     generateVoice     `json:"voice"`
}

type generateDimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type generatePayload struct {
	Title       string            `json:"title,omitempty"`
	VideoInputs []generateInput   `json:"video_inputs"`
	Dimension   generateDimension `json:"dimension"`
	Test        bool              `json:"test,omitempty"`
}

// GenerateVideo submits POST /api/videos and returns the new job id.
func (c *Client) GenerateVideo(ctx context.Context, req GenerateRequest) (*heygen.GenerateVideoResponse, error) {
	if req.Width <= 0 {
		req.Width = 1280
	}
	if req.Height <= 0 {
		req.Height = 720
	}
	payload := generatePayload{
		Title: req.Title,
		VideoInputs: []generateInput{{
			Character: generateCharacter{
				Type:           "talking_photo",
				TalkingPhotoID: req.TalkingPhotoID,
				TalkingStyle:   req.TalkingStyle,
			},
			Voice: generateVoice{
				Type:         "audio",
				AudioAssetID: req.AudioAssetID,
			},
		}},
		Dimension: generateDimension{Width: req.Width, Height: req.Height},
		Test:      req.Test,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("api: encode generate request: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, "/api/videos", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var resp heygen.GenerateVideoResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("api: decode generate response: %w", err)
	}
	return &resp, nil
}

// Videos fetches GET /api/videos.
func (c *Client) Videos(ctx context.Context) (*heygen.VideoList, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/videos", "", nil)
	if err != nil {
		return nil, err
	}
	var list heygen.VideoList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("api: decode video list: %w", err)
	}
	return &list, nil
}

// JobStatus fetches GET /api/videos/{id}.
func (c *Client) JobStatus(ctx context.Context, videoID string) (*heygen.VideoStatus, error) {
	raw, err := c.do(ctx, http.MethodGet, "/api/videos/"+url.PathEscape(videoID), "", nil)
	if err != nil {
		return nil, err
	}
	st, err := heygen.DecodeVideoStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("api: decode video status: %w", err)
	}
	return st, nil
}

func (c *Client) postMultipart(ctx context.Context, path, filename string, content io.Reader, fileType string) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	hdr.Set("Content-Type", contentTypeFor(filename))
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("api: build multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("api: write multipart: %w", err)
	}
	if fileType != "" {
		if err := mw.WriteField("type", fileType); err != nil {
			return nil, fmt.Errorf("api: write type field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("api: close multipart: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api: read response: %w", err)
	}

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("api: decode envelope: %w", err)
	}
	if envelope.Code != http.StatusOK {
		return nil, &Error{Code: envelope.Code, Message: envelope.Message}
	}
	return envelope.Data, nil
}

func contentTypeFor(filename string) string {
	switch ext := strings.ToLower(filename[strings.LastIndex(filename, ".")+1:]); ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}
