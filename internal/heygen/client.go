package heygen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// Options configures the HeyGen API client.
type Options struct {
	APIKey         string
	BaseURL        string
	UploadBaseURL  string
	ProxyURL       string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the HeyGen core and upload APIs. A missing
// API key is not an error at this layer: requests still go out and the
// vendor answers 401.
type Client struct {
	apiKey        string
	baseURL       string
	uploadBaseURL string
	httpClient    *http.Client
	logger        *infra.Logger
}

// APIError is a vendor-level failure: a response was received but carried a
// non-2xx status or a vendor error object.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Raw        json.RawMessage
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Code != "" {
			return fmt.Sprintf("heygen: %s (%s)", e.Message, e.Code)
		}
		return "heygen: " + e.Message
	}
	return fmt.Sprintf("heygen: status %d", e.StatusCode)
}

// vendorEnvelope covers both vendor response generations: v1 endpoints answer
// {code, data, message|msg} with 100 meaning success, v2 endpoints answer
// {error, data} with a null error on success.
type vendorEnvelope struct {
	Code    *int            `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Msg     string          `json:"msg,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type vendorErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		transport := http.DefaultTransport
		if opts.ProxyURL != "" {
			proxy, err := url.Parse(opts.ProxyURL)
			if err != nil {
				return nil, fmt.Errorf("heygen: invalid proxy url: %w", err)
			}
			transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.heygen.com"
	}
	uploadBaseURL := strings.TrimRight(opts.UploadBaseURL, "/")
	if uploadBaseURL == "" {
		uploadBaseURL = "https://upload.heygen.com"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:        strings.TrimSpace(opts.APIKey),
		baseURL:       baseURL,
		uploadBaseURL: uploadBaseURL,
		httpClient:    httpClient,
		logger:        logger,
	}, nil
}

// UploadAsset registers an audio or image binary with the vendor and returns
// the vendor asset payload, including the assigned asset id.
func (c *Client) UploadAsset(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, c.uploadBaseURL+"/v1/asset", contentType, body)
}

// CreateTalkingPhoto uploads a still photo and returns the vendor
// talking-photo payload.
func (c *Client) CreateTalkingPhoto(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, c.uploadBaseURL+"/v1/talking_photo", contentType, body)
}

// ListAvatars returns the vendor's avatar and talking-photo collections.
func (c *Client) ListAvatars(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/v2/avatars", "", nil)
}

// DeleteTalkingPhoto removes a talking photo by id.
func (c *Client) DeleteTalkingPhoto(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+"/v2/talking_photo/"+url.PathEscape(id), "", nil)
	return err
}

// GenerateVideo forwards a video_inputs generate request verbatim and returns
// the vendor payload carrying the new job id.
func (c *Client) GenerateVideo(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, c.baseURL+"/v2/video/generate", "application/json", strings.NewReader(string(body)))
}

// ListVideos returns the vendor's full job list.
func (c *Client) ListVideos(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/v1/video.list", "", nil)
}

// VideoStatus returns the raw vendor status payload for one job.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/v1/video_status.get?video_id="+url.QueryEscape(videoID), "", nil)
}

// Avatars is the typed variant of ListAvatars used by the avatar store.
func (c *Client) Avatars(ctx context.Context) (*AvatarList, error) {
	raw, err := c.ListAvatars(ctx)
	if err != nil {
		return nil, err
	}
	list, err := DecodeAvatarList(raw)
	if err != nil {
		return nil, fmt.Errorf("heygen: decode avatar list: %w", err)
	}
	return list, nil
}

// JobStatus is the typed variant of VideoStatus used by the polling
// controller.
func (c *Client) JobStatus(ctx context.Context, videoID string) (*VideoStatus, error) {
	raw, err := c.VideoStatus(ctx, videoID)
	if err != nil {
		return nil, err
	}
	st, err := DecodeVideoStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("heygen: decode video status: %w", err)
	}
	return st, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, contentType string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("heygen: build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("method", method).Str("url", endpoint).Msg("heygen: request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("heygen: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("heygen: read response: %w", err)
	}

	c.logger.Debug().Str("method", method).Str("url", endpoint).Int("status", resp.StatusCode).Msg("heygen: response")

	if len(raw) == 0 && resp.StatusCode < 300 {
		return nil, nil
	}

	var envelope vendorEnvelope
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw}
		if decodeErr == nil {
			apiErr.Message = firstNonEmpty(envelope.Message, envelope.Msg)
			if code, msg := decodeErrorObject(envelope.Error); msg != "" || code != "" {
				apiErr.Code = code
				if apiErr.Message == "" {
					apiErr.Message = msg
				}
			}
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("heygen: decode response: %w", decodeErr)
	}
	if code, msg := decodeErrorObject(envelope.Error); code != "" || msg != "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: code, Message: msg, Raw: raw}
	}
	if envelope.Code != nil && *envelope.Code != 100 && *envelope.Code != 200 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Code:       fmt.Sprintf("%d", *envelope.Code),
			Message:    firstNonEmpty(envelope.Message, envelope.Msg),
			Raw:        raw,
		}
	}
	return envelope.Data, nil
}

// decodeErrorObject inspects a v2 error member. A missing or null error means
// success; anything else carries the vendor's code and message.
func decodeErrorObject(raw json.RawMessage) (code, message string) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", ""
	}
	var detail vendorErrorDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return "", trimmed
	}
	msg := detail.Message
	if detail.Detail != "" {
		msg = detail.Detail
	}
	if msg == "" {
		msg = trimmed
	}
	return detail.Code, msg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
