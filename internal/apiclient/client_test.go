package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/poller"
)

// fakeVendor stands in for the HeyGen API behind a real router instance, so
// these tests cover client, routes and envelope end to end.
type fakeVendor struct {
	calls        int
	statusQueue  []json.RawMessage
	avatarList   json.RawMessage
	uploadedType string
	deletedID    string
	generateBody json.RawMessage
	err          error
}

func (f *fakeVendor) UploadAsset(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error) {
	f.calls++
	f.uploadedType = contentType
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id":"asset-7","file_type":"audio"}`), nil
}

func (f *fakeVendor) CreateTalkingPhoto(ctx context.Context, body io.Reader, contentType string) (json.RawMessage, error) {
	f.calls++
	f.uploadedType = contentType
	return json.RawMessage(`{"talking_photo_id":"tp-7"}`), f.err
}

func (f *fakeVendor) ListAvatars(ctx context.Context) (json.RawMessage, error) {
	f.calls++
	return f.avatarList, f.err
}

func (f *fakeVendor) DeleteTalkingPhoto(ctx context.Context, id string) error {
	f.calls++
	f.deletedID = id
	return f.err
}

func (f *fakeVendor) GenerateVideo(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	f.calls++
	f.generateBody = body
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"video_id":"vid-55"}`), nil
}

func (f *fakeVendor) ListVideos(ctx context.Context) (json.RawMessage, error) {
	f.calls++
	return json.RawMessage(`{"videos":[{"video_id":"vid-55","status":"processing"}]}`), f.err
}

func (f *fakeVendor) VideoStatus(ctx context.Context, videoID string) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.statusQueue) == 0 {
		return json.RawMessage(`{"id":"` + videoID + `","status":"waiting"}`), nil
	}
	next := f.statusQueue[0]
	f.statusQueue = f.statusQueue[1:]
	return next, nil
}

func newTestServer(t *testing.T, vendor *fakeVendor) (*httptest.Server, *Client) {
	t.Helper()
	app := handlers.NewApp(vendor, "audio/mpeg", nil)
	srv := httptest.NewServer(httpapi.NewRouter(app, zerolog.Nop(), nil))
	t.Cleanup(srv.Close)
	return srv, NewClient(Options{BaseURL: srv.URL})
}

func TestUploadAssetRoundTrip(t *testing.T) {
	vendor := &fakeVendor{}
	_, client := newTestServer(t, vendor)

	asset, err := client.UploadAsset(context.Background(), "voice.mp3", bytes.NewReader([]byte("ID3")), "audio")
	if err != nil {
		t.Fatalf("upload asset: %v", err)
	}
	if asset.ID != "asset-7" {
		t.Fatalf("asset id = %q", asset.ID)
	}
	if vendor.uploadedType != "audio/mpeg" {
		t.Fatalf("vendor saw content type %q, want forced audio/mpeg", vendor.uploadedType)
	}
}

func TestAvatarsListAndDelete(t *testing.T) {
	vendor := &fakeVendor{avatarList: json.RawMessage(`{"avatars":[],"talking_photos":[{"talking_photo_id":"tp-1","talking_photo_name":"Me","preview_image_url":"https://p/1.png"}]}`)}
	_, client := newTestServer(t, vendor)

	list, err := client.Avatars(context.Background())
	if err != nil {
		t.Fatalf("avatars: %v", err)
	}
	if len(list.TalkingPhotos) != 1 || list.TalkingPhotos[0].TalkingPhotoID != "tp-1" {
		t.Fatalf("list = %+v", list)
	}

	if err := client.DeleteAvatar(context.Background(), "tp-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if vendor.deletedID != "tp-1" {
		t.Fatalf("deleted id = %q", vendor.deletedID)
	}
}

func TestDeleteAvatarMissingIDSurfacesEnvelopeError(t *testing.T) {
	vendor := &fakeVendor{}
	_, client := newTestServer(t, vendor)

	err := client.DeleteAvatar(context.Background(), "")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Code != 400 {
		t.Fatalf("code = %d, want 400", apiErr.Code)
	}
}

func TestGenerateVideoBuildsVideoInputs(t *testing.T) {
	vendor := &fakeVendor{}
	_, client := newTestServer(t, vendor)

	resp, err := client.GenerateVideo(context.Background(), GenerateRequest{
		Title:          "demo",
		TalkingPhotoID: "tp-1",
		AudioAssetID:   "asset-7",
		TalkingStyle:   "expressive",
		Test:           true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.VideoID != "vid-55" {
		t.Fatalf("video id = %q", resp.VideoID)
	}

	var forwarded struct {
		VideoInputs []struct {
			Character struct {
				Type           string `json:"type"`
				TalkingPhotoID string `json:"talking_photo_id"`
			} `json:"character"`
			Voice struct {
				Type         string `json:"type"`
				AudioAssetID string `json:"audio_asset_id"`
			} `json:"voice"`
		} `json:"video_inputs"`
		Dimension struct {
			Width  int `json:"width"`
			Height int `json:"height"`
		} `json:"dimension"`
	}
	if err := json.Unmarshal(vendor.generateBody, &forwarded); err != nil {
		t.Fatalf("decode forwarded body: %v", err)
	}
	input := forwarded.VideoInputs[0]
	if input.Character.Type != "talking_photo" || input.Character.TalkingPhotoID != "tp-1" {
		t.Fatalf("character = %+v", input.Character)
	}
	if input.Voice.Type != "audio" || input.Voice.AudioAssetID != "asset-7" {
		t.Fatalf("voice = %+v", input.Voice)
	}
	if forwarded.Dimension.Width != 1280 || forwarded.Dimension.Height != 720 {
		t.Fatalf("dimension = %+v", forwarded.Dimension)
	}
}

func TestPollThroughProxyUntilCompleted(t *testing.T) {
	vendor := &fakeVendor{statusQueue: []json.RawMessage{
		json.RawMessage(`{"id":"vid-55","status":"waiting"}`),
		json.RawMessage(`{"id":"vid-55","status":"processing"}`),
		json.RawMessage(`{"id":"vid-55","status":"completed","video_url":"https://files/vid-55.mp4","duration":9.5}`),
	}}
	_, client := newTestServer(t, vendor)

	p := poller.New(client, 10*time.Millisecond, nil)
	job := p.Watch(context.Background(), "vid-55")

	var updates []poller.Update
	for u := range job.Updates() {
		updates = append(updates, u)
	}
	if len(updates) != 3 {
		t.Fatalf("update count = %d, want 3", len(updates))
	}
	final := updates[2]
	if !final.Done || final.Err != nil || final.Status.VideoURL == "" {
		t.Fatalf("final update = %+v", final)
	}
	if !strings.HasSuffix(final.Status.VideoURL, "vid-55.mp4") {
		t.Fatalf("video url = %q", final.Status.VideoURL)
	}
}
