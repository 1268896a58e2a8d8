package heygen

import "encoding/json"

// Video job statuses as reported by the vendor.
const (
	StatusWaiting    = "waiting"
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// TerminalStatus reports whether a job status means polling should stop.
func TerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// Avatar is a vendor-hosted generated persona usable as a video subject.
type Avatar struct {
	AvatarID        string `json:"avatar_id"`
	AvatarName      string `json:"avatar_name"`
	PreviewImageURL string `json:"preview_image_url"`
	PreviewVideoURL string `json:"preview_video_url,omitempty"`
	Gender          string `json:"gender,omitempty"`
}

// TalkingPhoto is a vendor-hosted avatar derived from a single still photo.
type TalkingPhoto struct {
	TalkingPhotoID   string `json:"talking_photo_id"`
	TalkingPhotoName string `json:"talking_photo_name"`
	PreviewImageURL  string `json:"preview_image_url"`
}

// AvatarList is the payload of the vendor avatar-list endpoint.
type AvatarList struct {
	Avatars       []Avatar       `json:"avatars"`
	TalkingPhotos []TalkingPhoto `json:"talking_photos"`
}

// Asset is an uploaded binary registered with the vendor, referenced by ID
// in later generate calls.
type Asset struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	URL       string `json:"url,omitempty"`
	CreatedTS int64  `json:"created_ts,omitempty"`
}

// GenerateVideoResponse carries the identifier of a newly submitted job.
type GenerateVideoResponse struct {
	VideoID string `json:"video_id"`
}

// VideoListItem is one entry of the vendor job list.
type VideoListItem struct {
	VideoID      string `json:"video_id"`
	VideoTitle   string `json:"video_title,omitempty"`
	Status       string `json:"status"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	CreatedAt    int64  `json:"created_at,omitempty"`
}

// VideoList is the payload of the vendor video-list endpoint.
type VideoList struct {
	Videos []VideoListItem `json:"videos"`
	Token  string          `json:"token,omitempty"`
}

// JobError is the error detail the vendor attaches to a failed or failing
// job. It can appear even while the nominal status is still non-terminal.
type JobError struct {
	Code    any    `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text returns the most specific human-readable error text available.
func (e *JobError) Text() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// VideoStatus is the vendor's view of one generation job. Fields are only
// ever replaced wholesale by re-fetching; nothing mutates them locally.
type VideoStatus struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	VideoURL     string    `json:"video_url,omitempty"`
	GifURL       string    `json:"gif_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Duration     float64   `json:"duration,omitempty"`
	Error        *JobError `json:"error,omitempty"`
}

// Terminal reports whether this payload ends a polling sequence: either a
// terminal status, or an error detail under any status.
func (s *VideoStatus) Terminal() bool {
	return TerminalStatus(s.Status) || s.Error != nil
}

// DecodeVideoStatus parses a raw vendor status payload.
func DecodeVideoStatus(raw json.RawMessage) (*VideoStatus, error) {
	var st VideoStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// DecodeAvatarList parses a raw vendor avatar-list payload.
func DecodeAvatarList(raw json.RawMessage) (*AvatarList, error) {
	var list AvatarList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
