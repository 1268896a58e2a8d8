package handlers

import "net/http"

// maxUploadBytes caps multipart parsing; the UI rejects files over 15MB
// before they reach this route.
const maxUploadBytes = 15 << 20

// UploadAsset registers an audio or image file with the vendor and returns
// the vendor asset object, including the assigned asset id. The declared
// `type` form value decides the outbound content type: audio uploads are
// forced to the configured audio MIME, image uploads keep the file's own.
func (a *App) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.fail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	var contentType string
	switch r.FormValue("type") {
	case "audio":
		contentType = a.AudioContentType
	case "image":
		contentType = header.Header.Get("Content-Type")
	default:
		a.fail(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	data, err := a.HeyGen.UploadAsset(r.Context(), file, contentType)
	if err != nil {
		a.vendorFailure(w, r, err, "upload failed")
		return
	}
	a.success(w, data)
}
