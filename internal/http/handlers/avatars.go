package handlers

import "net/http"

// ListAvatars returns the vendor's template avatars and talking photos
// verbatim.
func (a *App) ListAvatars(w http.ResponseWriter, r *http.Request) {
	data, err := a.HeyGen.ListAvatars(r.Context())
	if err != nil {
		a.vendorFailure(w, r, err, "failed to fetch avatar list")
		return
	}
	a.success(w, data)
}

// CreateAvatar uploads a still photo as a new talking photo. The outbound
// content type is whatever the file part declares.
func (a *App) CreateAvatar(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.fail(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := a.HeyGen.CreateTalkingPhoto(r.Context(), file, header.Header.Get("Content-Type"))
	if err != nil {
		a.vendorFailure(w, r, err, "upload failed")
		return
	}
	a.success(w, data)
}

// DeleteAvatar removes a talking photo by the id query parameter. Success
// answers a null data member.
func (a *App) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		a.fail(w, http.StatusBadRequest, "id parameter is required")
		return
	}
	if err := a.HeyGen.DeleteTalkingPhoto(r.Context(), id); err != nil {
		a.vendorFailure(w, r, err, "failed to delete avatar")
		return
	}
	a.success(w, nil)
}
