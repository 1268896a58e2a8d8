// Package avatars holds the avatar and talking-photo collections fetched
// from the vendor, for lookup by detail views. An explicit injected store,
// not a package-level singleton.
package avatars

import (
	"context"
	"errors"
	"sync"

	"server/internal/heygen"
	"server/internal/infra"
)

// ErrNotFound is returned when no talking photo matches a requested id.
var ErrNotFound = errors.New("talking photo not found")

// Lister fetches the vendor's avatar collections.
type Lister interface {
	Avatars(ctx context.Context) (*heygen.AvatarList, error)
}

// Store caches the collections from the last successful refresh. The data is
// read-only vendor state: a refresh replaces it wholesale, nothing mutates
// individual entries.
type Store struct {
	lister Lister
	logger *infra.Logger

	mu            sync.RWMutex
	avatars       []heygen.Avatar
	talkingPhotos []heygen.TalkingPhoto
	lastErr       string
}

func NewStore(lister Lister, logger *infra.Logger) *Store {
	return &Store{lister: lister, logger: logger}
}

// Refresh pulls the full collections. On failure the previous data is kept,
// a user-visible error string is recorded, and no retry is attempted.
func (s *Store) Refresh(ctx context.Context) error {
	list, err := s.lister.Avatars(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error().Err(err).Msg("avatar refresh failed")
		}
		s.mu.Lock()
		s.lastErr = "unable to fetch avatar list"
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.avatars = list.Avatars
	// Keep the whole collection, not just the first entry.
	s.talkingPhotos = list.TalkingPhotos
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Avatars returns a copy of the cached template avatars.
func (s *Store) Avatars() []heygen.Avatar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]heygen.Avatar, len(s.avatars))
	copy(out, s.avatars)
	return out
}

// TalkingPhotos returns a copy of the cached talking photos.
func (s *Store) TalkingPhotos() []heygen.TalkingPhoto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]heygen.TalkingPhoto, len(s.talkingPhotos))
	copy(out, s.talkingPhotos)
	return out
}

// TalkingPhoto finds the first cached talking photo with the given id.
func (s *Store) TalkingPhoto(id string) (heygen.TalkingPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, photo := range s.talkingPhotos {
		if photo.TalkingPhotoID == id {
			return photo, nil
		}
	}
	return heygen.TalkingPhoto{}, ErrNotFound
}

// LastError returns the user-visible error string from the last refresh, or
// empty when the last refresh succeeded.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
