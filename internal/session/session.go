// Package session owns the mutable state of one review session: the
// chosen directories, the active video, the fps setting and the
// annotation store bound to the output directory. Everything the
// workflow needs flows through here instead of package-level globals.
package session

import (
	"sync"

	"github.com/kvolkov/linejudge/internal/annotation"
	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/media"
)

type Session struct {
	mu sync.RWMutex

	fps        float64
	libraryDir string
	outputDir  string
	active     *media.MediaReference

	store  *annotation.Store
	review *annotation.Review
}

func New(fps float64) *Session {
	if fps <= 0 {
		fps = 30
	}
	return &Session{fps: fps}
}

// SelectLibrary picks the video directory. A cancelled selection (empty
// path) returns the cancellation error and leaves the previous choice
// untouched; so does any validation failure.
func (s *Session) SelectLibrary(path string) error {
	dir, err := media.SelectDirectory(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.libraryDir = dir
	s.active = nil
	s.mu.Unlock()
	return nil
}

// SelectOutput picks the capture directory and binds a fresh store (and
// with it an empty label cache) to it.
func (s *Session) SelectOutput(path string) error {
	dir, err := media.SelectDirectory(path)
	if err != nil {
		return err
	}

	store := annotation.NewStore(dir)

	s.mu.Lock()
	identity := ""
	if s.active != nil {
		identity = annotation.SanitizeIdentity(s.active.Name)
	}
	s.outputDir = dir
	s.store = store
	s.review = annotation.NewReview(store)
	s.mu.Unlock()

	return store.Rebuild(identity)
}

// SetActive switches the session to a video and rebuilds the frame
// index for it.
func (s *Session) SetActive(ref media.MediaReference) error {
	s.mu.Lock()
	refCopy := ref
	s.active = &refCopy
	store := s.store
	s.mu.Unlock()

	if store == nil {
		return nil
	}
	return store.Rebuild(annotation.SanitizeIdentity(ref.Name))
}

func (s *Session) Active() *media.MediaReference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// ActiveIdentity returns the capture namespace of the active video, or
// "" when none is loaded.
func (s *Session) ActiveIdentity() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return ""
	}
	return annotation.SanitizeIdentity(s.active.Name)
}

func (s *Session) LibraryDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.libraryDir
}

func (s *Session) OutputDir() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outputDir
}

// Store returns the annotation store, or nil while no output directory
// is selected. The UI disables capturing in that state.
func (s *Session) Store() *annotation.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *Session) Review() *annotation.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.review
}

func (s *Session) FPS() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fps
}

func (s *Session) SetFPS(fps float64) error {
	if fps <= 0 {
		return apperrors.New(apperrors.KindUnknown, "fps must be positive")
	}
	s.mu.Lock()
	s.fps = fps
	s.mu.Unlock()
	return nil
}
