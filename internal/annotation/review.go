package annotation

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/kvolkov/linejudge/internal/apperrors"
)

// Review is the edit workflow for an existing capture: Closed until
// Open succeeds, Open until Close or Delete. While open, the label can
// be rewritten or the pair deleted.
type Review struct {
	store *Store

	mu   sync.Mutex
	open *OpenCapture
}

// OpenCapture holds the capture under review. Preview is the raw image
// bytes backing the modal; it is released on Close.
type OpenCapture struct {
	Capture   Capture
	ImageName string
	Label     string
	Preview   []byte
}

func NewReview(store *Store) *Review {
	return &Review{store: store}
}

// Open loads a capture for editing. If the label file is missing it is
// created empty, so an opened capture always has a resolvable label
// file to write into.
func (r *Review) Open(imageName string) (*OpenCapture, error) {
	c, ok := DecodeFilename(imageName)
	if !ok {
		return nil, apperrors.New(apperrors.KindLoadFailure, "not a capture file: "+imageName)
	}

	preview, err := os.ReadFile(r.store.imagePath(imageName))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindLoadFailure, "failed to load capture image", err)
	}

	labelPath := r.store.labelPath(imageName)
	if _, err := os.Stat(labelPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(labelPath, nil, 0644); err != nil {
			return nil, apperrors.Wrap(apperrors.KindWriteFailure, "failed to create label file", err)
		}
	}

	label, err := r.store.ReadLabel(imageName)
	if err != nil {
		label = ""
	}

	oc := &OpenCapture{Capture: c, ImageName: imageName, Label: label, Preview: preview}

	r.mu.Lock()
	r.open = oc
	r.mu.Unlock()
	return oc, nil
}

// Current returns the open capture, or nil when closed.
func (r *Review) Current() *OpenCapture {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

// SetLabel overwrites the open capture's label file in full and updates
// the cache.
func (r *Review) SetLabel(label string) error {
	r.mu.Lock()
	oc := r.open
	r.mu.Unlock()
	if oc == nil {
		return apperrors.New(apperrors.KindUnknown, "no capture open for review")
	}

	if err := os.WriteFile(r.store.labelPath(oc.ImageName), []byte(label), 0644); err != nil {
		return apperrors.Wrap(apperrors.KindWriteFailure, "failed to write label", err)
	}

	oc.Label = label
	r.store.cache.Set(oc.ImageName, label)
	return nil
}

// Delete removes the open capture's pair: image first, then label. An
// already-missing label file is the known orphaned state and is not an
// error. The review closes on success.
func (r *Review) Delete() error {
	r.mu.Lock()
	oc := r.open
	r.mu.Unlock()
	if oc == nil {
		return apperrors.New(apperrors.KindUnknown, "no capture open for review")
	}

	if err := os.Remove(r.store.imagePath(oc.ImageName)); err != nil {
		return apperrors.Wrap(apperrors.KindWriteFailure, "failed to delete capture image", err)
	}

	if err := os.Remove(r.store.labelPath(oc.ImageName)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.KindWriteFailure, "failed to delete label file", err)
	}

	r.store.cache.Delete(oc.ImageName)
	// Refresh for whichever video the index is currently scoped to; the
	// deleted capture may belong to a different one.
	if err := r.store.Rebuild(r.store.Index().Identity()); err != nil {
		return err
	}

	r.Close()
	return nil
}

// Close drops the preview bytes so the decoded image does not outlive
// the modal.
func (r *Review) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.open != nil {
		r.open.Preview = nil
		r.open = nil
	}
}
