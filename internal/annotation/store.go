package annotation

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/media"
	"github.com/kvolkov/linejudge/internal/metrics"
)

// Store ties one output directory to its label cache and the index for
// the active video. The mutex guards the index swap on rebuild; the
// workflow is single-user, but handlers run on concurrent goroutines.
type Store struct {
	dir   string
	cache *LabelCache

	mu    sync.RWMutex
	index *Index
}

func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: NewLabelCache(),
		index: BuildIndex("", nil),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Cache() *LabelCache {
	return s.cache
}

// Rebuild rescans the output directory and replaces the index with one
// scoped to identity. Called on output-directory change, active-video
// change and after every successful capture.
func (s *Store) Rebuild(identity string) error {
	entries, err := media.ScanCaptures(s.dir)
	if err != nil {
		return apperrors.Wrap(apperrors.KindAccessFailure, "failed to scan output directory", err)
	}

	s.mu.Lock()
	s.index = BuildIndex(identity, entries)
	s.mu.Unlock()
	return nil
}

func (s *Store) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// FrameState describes the annotation status of the frame under the
// playhead.
type FrameState struct {
	Annotated bool
	// Label is empty when the frame is unannotated. When the image
	// exists but its label file is gone, Label falls back to "marked":
	// the image is the primary signal that the frame was annotated.
	Label     string
	ImageName string
}

// MarkedFallback is reported when a capture image exists without a
// readable label file.
const MarkedFallback = "marked"

// Status resolves the annotation state for a playback position. Runs on
// every time update, so the happy paths are map lookups; only a true
// cache miss reads the label file.
func (s *Store) Status(timestampSeconds, fps float64) FrameState {
	frame := int(math.Round(timestampSeconds * fps))
	return s.FrameStatus(frame)
}

func (s *Store) FrameStatus(frame int) FrameState {
	imageName, ok := s.Index().Lookup(frame)
	if !ok {
		return FrameState{}
	}

	label, err := s.ReadLabel(imageName)
	if err != nil {
		return FrameState{Annotated: true, Label: MarkedFallback, ImageName: imageName}
	}
	return FrameState{Annotated: true, Label: label, ImageName: imageName}
}

// ReadLabel returns the label for a capture image, consulting the cache
// before disk. The on-disk text is trimmed; manual edits with stray
// whitespace are tolerated.
func (s *Store) ReadLabel(imageName string) (string, error) {
	if label, ok := s.cache.Get(imageName); ok {
		metrics.LabelCacheHits.Inc()
		return label, nil
	}
	metrics.LabelCacheMisses.Inc()

	data, err := os.ReadFile(s.labelPath(imageName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.Wrap(apperrors.KindAccessFailure, "label file missing", err)
		}
		return "", apperrors.Wrap(apperrors.KindAccessFailure, "failed to read label file", err)
	}

	label := strings.TrimSpace(string(data))
	s.cache.Set(imageName, label)
	return label, nil
}

func (s *Store) imagePath(imageName string) string {
	return filepath.Join(s.dir, imageName)
}

// labelPath swaps the image extension for .txt, the filename convention
// that pairs the two files.
func (s *Store) labelPath(imageName string) string {
	base := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	return filepath.Join(s.dir, base+".txt")
}
