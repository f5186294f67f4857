package annotation

import (
	"os"

	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/metrics"
)

// Writer persists captures into the store's output directory.
//
// The two writes are sequential, not transactional: image first, label
// second. A label-write failure leaves an orphaned image on disk; the
// caller gets a distinct error naming it so the user can retry or clean
// up. See DESIGN.md for why this is kept rather than staged through
// temp files and renames.
type Writer struct {
	store  *Store
	logger *zap.Logger
}

func NewWriter(store *Store, logger *zap.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Capture writes one (image, label) pair and returns the derived
// record. imageData must be the already-encoded still; an empty buffer
// is an encode failure and nothing is written.
func (w *Writer) Capture(identity string, timestampSeconds, fps float64, label string, imageData []byte) (Capture, error) {
	if len(imageData) == 0 {
		return Capture{}, apperrors.New(apperrors.KindEncodeFailure, "frame encoding produced no data")
	}

	c := NewCapture(identity, timestampSeconds, fps)
	imagePath := w.store.imagePath(c.ImageFilename())
	labelPath := w.store.labelPath(c.ImageFilename())

	if err := os.WriteFile(imagePath, imageData, 0644); err != nil {
		return Capture{}, apperrors.Wrap(apperrors.KindWriteFailure, "failed to write capture image", err)
	}

	if err := os.WriteFile(labelPath, []byte(label), 0644); err != nil {
		// The image is already on disk with no label. Not auto-repaired;
		// the error names the orphan so the UI can say so.
		return Capture{}, apperrors.Wrap(apperrors.KindWriteFailure,
			"failed to write label (orphaned image "+c.ImageFilename()+")", err)
	}

	w.store.cache.Set(c.ImageFilename(), label)
	metrics.CapturesTotal.WithLabelValues(label).Inc()

	if err := w.store.Rebuild(identity); err != nil {
		// The capture itself succeeded; a failed rescan only delays
		// when it shows up in the list.
		w.logger.Warn("capture saved but index refresh failed", zap.Error(err))
	}

	w.logger.Info("capture saved",
		zap.String("image", c.ImageFilename()),
		zap.String("label", label),
		zap.Int("frame", c.FrameNumber))

	return c, nil
}
