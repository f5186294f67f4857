package media

import (
	"errors"
	"io/fs"
	"os"

	"github.com/kvolkov/linejudge/internal/apperrors"
)

// SelectDirectory validates a directory chosen in the UI. An empty path
// means the picker was dismissed; that is a cancellation, not an error,
// and callers must keep any previously selected directory.
func SelectDirectory(path string) (string, error) {
	if path == "" {
		return "", apperrors.New(apperrors.KindCancelled, "directory selection cancelled")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", apperrors.Wrap(apperrors.KindPermissionDenied, "directory access denied", err)
		}
		return "", apperrors.Wrap(apperrors.KindAccessFailure, "directory inaccessible", err)
	}
	if !info.IsDir() {
		return "", apperrors.New(apperrors.KindAccessFailure, "not a directory: "+path)
	}

	// Probe readability up front so the failure surfaces at selection
	// time instead of on the first scan.
	if _, err := os.ReadDir(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return "", apperrors.Wrap(apperrors.KindPermissionDenied, "directory access denied", err)
		}
		return "", apperrors.Wrap(apperrors.KindAccessFailure, "directory inaccessible", err)
	}

	return path, nil
}
