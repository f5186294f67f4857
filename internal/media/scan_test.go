package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kvolkov/linejudge/internal/apperrors"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to create test file %s: %v", name, err)
		}
	}
}

func TestScanVideos(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"rally2.mp4", "rally1.MOV", "match.webm", "notes.txt", "clip.mkv", "frame.jpg")
	if err := os.Mkdir(filepath.Join(tmpDir, "subdir.mp4"), 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	refs, err := ScanVideos(tmpDir)
	if err != nil {
		t.Fatalf("ScanVideos failed: %v", err)
	}

	want := []string{"clip.mkv", "match.webm", "rally1.MOV", "rally2.mp4"}
	if len(refs) != len(want) {
		t.Fatalf("Expected %d videos, got %d", len(want), len(refs))
	}
	for i, name := range want {
		if refs[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, refs[i].Name)
		}
		if refs[i].Path != filepath.Join(tmpDir, name) {
			t.Errorf("Wrong path for %s: %s", name, refs[i].Path)
		}
	}
}

func TestScanCapturesDescending(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir,
		"game1_frame10_0.333s.jpg",
		"game1_frame370_12.345s.jpg",
		"game1_frame22_0.733s.PNG",
		"game1_frame370_12.345s.txt",
		"clip.mp4")

	names, err := ScanCaptures(tmpDir)
	if err != nil {
		t.Fatalf("ScanCaptures failed: %v", err)
	}

	want := []string{
		"game1_frame370_12.345s.jpg",
		"game1_frame22_0.733s.PNG",
		"game1_frame10_0.333s.jpg",
	}
	if len(names) != len(want) {
		t.Fatalf("Expected %d captures, got %d: %v", len(want), len(names), names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestScanMissingDirectory(t *testing.T) {
	if _, err := ScanVideos(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestSelectDirectory(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		tmpDir := t.TempDir()
		path, err := SelectDirectory(tmpDir)
		if err != nil {
			t.Fatalf("SelectDirectory failed: %v", err)
		}
		if path != tmpDir {
			t.Errorf("Expected %s, got %s", tmpDir, path)
		}
	})

	t.Run("EmptyPathIsCancellation", func(t *testing.T) {
		_, err := SelectDirectory("")
		if !apperrors.IsCancelled(err) {
			t.Errorf("Expected cancellation, got %v", err)
		}
	})

	t.Run("MissingIsAccessFailure", func(t *testing.T) {
		_, err := SelectDirectory(filepath.Join(t.TempDir(), "nope"))
		if apperrors.KindOf(err) != apperrors.KindAccessFailure {
			t.Errorf("Expected access failure, got %v", err)
		}
	})

	t.Run("FileIsNotADirectory", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeFiles(t, tmpDir, "file.txt")
		_, err := SelectDirectory(filepath.Join(tmpDir, "file.txt"))
		if apperrors.KindOf(err) != apperrors.KindAccessFailure {
			t.Errorf("Expected access failure, got %v", err)
		}
	})
}
