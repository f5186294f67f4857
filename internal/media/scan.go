// Package media enumerates the user's chosen directories. The scan is
// the only source of truth for both the playable video list and the
// capture list; nothing here is cached between calls.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDir
)

// Entry is one directory member. The closed kind set keeps callers from
// having to duck-type os.DirEntry themselves.
type Entry struct {
	Name string
	Kind EntryKind
}

// MediaReference is a handle to one playable video file, valid until
// the library directory is rescanned.
type MediaReference struct {
	Name string
	Path string
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
}

var captureExtensions = map[string]bool{
	".jpg": true,
	".png": true,
}

// ReadEntries lists a directory as typed entries, unsorted.
func ReadEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		kind := EntryFile
		if de.IsDir() {
			kind = EntryDir
		}
		entries = append(entries, Entry{Name: de.Name(), Kind: kind})
	}
	return entries, nil
}

// ScanVideos returns the playable files in dir, sorted ascending by name.
func ScanVideos(dir string) ([]MediaReference, error) {
	entries, err := ReadEntries(dir)
	if err != nil {
		return nil, err
	}

	var refs []MediaReference
	for _, e := range entries {
		if e.Kind != EntryFile {
			continue
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(e.Name))] {
			continue
		}
		refs = append(refs, MediaReference{
			Name: e.Name,
			Path: filepath.Join(dir, e.Name),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// ScanCaptures returns the capture image filenames in dir, sorted
// descending by name. Filenames embed the frame number after a common
// prefix, so for a single video this reads newest-first. Across videos
// it is only a heuristic; the order is kept as user-visible behavior.
func ScanCaptures(dir string) ([]string, error) {
	entries, err := ReadEntries(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.Kind != EntryFile {
			continue
		}
		if !captureExtensions[strings.ToLower(filepath.Ext(e.Name))] {
			continue
		}
		names = append(names, e.Name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
