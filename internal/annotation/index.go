package annotation

// Index answers "has the frame on screen been captured?" in O(1) for
// the currently loaded video. It is rebuilt in full whenever the output
// directory or the active video changes; output directories hold
// hundreds of entries at most, so incremental maintenance is not worth
// its complexity.
type Index struct {
	identity string
	frames   map[int]string // frame number -> image filename
}

// BuildIndex filters the output scan down to captures of one video.
// Entries that don't decode, or decode to a different identity, are
// skipped silently: they are simply not this workflow's output.
func BuildIndex(identity string, entries []string) *Index {
	frames := make(map[int]string)
	for _, name := range entries {
		if !framePattern.MatchString(name) {
			continue
		}
		c, ok := DecodeFilename(name)
		if !ok || c.VideoIdentity != identity {
			continue
		}
		frames[c.FrameNumber] = name
	}
	return &Index{identity: identity, frames: frames}
}

func (ix *Index) Identity() string {
	return ix.identity
}

func (ix *Index) Lookup(frame int) (string, bool) {
	name, ok := ix.frames[frame]
	return name, ok
}

func (ix *Index) Len() int {
	return len(ix.frames)
}
