// Package annotation implements the frame-capture-and-label workflow:
// deterministic capture filenames, the sequential image+label writer,
// the per-video frame index and the in-memory label cache.
package annotation

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// The two first-class labels. Arbitrary text is tolerated when read
// back from disk, but the tool only ever writes these.
const (
	LabelBallIn  = "ball_in"
	LabelBallOut = "ball_out"
)

func ValidLabel(label string) bool {
	return label == LabelBallIn || label == LabelBallOut
}

// Capture identifies one annotated frame. It is reconstructed from
// filenames rather than stored anywhere; EncodeBase and DecodeBase are
// the single serialization contract, so generation and parsing cannot
// drift apart.
type Capture struct {
	VideoIdentity string
	FrameNumber   int
	// Timestamp is the playback position in seconds, truncated to
	// millisecond precision before the frame number is derived.
	Timestamp float64
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeIdentity derives the capture namespace from a video filename:
// extension stripped, every non-alphanumeric character replaced.
func SanitizeIdentity(videoName string) string {
	base := strings.TrimSuffix(videoName, filepath.Ext(videoName))
	return nonAlphanumeric.ReplaceAllString(base, "_")
}

// NewCapture computes the frame number for a playback position. fps is
// the user-chosen divisor, not necessarily the video's encoded rate.
func NewCapture(identity string, timestampSeconds, fps float64) Capture {
	ts := math.Trunc(timestampSeconds*1000) / 1000
	return Capture{
		VideoIdentity: identity,
		FrameNumber:   int(math.Round(ts * fps)),
		Timestamp:     ts,
	}
}

// EncodeBase renders the shared base of the image and label filenames:
// {identity}_frame{N}_{T}s. The timestamp keeps its shortest exact
// decimal form ("12.345", "2").
func (c Capture) EncodeBase() string {
	return fmt.Sprintf("%s_frame%d_%ss",
		c.VideoIdentity,
		c.FrameNumber,
		strconv.FormatFloat(c.Timestamp, 'f', -1, 64))
}

func (c Capture) ImageFilename() string {
	return c.EncodeBase() + ".jpg"
}

func (c Capture) LabelFilename() string {
	return c.EncodeBase() + ".txt"
}

var basePattern = regexp.MustCompile(`^(.+)_frame(\d+)_(\d+(?:\.\d+)?)s$`)

// framePattern recognizes any of this workflow's output regardless of
// which video produced it. Used by the index scan.
var framePattern = regexp.MustCompile(`_frame(\d+)_`)

// DecodeBase parses a filename base produced by EncodeBase. Returns
// false for anything else (stray files in the output directory).
func DecodeBase(base string) (Capture, bool) {
	m := basePattern.FindStringSubmatch(base)
	if m == nil {
		return Capture{}, false
	}

	frame, err := strconv.Atoi(m[2])
	if err != nil {
		return Capture{}, false
	}
	ts, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return Capture{}, false
	}

	return Capture{VideoIdentity: m[1], FrameNumber: frame, Timestamp: ts}, true
}

// DecodeFilename is DecodeBase for a full image or label filename.
func DecodeFilename(name string) (Capture, bool) {
	return DecodeBase(strings.TrimSuffix(name, filepath.Ext(name)))
}
