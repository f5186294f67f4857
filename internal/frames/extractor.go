// Package frames samples single still frames out of video files with
// ffmpeg. Extraction always reads from the file at an exact timestamp,
// so the sampled pixels and the reported time cannot race the way a
// live playback surface can.
package frames

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/apperrors"
	"github.com/kvolkov/linejudge/internal/metrics"
)

type Extractor struct {
	ffmpegPath  string
	ffprobePath string
	tempDir     string
	quality     int
	logger      *zap.Logger
}

func NewExtractor(tempDir string, quality int, logger *zap.Logger) (*Extractor, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	// ffprobe is optional; Probe falls back to parsing ffmpeg output.
	ffprobePath, _ := exec.LookPath("ffprobe")

	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "linejudge-frames")
	}
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	if quality <= 0 || quality > 100 {
		quality = 95
	}

	logger.Info("frame extractor ready",
		zap.String("ffmpeg", ffmpegPath),
		zap.String("temp_dir", tempDir),
		zap.Int("jpeg_quality", quality))

	return &Extractor{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		tempDir:     tempDir,
		quality:     quality,
		logger:      logger,
	}, nil
}

// ProbeInfo carries the metadata the review UI needs up front.
type ProbeInfo struct {
	Duration float64
	Width    int
	Height   int
}

// Probe reads a video's duration and native pixel dimensions.
func (e *Extractor) Probe(ctx context.Context, videoPath string) (ProbeInfo, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return ProbeInfo{}, apperrors.Wrap(apperrors.KindLoadFailure, "video file not accessible", err)
	}

	if e.ffprobePath != "" {
		cmd := exec.CommandContext(ctx, e.ffprobePath,
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=width,height",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1",
			videoPath)

		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		if err := cmd.Run(); err == nil {
			if info, err := parseProbeOutput(stdout.String()); err == nil {
				return info, nil
			}
		}
	}

	// Fallback: scrape the Duration line out of ffmpeg stderr.
	cmd := exec.CommandContext(ctx, e.ffmpegPath, "-i", videoPath, "-f", "null", "-")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	_ = cmd.Run()

	duration, err := parseFFmpegDuration(stderr.String())
	if err != nil {
		return ProbeInfo{}, apperrors.Wrap(apperrors.KindLoadFailure, "could not determine video duration", err)
	}
	return ProbeInfo{Duration: duration}, nil
}

// ExtractAt decodes the frame at timestamp and re-encodes it as a JPEG
// at the extractor's quality. The frame keeps the video's native
// resolution. Failures never leave bytes behind: the temp file is
// removed and nothing is written to the output directory.
func (e *Extractor) ExtractAt(ctx context.Context, videoPath string, timestamp float64) ([]byte, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, apperrors.Wrap(apperrors.KindLoadFailure, "video file not accessible", err)
	}

	start := time.Now()
	defer func() {
		metrics.FrameExtractionDuration.Observe(time.Since(start).Seconds())
	}()

	tempFile := filepath.Join(e.tempDir, fmt.Sprintf("frame_%f.jpg", timestamp))
	defer os.Remove(tempFile)

	args := []string{
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", videoPath,
		"-vframes", "1",
		"-q:v", "2",
		"-f", "mjpeg",
		"-y",
		tempFile,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		e.logger.Debug("ffmpeg failed", zap.String("stderr", stderr.String()))
		return nil, apperrors.Wrap(apperrors.KindEncodeFailure,
			fmt.Sprintf("failed to extract frame at %.3fs", timestamp), err)
	}

	file, err := os.Open(tempFile)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncodeFailure, "failed to open extracted frame", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncodeFailure, "failed to decode frame", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, apperrors.New(apperrors.KindEncodeFailure, "decoded frame has zero dimensions")
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncodeFailure, "failed to encode frame", err)
	}
	if buf.Len() == 0 {
		return nil, apperrors.New(apperrors.KindEncodeFailure, "frame encoding produced no data")
	}

	return buf.Bytes(), nil
}

func (e *Extractor) Cleanup() error {
	return os.RemoveAll(e.tempDir)
}
