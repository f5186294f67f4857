// Command capture saves one labeled frame from the command line, using
// the same writer as the web UI. Handy for scripting a batch of known
// timestamps.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kvolkov/linejudge/internal/annotation"
	"github.com/kvolkov/linejudge/internal/frames"
)

func main() {
	var (
		videoPath = flag.String("video", "", "Path to the video file")
		timestamp = flag.Float64("t", -1, "Timestamp in seconds")
		fps       = flag.Float64("fps", 30, "Frames-per-second divisor")
		label     = flag.String("label", "", "Label: ball_in or ball_out")
		outDir    = flag.String("out", ".", "Output directory")
		quality   = flag.Int("quality", 95, "JPEG quality (1-100)")
	)
	flag.Parse()

	if *videoPath == "" || *timestamp < 0 {
		log.Fatal("Please provide -video and -t")
	}
	if !annotation.ValidLabel(*label) {
		log.Fatalf("Label must be %s or %s", annotation.LabelBallIn, annotation.LabelBallOut)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	extractor, err := frames.NewExtractor("", *quality, logger)
	if err != nil {
		log.Fatal("Failed to initialize frame extractor: ", err)
	}
	defer extractor.Cleanup()

	imageData, err := extractor.ExtractAt(context.Background(), *videoPath, *timestamp)
	if err != nil {
		log.Fatal("Failed to extract frame: ", err)
	}

	store := annotation.NewStore(*outDir)
	writer := annotation.NewWriter(store, logger)

	identity := annotation.SanitizeIdentity(filepath.Base(*videoPath))
	c, err := writer.Capture(identity, *timestamp, *fps, *label, imageData)
	if err != nil {
		log.Fatal("Failed to save capture: ", err)
	}

	fmt.Printf("Saved %s (%s)\n", c.ImageFilename(), *label)
}
