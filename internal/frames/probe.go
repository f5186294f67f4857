package frames

import (
	"fmt"
	"strconv"
	"strings"
)

// parseProbeOutput reads ffprobe's default key=value output, e.g.
//
//	width=1920
//	height=1080
//	duration=93.440000
func parseProbeOutput(output string) (ProbeInfo, error) {
	var info ProbeInfo
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found {
			continue
		}
		switch key {
		case "width":
			info.Width, _ = strconv.Atoi(value)
		case "height":
			info.Height, _ = strconv.Atoi(value)
		case "duration":
			info.Duration, _ = strconv.ParseFloat(value, 64)
		}
	}

	if info.Duration <= 0 {
		return ProbeInfo{}, fmt.Errorf("no usable duration in ffprobe output")
	}
	return info, nil
}

// parseFFmpegDuration scrapes "Duration: HH:MM:SS.cc," out of ffmpeg's
// stderr banner.
func parseFFmpegDuration(output string) (float64, error) {
	const prefix = "Duration: "
	start := strings.Index(output, prefix)
	if start == -1 {
		return 0, fmt.Errorf("duration not found in ffmpeg output")
	}
	start += len(prefix)

	end := strings.Index(output[start:], ",")
	if end == -1 {
		return 0, fmt.Errorf("invalid duration format")
	}

	parts := strings.Split(output[start:start+end], ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s", output[start:start+end])
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}

	return hours*3600 + minutes*60 + seconds, nil
}
