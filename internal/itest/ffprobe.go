//go:build integration

package itest

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// mediaInfo is the part of ffprobe's report the clip checks look at.
type mediaInfo struct {
	Duration float64
	Video    bool
	Audio    bool
}

func probeMedia(path string) (mediaInfo, error) {
	b, err := exec.Command("ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	).Output()
	if err != nil {
		return mediaInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var report struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(b, &report); err != nil {
		return mediaInfo{}, fmt.Errorf("decode ffprobe report: %w", err)
	}

	var info mediaInfo
	info.Duration, err = strconv.ParseFloat(report.Format.Duration, 64)
	if err != nil {
		return mediaInfo{}, fmt.Errorf("parse duration %q: %w", report.Format.Duration, err)
	}
	for _, s := range report.Streams {
		switch s.CodecType {
		case "video":
			info.Video = true
		case "audio":
			info.Audio = true
		}
	}
	return info, nil
}
