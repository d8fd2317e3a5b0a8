//go:build integration

package itest

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// speechMP4 renders text with espeak-ng and muxes it over a black frame.
func speechMP4(t *testing.T, dir, text string) string {
	t.Helper()

	wav := filepath.Join(dir, "speech.wav")
	cmd := exec.Command("espeak-ng", "-v", "pt", "-w", wav, text)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("espeak-ng failed: %v\n%s", err, string(b))
	}

	out := filepath.Join(dir, "input.mp4")
	ff := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "color=c=black:s=720x1280:d=60",
		"-i", wav,
		"-shortest",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		out,
	)
	if b, err := ff.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return out
}

func textFile(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, "not-media.txt")
	if err := os.WriteFile(p, []byte("this is not a video\n"), 0o644); err != nil {
		t.Fatalf("write text fixture: %v", err)
	}
	return p
}
