package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = ExpandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.CookiesFile, err = ExpandPath(strings.TrimSpace(c.Paths.CookiesFile)); err != nil {
		return fmt.Errorf("paths.cookies_file: %w", err)
	}
	if c.Paths.LogFile, err = ExpandPath(strings.TrimSpace(c.Paths.LogFile)); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	if c.Selection.KeywordsFile, err = ExpandPath(strings.TrimSpace(c.Selection.KeywordsFile)); err != nil {
		return fmt.Errorf("selection.keywords_file: %w", err)
	}

	c.Download.YtdlpPath = strings.TrimSpace(c.Download.YtdlpPath)
	c.Download.Format = strings.TrimSpace(c.Download.Format)
	if c.Download.Format == "" {
		c.Download.Format = defaultFormat
	}
	c.Download.Browsers = trimAll(c.Download.Browsers)

	if c.Transcribe.WhisperBin, err = expandToolPath(c.Transcribe.WhisperBin); err != nil {
		return fmt.Errorf("transcribe.whisper_bin: %w", err)
	}
	models := make([]string, 0, len(c.Transcribe.Models))
	for _, m := range trimAll(c.Transcribe.Models) {
		p, err := ExpandPath(m)
		if err != nil {
			return fmt.Errorf("transcribe.models: %w", err)
		}
		models = append(models, p)
	}
	c.Transcribe.Models = models
	if c.Transcribe.Language, err = normalizeLanguage(c.Transcribe.Language); err != nil {
		return fmt.Errorf("transcribe.language: %w", err)
	}

	if c.Render.FFmpegPath, err = expandToolPath(c.Render.FFmpegPath); err != nil {
		return fmt.Errorf("render.ffmpeg_path: %w", err)
	}
	if c.Render.FFprobePath, err = expandToolPath(c.Render.FFprobePath); err != nil {
		return fmt.Errorf("render.ffprobe_path: %w", err)
	}
	c.Render.Encoder = strings.ToLower(strings.TrimSpace(c.Render.Encoder))
	if c.Render.Encoder == "" {
		c.Render.Encoder = defaultEncoder
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// expandToolPath leaves bare command names for PATH lookup and expands
// anything that looks like a filesystem path.
func expandToolPath(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || !strings.ContainsAny(v, `/\~`) {
		return v, nil
	}
	return ExpandPath(v)
}

// normalizeLanguage reduces a BCP 47 tag to the base language code whisper
// expects. "auto" asks whisper to detect the language.
func normalizeLanguage(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "auto") {
		return "auto", nil
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", err
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", fmt.Errorf("unknown language %q", v)
	}
	return base.String(), nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
