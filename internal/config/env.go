package config

import (
	"strconv"
	"strings"
)

type lookupFunc func(string) (string, bool)

// applyEnv overlays VIRALCUT_* variables. Unparseable numbers are ignored so
// Validate reports the file value instead.
func (c *Config) applyEnv(lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("VIRALCUT_WORK_DIR", &c.Paths.WorkDir)
	str("VIRALCUT_COOKIES_FILE", &c.Paths.CookiesFile)
	str("VIRALCUT_LOG_FILE", &c.Paths.LogFile)
	str("VIRALCUT_YTDLP", &c.Download.YtdlpPath)
	str("VIRALCUT_WHISPER_BIN", &c.Transcribe.WhisperBin)
	str("VIRALCUT_LANGUAGE", &c.Transcribe.Language)
	str("VIRALCUT_FFMPEG", &c.Render.FFmpegPath)
	str("VIRALCUT_FFPROBE", &c.Render.FFprobePath)
	str("VIRALCUT_ENCODER", &c.Render.Encoder)
	str("VIRALCUT_KEYWORDS_FILE", &c.Selection.KeywordsFile)
	str("VIRALCUT_LOG_LEVEL", &c.Logging.Level)
	str("VIRALCUT_LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("VIRALCUT_WHISPER_MODEL"); ok && strings.TrimSpace(v) != "" {
		c.Transcribe.Models = []string{strings.TrimSpace(v)}
	}
	if v, ok := lookup("VIRALCUT_SEGMENTS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Selection.Segments = n
		}
	}
	if v, ok := lookup("VIRALCUT_BURN_SUBTITLES"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Render.BurnSubtitles = b
		}
	}
}
