package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSelection() error {
	s := c.Selection
	if s.Segments <= 0 {
		return errors.New("selection.segments must be > 0")
	}
	if s.MinSeconds < 0 {
		return errors.New("selection.min_seconds must be >= 0")
	}
	if s.MaxSeconds <= 0 {
		return errors.New("selection.max_seconds must be > 0")
	}
	if s.MinSeconds > s.MaxSeconds {
		return errors.New("selection.min_seconds must be <= selection.max_seconds")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Download.YtdlpPath == "" {
		return errors.New("download.ytdlp_path must be set")
	}
	if c.Transcribe.WhisperBin == "" {
		return errors.New("transcribe.whisper_bin must be set")
	}
	if len(c.Transcribe.Models) == 0 {
		return errors.New("transcribe.models must list at least one model")
	}
	if c.Transcribe.Threads < 0 {
		return errors.New("transcribe.threads must be >= 0")
	}
	if c.Render.FFmpegPath == "" {
		return errors.New("render.ffmpeg_path must be set")
	}
	switch c.Render.Encoder {
	case EncoderAuto, EncoderX264, EncoderNVENC:
	default:
		return fmt.Errorf("render.encoder: unsupported value %q (want %s, %s or %s)", c.Render.Encoder, EncoderAuto, EncoderX264, EncoderNVENC)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
