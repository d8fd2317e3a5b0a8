package config

const (
	defaultConfigPath  = "~/.config/viralcut/config.toml"
	projectConfigName  = "viralcut.toml"
	defaultWorkDir     = "."
	defaultYtdlpPath   = "yt-dlp"
	defaultFormat      = "bestvideo+bestaudio/best"
	defaultWhisperBin  = ".cache/bin/whisper.cpp"
	defaultLanguage    = "pt"
	defaultSegments    = 3
	defaultMinSeconds  = 15
	defaultMaxSeconds  = 60
	defaultFFmpegPath  = "ffmpeg"
	defaultFFprobePath = "ffprobe"
	defaultEncoder     = EncoderAuto
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

const (
	EncoderAuto  = "auto"
	EncoderX264  = "libx264"
	EncoderNVENC = "h264_nvenc"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:     defaultWorkDir,
			CookiesFile: "cookies.txt",
		},
		Download: Download{
			YtdlpPath: defaultYtdlpPath,
			Format:    defaultFormat,
			Browsers:  []string{"firefox", "chrome", "edge"},
		},
		Transcribe: Transcribe{
			WhisperBin: defaultWhisperBin,
			Models: []string{
				".cache/models/ggml-tiny.bin",
				".cache/models/ggml-base.bin",
				".cache/models/ggml-small.bin",
			},
			Language: defaultLanguage,
		},
		Selection: Selection{
			Segments:   defaultSegments,
			MinSeconds: defaultMinSeconds,
			MaxSeconds: defaultMaxSeconds,
		},
		Render: Render{
			FFmpegPath:    defaultFFmpegPath,
			FFprobePath:   defaultFFprobePath,
			Encoder:       defaultEncoder,
			BurnSubtitles: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
