package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/forPelevin/viralcut/internal/ports/adapters/proc"
)

var (
	ErrInvalidURL   = errors.New("ytdlp: invalid url")
	ErrAuthRequired = errors.New("ytdlp: authentication required")
)

const manualCookieHint = `no cookie source worked. Export cookies manually:
  1. open a private window and sign in to YouTube
  2. navigate to https://www.youtube.com/robots.txt
  3. export the cookies with a cookies.txt browser extension
  4. save the file as %s
  5. run again`

type Options struct {
	Bin         string
	Format      string
	Browsers    []string
	CookiesFile string
	Logger      *slog.Logger
}

type Adapter struct {
	bin         string
	format      string
	browsers    []string
	cookiesFile string
	logger      *slog.Logger
	run         proc.Runner
}

func New(opts Options) *Adapter {
	a := &Adapter{
		bin:         opts.Bin,
		format:      opts.Format,
		browsers:    opts.Browsers,
		cookiesFile: opts.CookiesFile,
		logger:      opts.Logger,
		run:         proc.Exec,
	}
	if a.bin == "" {
		a.bin = "yt-dlp"
	}
	if a.format == "" {
		a.format = "bestvideo+bestaudio/best"
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	return a
}

type cookieSource struct {
	browser string
	file    string
}

func (s cookieSource) String() string {
	switch {
	case s.browser != "":
		return s.browser
	case s.file != "":
		return "cookies file"
	default:
		return "no cookies"
	}
}

func (s cookieSource) args() []string {
	switch {
	case s.browser != "":
		return []string{"--cookies-from-browser", s.browser}
	case s.file != "":
		return []string{"--cookies", s.file}
	default:
		return nil
	}
}

// sources lists cookie sources in the order they are tried. The cookies file
// is only offered when it exists; the anonymous attempt always comes last.
func (a *Adapter) sources() []cookieSource {
	out := make([]cookieSource, 0, len(a.browsers)+2)
	for _, b := range a.browsers {
		out = append(out, cookieSource{browser: b})
	}
	if a.cookiesFile != "" {
		if info, err := os.Stat(a.cookiesFile); err == nil && !info.IsDir() {
			out = append(out, cookieSource{file: a.cookiesFile})
		}
	}
	return append(out, cookieSource{})
}

func (a *Adapter) downloadArgs(url, outPath string, src cookieSource) []string {
	args := []string{
		"-f", a.format,
		"--merge-output-format", "mp4",
		"--remux-video", "mp4",
		"--postprocessor-args", "ffmpeg:-movflags faststart",
		"--no-playlist",
		"--no-warnings",
		"--force-overwrites",
		"-o", outPath,
		"--print", "after_move:filepath",
	}
	args = append(args, src.args()...)
	return append(args, "--", url)
}

// Download tries every cookie source in turn. An invalid URL fails
// immediately; any other failure moves on to the next source.
func (a *Adapter) Download(ctx context.Context, url, outPath string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidURL)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	var errs []error
	for _, src := range a.sources() {
		a.logger.Info("downloading video", logging.String("cookies", src.String()))
		stdout, stderr, err := a.run(ctx, a.bin, a.downloadArgs(url, outPath, src)...)
		if err == nil {
			path := lastLine(stdout)
			if path == "" {
				path = outPath
			}
			a.logger.Info("download complete",
				logging.String("cookies", src.String()),
				logging.String("path", path),
			)
			return path, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		msg := strings.TrimSpace(string(stderr))
		if isInvalidURL(msg) {
			return "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
		}
		a.logger.Warn("download attempt failed",
			logging.String("cookies", src.String()),
			logging.String("reason", failureReason(msg)),
		)
		errs = append(errs, fmt.Errorf("%s: %w: %s", src, err, msg))
	}

	hint := fmt.Sprintf(manualCookieHint, a.cookiesFileName())
	return "", fmt.Errorf("%w: %w\n%s", ErrAuthRequired, errors.Join(errs...), hint)
}

// ExportCookies writes the browser's cookies for url into a Netscape cookies
// file without downloading anything.
func (a *Adapter) ExportCookies(ctx context.Context, browser, url, outPath string) error {
	if strings.TrimSpace(browser) == "" {
		return errors.New("ytdlp: browser is required")
	}
	args := []string{
		"--cookies-from-browser", browser,
		"--cookies", outPath,
		"--skip-download",
		"--no-warnings",
		"--", url,
	}
	_, stderr, err := a.run(ctx, a.bin, args...)
	if err != nil {
		return fmt.Errorf("yt-dlp export cookies from %s: %w\n%s", browser, err, string(stderr))
	}
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("yt-dlp export cookies: %w", err)
	}
	return nil
}

func (a *Adapter) cookiesFileName() string {
	if a.cookiesFile == "" {
		return "cookies.txt"
	}
	return a.cookiesFile
}

func isInvalidURL(msg string) bool {
	return strings.Contains(msg, "is not a valid URL") || strings.Contains(msg, "Unsupported URL")
}

func failureReason(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "could not find") && strings.Contains(lower, "cookies database"):
		return "cookie database not found"
	case strings.Contains(msg, "Sign in to confirm"):
		return "bot check"
	case strings.Contains(lower, "cookies"):
		return "cookies rejected"
	case msg == "":
		return "unknown"
	default:
		return "unexpected error"
	}
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
