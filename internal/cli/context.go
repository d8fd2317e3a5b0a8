package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/forPelevin/viralcut/internal/config"
	"github.com/forPelevin/viralcut/internal/logging"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag   string
	workDirFlag  string
	logLevelFlag string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce  sync.Once
	logger      *slog.Logger
	loggerClose func() error
	loggerErr   error
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if wd := strings.TrimSpace(c.workDirFlag); wd != "" {
			expanded, err := config.ExpandPath(wd)
			if err != nil {
				c.configErr = fmt.Errorf("resolve workdir: %w", err)
				return
			}
			cfg.Paths.WorkDir = expanded
		}
		if lvl := strings.TrimSpace(c.logLevelFlag); lvl != "" {
			cfg.Logging.Level = strings.ToLower(lvl)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config, c.configPath, c.configSeen = cfg, path, exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerClose, c.loggerErr = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Writer: os.Stderr,
			File:   cfg.Paths.LogFile,
		})
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) close() error {
	if c.loggerClose == nil {
		return nil
	}
	return c.loggerClose()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
