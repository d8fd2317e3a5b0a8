// Package config loads viralcut settings from TOML, applies VIRALCUT_*
// environment overrides, and validates the result.
package config
