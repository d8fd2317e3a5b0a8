//go:build integration

package itest

import (
	"errors"
	"path/filepath"
	"runtime"
)

// moduleRoot is where `go run ./cmd/viralcut` must be invoked from. The tests
// live two directories below it.
func moduleRoot() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("locate itest sources")
	}
	return filepath.Join(filepath.Dir(file), "..", ".."), nil
}
