package main

import (
	"path/filepath"
	"strings"

	"github.com/arma-tools/bisign-go/pkg/logging"
)

// effectiveLogLevel resolves --log-level, falling back to the
// BISIGN_LOG_LEVEL environment variable and finally "warn".
func effectiveLogLevel() string {
	if logLevel != "" {
		return logLevel
	}
	return logging.GetLogLevel()
}

// defaultSignaturePath mirrors the reference tool's convention:
// <pbo-basename>.pbo.<authority>.bisign next to the PBO, replacing
// whatever extension pboPath already has (typically ".pbo").
func defaultSignaturePath(pboPath, authority string) string {
	dir, file := filepath.Split(pboPath)
	if idx := strings.LastIndex(file, "."); idx > 0 {
		file = file[:idx]
	}
	return dir + file + ".pbo." + authority + ".bisign"
}
