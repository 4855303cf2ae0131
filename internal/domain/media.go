package domain

import (
	"path/filepath"
	"strings"
)

// OutputDirName is the directory created under a source root for converted files
const OutputDirName = "audio_exports"

// Input video extensions (lowercase, no dot)
var inputExtensions = []string{
	"mp4", "mkv", "avi", "mov", "webm", "flv", "wmv", "m4v", "3gp", "ts",
}

var inputExtensionSet = func() map[string]bool {
	m := make(map[string]bool, len(inputExtensions))
	for _, ext := range inputExtensions {
		m[ext] = true
	}
	return m
}()

// SupportedInputExtensions returns the recognised video extensions
func SupportedInputExtensions() []string {
	out := make([]string, len(inputExtensions))
	copy(out, inputExtensions)
	return out
}

// IsSupportedInput reports whether path has a recognised video extension.
// Matching is case-insensitive.
func IsSupportedInput(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	return inputExtensionSet[folder.String(ext)]
}

// CheckInput returns an UnsupportedFormat error when path is not a recognised video file
func CheckInput(path string) error {
	if IsSupportedInput(path) {
		return nil
	}
	return NewUnsupportedFormat("not a supported video file: " + filepath.Base(path))
}
