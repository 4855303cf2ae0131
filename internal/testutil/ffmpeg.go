// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Environment variables understood by the stub ffmpeg
const (
	// Basename of an input that makes the stub exit 1
	EnvFail = "STUB_FFMPEG_FAIL"
	// "1" makes the stub exit 0 without writing output
	EnvNoOutput = "STUB_FFMPEG_NO_OUTPUT"
	// "1" makes the stub write an empty output file
	EnvEmpty = "STUB_FFMPEG_EMPTY"
	// Path of a file the stub appends its argument list to
	EnvArgsLog = "STUB_FFMPEG_ARGS_LOG"
)

// StubFailureMessage is written to stderr by a failing stub invocation
const StubFailureMessage = "Invalid data found when processing input"

const stubScript = `#!/bin/sh
if [ "$1" = "-version" ]; then
    echo "ffmpeg version 6.1-stub Copyright (c) 2000-2023 the FFmpeg developers"
    echo "built with stub"
    exit 0
fi
if [ -n "$STUB_FFMPEG_ARGS_LOG" ]; then
    echo "$*" >> "$STUB_FFMPEG_ARGS_LOG"
fi
in=""
out=""
prev=""
for arg in "$@"; do
    if [ "$prev" = "-i" ]; then
        in="$arg"
    fi
    prev="$arg"
    out="$arg"
done
if [ -n "$STUB_FFMPEG_FAIL" ] && [ "$(basename "$in")" = "$STUB_FFMPEG_FAIL" ]; then
    echo "$in: ` + StubFailureMessage + `" >&2
    exit 1
fi
if [ "$STUB_FFMPEG_NO_OUTPUT" = "1" ]; then
    exit 0
fi
if [ "$STUB_FFMPEG_EMPTY" = "1" ]; then
    : > "$out"
    exit 0
fi
printf 'audio' > "$out"
`

// WriteStubFFmpeg writes an executable ffmpeg stand-in into dir and returns its path.
// The stub copies nothing: it writes a fixed payload to the last argument.
// Tests calling it are skipped on Windows.
func WriteStubFFmpeg(t testing.TB, dir string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub ffmpeg requires a POSIX shell")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(stubScript), 0o755); err != nil {
		t.Fatalf("write stub ffmpeg: %v", err)
	}
	return path
}

// WriteFiles creates each relative path under root with a small payload
func WriteFiles(t testing.TB, root string, names ...string) {
	t.Helper()

	for _, name := range names {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}
