package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/devbush/vid2audio/internal/config"
	"github.com/devbush/vid2audio/internal/domain"
	"github.com/devbush/vid2audio/internal/ports"
)

// MaxStderrLen bounds, in bytes, the diagnostic output carried by an FFmpeg error.
// The bound includes the ellipsis marking a cut.
const MaxStderrLen = 1024

const ellipsis = "…"

const checkTimeout = 10 * time.Second

var _ ports.Transcoder = (*Transcoder)(nil)

// Transcoder implements ports.Transcoder by running the ffmpeg binary
type Transcoder struct {
	configured string

	resolveOnce sync.Once
	binPath     string

	checkOnce sync.Once
	version   string
	checkErr  error
}

// NewTranscoder creates a transcoder. binPath overrides binary lookup when set.
func NewTranscoder(binPath string) *Transcoder {
	return &Transcoder{configured: binPath}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (t *Transcoder) findBinary() string {
	if t.configured != "" {
		if path, err := exec.LookPath(t.configured); err == nil {
			return path
		}
		return ""
	}

	// Check bundled location first
	bundled := filepath.Join(config.BinDir(), binaryName())
	if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
		return bundled
	}

	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

// BinaryPath returns the resolved ffmpeg path, or "" when none was found
func (t *Transcoder) BinaryPath() string {
	t.resolveOnce.Do(func() {
		t.binPath = t.findBinary()
	})
	return t.binPath
}

// CheckAvailable runs "ffmpeg -version" once per transcoder and caches the result
func (t *Transcoder) CheckAvailable(ctx context.Context) error {
	t.checkOnce.Do(func() {
		t.version, t.checkErr = t.probe(ctx)
	})
	return t.checkErr
}

// Version returns the first line of "ffmpeg -version"
func (t *Transcoder) Version(ctx context.Context) (string, error) {
	if err := t.CheckAvailable(ctx); err != nil {
		return "", err
	}
	return t.version, nil
}

func (t *Transcoder) probe(ctx context.Context) (string, error) {
	bin := t.BinaryPath()
	if bin == "" {
		return "", t.missing(nil)
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "-version").Output()
	if err != nil {
		return "", t.missing(err)
	}

	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = strings.TrimSpace(firstLine[:idx])
	}
	return firstLine, nil
}

func (t *Transcoder) missing(err error) error {
	what := "ffmpeg not found"
	if t.configured != "" {
		what = fmt.Sprintf("ffmpeg not usable at %s", t.configured)
	} else if err != nil {
		what = "ffmpeg could not be executed"
	}
	return domain.NewMissingDependency(what+"; "+InstallInstructions(), err)
}

// InstallInstructions returns how to install ffmpeg on this platform
func InstallInstructions() string {
	return installInstructions(runtime.GOOS)
}

func installInstructions(goos string) string {
	switch goos {
	case "darwin":
		return "install it with: brew install ffmpeg"
	case "windows":
		return "install it with: choco install ffmpeg (or download from https://ffmpeg.org/download.html)"
	default:
		return "install it with your package manager, e.g.: sudo apt install ffmpeg"
	}
}

// BuildArgs returns the ffmpeg arguments converting source into output
func BuildArgs(source, output string, f domain.AudioFormat) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", source, "-vn"}
	args = append(args, f.Args()...)
	return append(args, output)
}

// Convert extracts the audio of source into destDir
func (t *Transcoder) Convert(ctx context.Context, source, destDir string, f domain.AudioFormat) (string, error) {
	info, err := os.Stat(source)
	if err != nil || info.IsDir() {
		return "", domain.NewInvalidPath("source file does not exist: " + source)
	}

	bin := t.BinaryPath()
	if bin == "" {
		return "", t.missing(nil)
	}

	output := domain.OutputPath(source, destDir, f)
	partial, err := partialOutput(output)
	if err != nil {
		return "", domain.NewIOError("failed to create output in "+destDir, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(partial)
		}
	}()

	cmd := exec.CommandContext(ctx, bin, BuildArgs(source, partial, f)...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return "", runError(ctx, err, stderrBuf.String())
	}

	out, err := os.Stat(partial)
	if err != nil || out.Size() == 0 {
		return "", domain.NewFFmpegError("engine reported success but produced no output", nil)
	}

	if err := os.Chmod(partial, 0o644); err != nil {
		return "", domain.NewIOError("failed to finalize "+output, err)
	}
	if err := os.Rename(partial, output); err != nil {
		return "", domain.NewIOError("failed to finalize "+output, err)
	}
	committed = true

	return output, nil
}

// partialOutput reserves a uniquely named hidden file next to output.
// The name keeps output's extension so ffmpeg still picks the right muxer.
func partialOutput(output string) (string, error) {
	dir, base := filepath.Split(output)
	ext := filepath.Ext(base)
	f, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, ext)+".*.part"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

func runError(ctx context.Context, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.NewFFmpegError("interrupted", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := exitErr.Error()
		if tail := truncate(strings.TrimSpace(stderr), MaxStderrLen); tail != "" {
			msg += ": " + tail
		}
		return domain.NewFFmpegError(msg, nil)
	}
	return domain.NewFFmpegError("failed to run ffmpeg", err)
}

// truncate keeps the tail of s within max bytes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	keep := max - len(ellipsis)
	if keep <= 0 {
		return ""
	}
	tail := s[len(s)-keep:]
	// Avoid starting mid-rune
	for i := 0; i < len(tail) && i < 4; i++ {
		if tail[i]&0xC0 != 0x80 {
			tail = tail[i:]
			break
		}
	}
	return ellipsis + tail
}
