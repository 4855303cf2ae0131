package domain

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
)

// AudioFormat is the closed set of output formats
type AudioFormat int

const (
	FormatMP3 AudioFormat = iota + 1
	FormatAACCopy
	FormatOpus
)

// AllFormats returns every supported output format in menu order
func AllFormats() []AudioFormat {
	return []AudioFormat{FormatMP3, FormatAACCopy, FormatOpus}
}

var folder = cases.Fold()

// ParseFormat resolves a 1-based menu index or a case-insensitive format name
func ParseFormat(input string) (AudioFormat, error) {
	token := folder.String(strings.TrimSpace(input))
	switch token {
	case "1", "mp3":
		return FormatMP3, nil
	case "2", "aac", "aac-copy":
		return FormatAACCopy, nil
	case "3", "opus":
		return FormatOpus, nil
	}
	return 0, NewInvalidInput(fmt.Sprintf("unsupported audio format %q (choose 1-%d or one of mp3, aac, opus)", input, len(AllFormats())))
}

// Extension returns the output file extension without the leading dot
func (f AudioFormat) Extension() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatAACCopy:
		return "aac"
	case FormatOpus:
		return "opus"
	}
	panic(fmt.Sprintf("domain: unknown audio format %d", int(f)))
}

// Args returns the ffmpeg audio arguments for the format.
// The returned slice is owned by the caller.
func (f AudioFormat) Args() []string {
	switch f {
	case FormatMP3:
		// VBR, highest quality
		return []string{"-q:a", "0"}
	case FormatAACCopy:
		return []string{"-c:a", "copy"}
	case FormatOpus:
		return []string{"-c:a", "libopus", "-b:a", "192k"}
	}
	panic(fmt.Sprintf("domain: unknown audio format %d", int(f)))
}

// Description returns a human-readable label for menus and listings
func (f AudioFormat) Description() string {
	switch f {
	case FormatMP3:
		return "MP3 (high quality VBR, best compatibility)"
	case FormatAACCopy:
		return "AAC (stream copy, fastest, no re-encoding)"
	case FormatOpus:
		return "Opus (modern codec, 192 kbit/s)"
	}
	panic(fmt.Sprintf("domain: unknown audio format %d", int(f)))
}

// String returns the canonical name token accepted by ParseFormat
func (f AudioFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("AudioFormat(%d)", int(f))
	}
	return f.Extension()
}

// Valid reports whether f is one of the declared formats
func (f AudioFormat) Valid() bool {
	return f >= FormatMP3 && f <= FormatOpus
}

// OutputPath builds the destination path for source: the source base name
// with its extension replaced by the format's, placed in destDir.
func OutputPath(source, destDir string, f AudioFormat) string {
	base := filepath.Base(source)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(destDir, stem+"."+f.Extension())
}
