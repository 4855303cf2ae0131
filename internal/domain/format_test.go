package domain

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    AudioFormat
		wantErr bool
	}{
		{"1", FormatMP3, false},
		{"mp3", FormatMP3, false},
		{"MP3", FormatMP3, false},
		{"  Mp3 ", FormatMP3, false},
		{"2", FormatAACCopy, false},
		{"aac", FormatAACCopy, false},
		{"AAC", FormatAACCopy, false},
		{"aac-copy", FormatAACCopy, false},
		{"3", FormatOpus, false},
		{"opus", FormatOpus, false},
		{"OPUS", FormatOpus, false},
		{"4", 0, true},
		{"0", 0, true},
		{"xyz", 0, true},
		{"", 0, true},
		{"   ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_ErrorNamesToken(t *testing.T) {
	_, err := ParseFormat("xyz")
	if err == nil || !strings.Contains(err.Error(), `"xyz"`) {
		t.Errorf("ParseFormat(xyz) error = %v, want message naming the token", err)
	}
}

func TestAudioFormat_Extension(t *testing.T) {
	tests := []struct {
		format AudioFormat
		want   string
	}{
		{FormatMP3, "mp3"},
		{FormatAACCopy, "aac"},
		{FormatOpus, "opus"},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.want {
			t.Errorf("%v.Extension() = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestAudioFormat_Args(t *testing.T) {
	tests := []struct {
		format AudioFormat
		want   []string
	}{
		{FormatMP3, []string{"-q:a", "0"}},
		{FormatAACCopy, []string{"-c:a", "copy"}},
		{FormatOpus, []string{"-c:a", "libopus", "-b:a", "192k"}},
	}

	for _, tt := range tests {
		if got := tt.format.Args(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v.Args() = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestAudioFormat_ArgsNotShared(t *testing.T) {
	args := FormatOpus.Args()
	args[0] = "mutated"
	if FormatOpus.Args()[0] != "-c:a" {
		t.Error("Args() returned a shared slice")
	}
}

func TestAllFormats(t *testing.T) {
	formats := AllFormats()
	if len(formats) != 3 {
		t.Fatalf("AllFormats() returned %d formats, want 3", len(formats))
	}

	// Menu position n must resolve back to the same format
	for i, f := range formats {
		got, err := ParseFormat(string(rune('1' + i)))
		if err != nil {
			t.Fatalf("ParseFormat(%d) error = %v", i+1, err)
		}
		if got != f {
			t.Errorf("ParseFormat(%d) = %v, want %v", i+1, got, f)
		}
		if f.Description() == "" {
			t.Errorf("%v has empty description", f)
		}
		if !f.Valid() {
			t.Errorf("%v.Valid() = false", f)
		}
	}
}

func TestAudioFormat_StringRoundTrip(t *testing.T) {
	for _, f := range AllFormats() {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", f.String(), got, err, f)
		}
	}
	if AudioFormat(0).Valid() {
		t.Error("zero AudioFormat should not be valid")
	}
}

func TestOutputPath(t *testing.T) {
	dest := filepath.Join("root", OutputDirName)
	tests := []struct {
		source string
		format AudioFormat
		want   string
	}{
		{filepath.Join("root", "a.mp4"), FormatAACCopy, filepath.Join(dest, "a.aac")},
		{filepath.Join("root", "sub", "Clip.Final.MKV"), FormatMP3, filepath.Join(dest, "Clip.Final.mp3")},
		{filepath.Join("root", "talk.webm"), FormatOpus, filepath.Join(dest, "talk.opus")},
	}

	for _, tt := range tests {
		if got := OutputPath(tt.source, dest, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}
