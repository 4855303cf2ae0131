package application

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/devbush/vid2audio/internal/ports"
)

// ConvertService discovers video files and converts them in parallel
type ConvertService struct {
	fs         afero.Fs
	transcoder ports.Transcoder
	workers    int // <= 0 means CPU count
	logger     *slog.Logger
}

// Option configures a ConvertService
type Option func(*ConvertService)

// WithWorkers sets the worker pool size. n <= 0 uses the CPU count.
func WithWorkers(n int) Option {
	return func(s *ConvertService) {
		s.workers = n
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *ConvertService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewConvertService creates a new conversion service
func NewConvertService(fs afero.Fs, transcoder ports.Transcoder, opts ...Option) *ConvertService {
	s := &ConvertService{
		fs:         fs,
		transcoder: transcoder,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckDependencies verifies the transcoding engine once before any work is dispatched
func (s *ConvertService) CheckDependencies(ctx context.Context) error {
	return s.transcoder.CheckAvailable(ctx)
}
