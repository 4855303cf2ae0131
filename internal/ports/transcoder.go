package ports

import (
	"context"

	"github.com/devbush/vid2audio/internal/domain"
)

// Transcoder extracts the audio track of a video file via an external engine
type Transcoder interface {
	// Convert writes the audio of source into destDir using format f and
	// returns the output path. Failures are *domain.Error values.
	Convert(ctx context.Context, source, destDir string, f domain.AudioFormat) (string, error)

	// CheckAvailable verifies that the engine can be executed
	CheckAvailable(ctx context.Context) error
}
