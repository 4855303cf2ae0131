package application

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/devbush/vid2audio/internal/domain"
)

// Mock implementations for testing
type mockTranscoder struct {
	mu    sync.Mutex
	calls []string

	fail     map[string]bool // by base name
	panicOn  string
	delay    time.Duration
	checkErr error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (m *mockTranscoder) Convert(ctx context.Context, source, destDir string, f domain.AudioFormat) (string, error) {
	cur := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		seen := m.maxInFlight.Load()
		if cur <= seen || m.maxInFlight.CompareAndSwap(seen, cur) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, source)
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	base := filepath.Base(source)
	if base == m.panicOn {
		panic("decoder exploded")
	}
	if m.fail[base] {
		return "", domain.NewFFmpegError("exit status 1: "+base+": Invalid data found when processing input", nil)
	}
	return domain.OutputPath(source, destDir, f), nil
}

func (m *mockTranscoder) CheckAvailable(ctx context.Context) error {
	return m.checkErr
}

func (m *mockTranscoder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
