package application

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/devbush/vid2audio/internal/domain"
)

func sourceList(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = filepath.Join("videos", fmt.Sprintf("clip%03d.mp4", i))
	}
	return files
}

type progressRecorder struct {
	mu         sync.Mutex
	completed  []int
	totals     []int
	outcomes   []domain.ConversionOutcome
	active     atomic.Int32
	overlapped atomic.Bool
}

func (p *progressRecorder) record(completed, total int, outcome domain.ConversionOutcome) {
	if p.active.Add(1) > 1 {
		p.overlapped.Store(true)
	}
	defer p.active.Add(-1)
	// Widen the window for overlapping calls
	time.Sleep(100 * time.Microsecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.completed = append(p.completed, completed)
	p.totals = append(p.totals, total)
	p.outcomes = append(p.outcomes, outcome)
}

func TestRun_EmptyList(t *testing.T) {
	tr := &mockTranscoder{}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(4))

	called := false
	report := svc.Run(context.Background(), nil, "out", domain.FormatMP3, func(int, int, domain.ConversionOutcome) {
		called = true
	})

	if report.Succeeded != 0 || report.Failed != 0 {
		t.Errorf("Run() tally = %+v, want (0, 0)", report.Tally)
	}
	if called {
		t.Error("onProgress called for an empty batch")
	}
	if tr.callCount() != 0 {
		t.Errorf("transcoder called %d times, want 0", tr.callCount())
	}
}

func TestRun_CountsIndependentOfWorkers(t *testing.T) {
	files := sourceList(25)
	fail := map[string]bool{
		"clip003.mp4": true,
		"clip011.mp4": true,
		"clip024.mp4": true,
	}

	for _, workers := range []int{1, 2, 8, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			tr := &mockTranscoder{fail: fail}
			svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(workers))

			report := svc.Run(context.Background(), files, "out", domain.FormatAACCopy, nil)

			if report.Succeeded != 22 || report.Failed != 3 {
				t.Errorf("Run() tally = %+v, want {Succeeded:22 Failed:3}", report.Tally)
			}
			if report.Total() != len(files) {
				t.Errorf("Total() = %d, want %d", report.Total(), len(files))
			}
			if tr.callCount() != len(files) {
				t.Errorf("transcoder called %d times, want %d", tr.callCount(), len(files))
			}
		})
	}
}

func TestRun_ProgressProtocol(t *testing.T) {
	files := sourceList(40)
	tr := &mockTranscoder{
		fail:  map[string]bool{"clip007.mp4": true},
		delay: time.Millisecond,
	}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(8))

	rec := &progressRecorder{}
	svc.Run(context.Background(), files, "out", domain.FormatMP3, rec.record)

	if len(rec.completed) != len(files) {
		t.Fatalf("onProgress called %d times, want %d", len(rec.completed), len(files))
	}
	for i, c := range rec.completed {
		if c != i+1 {
			t.Fatalf("onProgress call %d got completed=%d, want %d", i, c, i+1)
		}
		if rec.totals[i] != len(files) {
			t.Fatalf("onProgress call %d got total=%d, want %d", i, rec.totals[i], len(files))
		}
	}
	if rec.overlapped.Load() {
		t.Error("onProgress calls overlapped")
	}

	seen := make(map[string]bool)
	for _, o := range rec.outcomes {
		if seen[o.Source] {
			t.Errorf("outcome for %s reported twice", o.Source)
		}
		seen[o.Source] = true
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	files := []string{
		filepath.Join("v", "a.mp4"),
		filepath.Join("v", "bad.mkv"),
		filepath.Join("v", "c.mov"),
	}
	tr := &mockTranscoder{fail: map[string]bool{"bad.mkv": true}}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(3))

	report := svc.Run(context.Background(), files, "out", domain.FormatOpus, nil)

	if report.Succeeded != 2 || report.Failed != 1 {
		t.Fatalf("Run() tally = %+v, want {Succeeded:2 Failed:1}", report.Tally)
	}

	// Outcomes keep input order
	for i, o := range report.Outcomes {
		if o.Source != files[i] {
			t.Errorf("Outcomes[%d].Source = %s, want %s", i, o.Source, files[i])
		}
	}
	if !errors.Is(report.Outcomes[1].Err, domain.ErrFFmpeg) {
		t.Errorf("bad.mkv error = %v, want ErrFFmpeg", report.Outcomes[1].Err)
	}
	if report.Outcomes[0].Output != filepath.Join("out", "a.opus") {
		t.Errorf("a.mp4 output = %s", report.Outcomes[0].Output)
	}
	if report.Outcomes[2].Output != filepath.Join("out", "c.opus") {
		t.Errorf("c.mov output = %s", report.Outcomes[2].Output)
	}

	failures := report.Failures()
	if len(failures) != 1 || failures[0].Source != files[1] {
		t.Errorf("Failures() = %v", failures)
	}
}

func TestRun_PanicRecovered(t *testing.T) {
	files := sourceList(5)
	tr := &mockTranscoder{panicOn: "clip002.mp4"}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(2))

	report := svc.Run(context.Background(), files, "out", domain.FormatMP3, nil)

	if report.Succeeded != 4 || report.Failed != 1 {
		t.Fatalf("Run() tally = %+v, want {Succeeded:4 Failed:1}", report.Tally)
	}
	o := report.Outcomes[2]
	if !errors.Is(o.Err, domain.ErrFFmpeg) || o.Output != "" {
		t.Errorf("panicking outcome = %+v, want FFmpeg failure without output", o)
	}
}

func TestRun_BoundedConcurrency(t *testing.T) {
	files := sourceList(30)
	tr := &mockTranscoder{delay: 2 * time.Millisecond}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(3))

	svc.Run(context.Background(), files, "out", domain.FormatMP3, nil)

	if got := tr.maxInFlight.Load(); got > 3 {
		t.Errorf("max concurrent conversions = %d, want <= 3", got)
	}
}

func TestRun_CancelledContextCountsEveryFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := sourceList(6)
	tr := &mockTranscoder{}
	svc := NewConvertService(afero.NewMemMapFs(), tr, WithWorkers(2))

	var calls int
	report := svc.Run(ctx, files, "out", domain.FormatMP3, func(int, int, domain.ConversionOutcome) { calls++ })

	if report.Total() != len(files) || calls != len(files) {
		t.Errorf("Total() = %d, progress calls = %d, want %d", report.Total(), calls, len(files))
	}
}

func TestWorkerCount(t *testing.T) {
	tests := []struct {
		workers int
		total   int
		want    int
	}{
		{4, 10, 4},
		{16, 3, 3},
		{1, 100, 1},
	}

	for _, tt := range tests {
		svc := NewConvertService(afero.NewMemMapFs(), &mockTranscoder{}, WithWorkers(tt.workers))
		if got := svc.workerCount(tt.total); got != tt.want {
			t.Errorf("workerCount(%d) with %d workers = %d, want %d", tt.total, tt.workers, got, tt.want)
		}
	}

	svc := NewConvertService(afero.NewMemMapFs(), &mockTranscoder{})
	if got := svc.workerCount(1); got != 1 {
		t.Errorf("default workerCount(1) = %d, want 1", got)
	}
	if got := svc.workerCount(1 << 20); got < 1 {
		t.Errorf("default workerCount() = %d, want >= 1", got)
	}
}

func TestCheckDependencies(t *testing.T) {
	missing := domain.NewMissingDependency("ffmpeg not found", nil)
	svc := NewConvertService(afero.NewMemMapFs(), &mockTranscoder{checkErr: missing})

	if err := svc.CheckDependencies(context.Background()); !errors.Is(err, domain.ErrMissingDependency) {
		t.Errorf("CheckDependencies() = %v, want ErrMissingDependency", err)
	}
}
