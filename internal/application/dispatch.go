package application

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/devbush/vid2audio/internal/domain"
)

// ProgressFunc is called once per finished file with the number of files
// completed so far, the batch size and the file's outcome. Calls are serialized.
type ProgressFunc func(completed, total int, outcome domain.ConversionOutcome)

// BatchReport is the result of one Run
type BatchReport struct {
	domain.Tally
	Outcomes []domain.ConversionOutcome // input order
	Elapsed  time.Duration
}

// Failures returns the outcomes that did not produce output
func (r BatchReport) Failures() []domain.ConversionOutcome {
	var failed []domain.ConversionOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

func (s *ConvertService) workerCount(total int) int {
	n := s.workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Run converts every file into destDir using a bounded worker pool.
// A failing file never stops the others; each file is counted exactly once.
func (s *ConvertService) Run(ctx context.Context, files []string, destDir string, format domain.AudioFormat, onProgress ProgressFunc) BatchReport {
	total := len(files)
	if total == 0 {
		return BatchReport{}
	}

	workers := s.workerCount(total)
	s.logger.Info("conversion started",
		"files", total,
		"workers", workers,
		"format", format.String(),
		"dest", destDir,
	)
	start := time.Now()

	outcomes := make([]domain.ConversionOutcome, total)
	jobs := make(chan int)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		tally domain.Tally
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcome := s.convertOne(ctx, files[i], destDir, format)
				outcomes[i] = outcome

				mu.Lock()
				tally.Record(outcome)
				if onProgress != nil {
					onProgress(tally.Total(), total, outcome)
				}
				mu.Unlock()
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := BatchReport{
		Tally:    tally,
		Outcomes: outcomes,
		Elapsed:  time.Since(start),
	}
	s.logger.Info("conversion finished",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	return report
}

func (s *ConvertService) convertOne(ctx context.Context, source, destDir string, format domain.AudioFormat) (outcome domain.ConversionOutcome) {
	start := time.Now()
	outcome.Source = source

	defer func() {
		if r := recover(); r != nil {
			outcome.Output = ""
			outcome.Err = domain.NewFFmpegError(fmt.Sprintf("panic while converting %s: %v", source, r), nil)
		}
		outcome.Duration = time.Since(start)

		if outcome.Err != nil {
			s.logger.Debug("conversion failed", "source", source, "error", outcome.Err, "duration", outcome.Duration)
			return
		}
		s.logger.Debug("conversion succeeded", "source", source, "output", outcome.Output, "duration", outcome.Duration)
	}()

	output, err := s.transcoder.Convert(ctx, source, destDir, format)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Output = output
	return outcome
}
