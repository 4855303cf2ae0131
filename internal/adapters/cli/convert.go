package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/devbush/vid2audio/internal/adapters/cli/tui"
	"github.com/devbush/vid2audio/internal/application"
	"github.com/devbush/vid2audio/internal/domain"
)

const (
	stepDeps = iota
	stepScan
	stepOutput
)

func progressMode(out io.Writer, opts convertOptions) tui.ProgressMode {
	switch {
	case opts.Quiet:
		return tui.ProgressQuiet
	case opts.Verbose || !tui.IsTerminal(out):
		return tui.ProgressLines
	}
	return tui.ProgressRedraw
}

func runConvert(ctx context.Context, out io.Writer, app *App, opts convertOptions) error {
	runID := uuid.NewString()
	logger := app.Logger.With("run", runID)
	mode := progressMode(out, opts)

	svc := application.NewConvertService(app.Fs, app.Transcoder,
		application.WithWorkers(opts.Jobs),
		application.WithLogger(logger),
	)

	if abs, err := filepath.Abs(opts.Source); err == nil {
		opts.Source = abs
	}

	steps := tui.NewStepDisplay(out, mode,
		"Checking ffmpeg",
		"Scanning "+opts.Source,
		"Preparing output directory",
	)

	// Step 1: dependencies are checked once, before any work
	steps.StartStep(stepDeps)
	if err := svc.CheckDependencies(ctx); err != nil {
		steps.FailStep(stepDeps, "not found")
		return err
	}
	version, _ := app.Transcoder.Version(ctx)
	steps.CompleteStep(stepDeps, version)

	// Step 2: discovery
	steps.StartStep(stepScan)
	files, err := svc.Discover(opts.Source)
	if err != nil {
		steps.FailStep(stepScan, tui.ShortError(err))
		return err
	}
	steps.CompleteStep(stepScan, fmt.Sprintf("%d video files", len(files)))

	rememberSource(app, opts)

	// Step 3: output directory
	steps.StartStep(stepOutput)
	dest := opts.Output
	if dest == "" {
		dest, err = svc.EnsureOutputDir(opts.Source)
	} else {
		if abs, absErr := filepath.Abs(dest); absErr == nil {
			dest = abs
		}
		err = svc.EnsureDir(dest)
	}
	if err != nil {
		steps.FailStep(stepOutput, tui.ShortError(err))
		return err
	}
	steps.CompleteStep(stepOutput, dest)

	pending := files
	var skipped []string
	if opts.SkipExisting {
		pending, skipped = svc.PartitionExisting(files, dest, opts.Format)
		logger.Info("skipping existing outputs", "skipped", len(skipped), "pending", len(pending))
	}

	warnCollisions(out, app, svc.OutputCollisions(pending, dest, opts.Format), opts)

	if len(pending) == 0 {
		if !opts.Quiet {
			if len(files) == 0 {
				fmt.Fprintf(out, "\nNo video files found in %s\n", opts.Source)
			} else {
				fmt.Fprintf(out, "\nNothing to convert: all %d outputs already exist\n", len(skipped))
			}
		}
		return nil
	}

	if !opts.Quiet {
		fmt.Fprintf(out, "\nConverting %d files to %s with %d workers\n\n", len(pending), opts.Format, min(opts.Jobs, len(pending)))
	}

	progress := tui.NewBatchProgress(out, opts.Source, len(pending), mode)
	report := svc.Run(ctx, pending, dest, opts.Format, progress.Update)

	progress.Complete(tui.Summary{
		Succeeded:  report.Succeeded,
		Failed:     report.Failed,
		Skipped:    len(skipped),
		Elapsed:    report.Elapsed,
		OutputDir:  dest,
		OutputSize: outputSize(app, report),
	})
	if opts.Verbose {
		printOutcomes(out, opts.Source, report)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", report.Failed, report.Total())
	}
	return nil
}

// rememberSource records the source directory and, when asked, the run's
// settings as defaults. Failures here never fail the run.
func rememberSource(app *App, opts convertOptions) {
	app.Config.AddRecentSourceDir(opts.Source)
	if opts.SaveConfig {
		app.Config.Defaults.Format = opts.Format.String()
		app.Config.Defaults.SkipExisting = opts.SkipExisting
		if opts.JobsSet {
			app.Config.Defaults.Jobs = opts.Jobs
		}
	}

	if err := app.SaveConfig(); err != nil {
		app.Logger.Warn("failed to save config", "path", app.ConfigPath, "error", err)
		return
	}
	if opts.SaveConfig {
		app.Logger.Info("saved defaults", "path", app.ConfigPath)
	}
}

func warnCollisions(out io.Writer, app *App, collisions []application.Collision, opts convertOptions) {
	if len(collisions) == 0 {
		return
	}
	for _, c := range collisions {
		app.Logger.Warn("output name collision", "output", c.Output, "sources", len(c.Sources))
	}
	if opts.Quiet {
		return
	}

	rows := make([][]string, 0, len(collisions))
	for _, c := range collisions {
		for _, src := range c.Sources {
			rows = append(rows, []string{filepath.Base(c.Output), src})
		}
	}
	fmt.Fprintf(out, "\n⚠ %d output names are shared by several sources; the last one converted wins:\n", len(collisions))
	fmt.Fprintln(out, tui.RenderTable([]string{"Output", "Source"}, rows))
}

func outputSize(app *App, report application.BatchReport) int64 {
	var total int64
	for _, o := range report.Outcomes {
		if !o.Succeeded() {
			continue
		}
		if info, err := app.Fs.Stat(o.Output); err == nil {
			total += info.Size()
		}
	}
	return total
}

func printOutcomes(out io.Writer, root string, report application.BatchReport) {
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		name := o.Source
		if rel, err := filepath.Rel(root, o.Source); err == nil {
			name = rel
		}
		status := "ok"
		target := o.Output
		if !o.Succeeded() {
			status = "failed"
			if k := domain.KindOf(o.Err); k != 0 {
				status = k.String()
			}
			target = tui.ShortError(o.Err)
		}
		rows = append(rows, []string{name, status, target, tui.FormatDuration(o.Duration)})
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RenderTable([]string{"Source", "Status", "Output / Error", "Time"}, rows,
		tui.AlignLeft, tui.AlignLeft, tui.AlignLeft, tui.AlignRight))
}
