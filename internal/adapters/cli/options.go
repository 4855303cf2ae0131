package cli

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2audio/internal/adapters/cli/tui"
	"github.com/devbush/vid2audio/internal/config"
	"github.com/devbush/vid2audio/internal/domain"
)

// Upper bound for --jobs
const maxJobs = 64

// convertOptions is the fully resolved input of one conversion run
type convertOptions struct {
	Source       string
	Output       string
	Format       domain.AudioFormat
	Jobs         int
	SkipExisting bool
	Verbose      bool
	Quiet        bool
	SaveConfig   bool
	JobsSet      bool // --jobs was given explicitly
}

// prompter asks for values missing from flags and config
type prompter interface {
	AskDirectory(recent []string) (string, error)
	AskFormat() (domain.AudioFormat, error)
}

type tuiPrompter struct{}

func (tuiPrompter) AskDirectory(recent []string) (string, error) {
	dir, err := tui.RunDirPrompt("Which directory contains the videos?", recent)
	if err != nil {
		return "", err
	}
	if dir == "" {
		return "", errCancelled
	}
	return dir, nil
}

func (tuiPrompter) AskFormat() (domain.AudioFormat, error) {
	formats := domain.AllFormats()
	options := make([]tui.MenuOption, 0, len(formats))
	for _, f := range formats {
		options = append(options, tui.MenuOption{Label: f.Description(), Value: f.String()})
	}

	selected, err := tui.RunMenu("Choose the output format", options)
	if err != nil {
		return 0, err
	}
	if selected == "" {
		return 0, errCancelled
	}
	return domain.ParseFormat(selected)
}

// resolveOptions merges flags, positional arguments and config defaults.
// Missing values are asked through p; a nil p means no prompting.
func resolveOptions(cmd *cobra.Command, args []string, cfg *config.Config, p prompter) (convertOptions, error) {
	opts := convertOptions{
		Output:       strings.TrimSpace(outputFlag),
		SkipExisting: skipExistingFlag || cfg.Defaults.SkipExisting,
		Verbose:      verboseFlag || (cfg.Defaults.Verbose && !quietFlag),
		Quiet:        quietFlag || (cfg.Defaults.Quiet && !verboseFlag),
		SaveConfig:   saveConfigFlag,
		JobsSet:      cmd.Flags().Changed("jobs"),
	}
	if opts.Verbose && opts.Quiet {
		return opts, domain.NewInvalidInput("verbose and quiet cannot both be enabled")
	}

	source := strings.TrimSpace(sourceFlag)
	if len(args) > 0 {
		if source != "" && source != args[0] {
			return opts, domain.NewInvalidInput("give the source directory either as an argument or with --source, not both")
		}
		source = args[0]
	}

	if source == "" {
		if p == nil {
			return opts, domain.NewInvalidInput("missing source directory (use --source)")
		}
		dir, err := p.AskDirectory(cfg.History.RecentSourceDirs)
		if err != nil {
			return opts, err
		}
		source = dir
	}
	opts.Source = tui.ExpandHome(source)
	if opts.Output != "" {
		opts.Output = tui.ExpandHome(opts.Output)
	}

	formatInput := strings.TrimSpace(formatFlag)
	if formatInput == "" {
		formatInput = strings.TrimSpace(cfg.Defaults.Format)
	}
	if formatInput == "" {
		if p == nil {
			return opts, domain.NewInvalidInput("missing output format (use --format)")
		}
		f, err := p.AskFormat()
		if err != nil {
			return opts, err
		}
		opts.Format = f
	} else {
		f, err := domain.ParseFormat(formatInput)
		if err != nil {
			return opts, err
		}
		opts.Format = f
	}

	jobs := cfg.Defaults.Jobs
	if opts.JobsSet {
		jobs = jobsFlag
	}
	opts.Jobs = clampJobs(jobs)

	return opts, nil
}

// clampJobs maps n <= 0 to the CPU count and bounds the result to 1..maxJobs
func clampJobs(n int) int {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	if n > maxJobs {
		n = maxJobs
	}
	return n
}
