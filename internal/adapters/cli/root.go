package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2audio/internal/adapters/cli/tui"
)

var (
	// Global flags
	sourceFlag       string
	formatFlag       string
	outputFlag       string
	batchFlag        bool
	verboseFlag      bool
	quietFlag        bool
	jobsFlag         int
	skipExistingFlag bool
	listFormatsFlag  bool
	configFlag       string
	saveConfigFlag   bool
	ffmpegFlag       string
)

// errCancelled is returned when the user backs out of an interactive prompt
var errCancelled = errors.New("cancelled")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vid2audio [source-dir]",
		Short: "Extract audio tracks from video files in parallel",
		Long: `vid2audio finds every video file under a directory and extracts its
audio track with ffmpeg, converting several files at once.

Converted files are written to <source-dir>/audio_exports unless --output
is given. Run without arguments to be asked for the directory and format.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&sourceFlag, "source", "s", "", "Directory to scan for video files")
	flags.StringVarP(&formatFlag, "format", "f", "", "Output format: 1|mp3, 2|aac, 3|opus")
	flags.StringVarP(&outputFlag, "output", "o", "", "Output directory (default: <source>/audio_exports)")
	flags.BoolVarP(&batchFlag, "batch", "b", false, "Never prompt; fail when --source or --format is missing")
	flags.IntVarP(&jobsFlag, "jobs", "j", 0, fmt.Sprintf("Parallel conversions, 1-%d (default: CPU count)", maxJobs))
	flags.BoolVar(&skipExistingFlag, "skip-existing", false, "Skip files whose output already exists")
	flags.BoolVar(&listFormatsFlag, "list-formats", false, "List supported input and output formats")
	flags.BoolVar(&saveConfigFlag, "save-config", false, "Save format, jobs and skip-existing as defaults")

	persistent := rootCmd.PersistentFlags()
	persistent.BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output and debug logs")
	persistent.BoolVarP(&quietFlag, "quiet", "q", false, "Only print errors")
	persistent.StringVarP(&configFlag, "config", "c", "", "Config file (default: ~/.vid2audio/config.yaml)")
	persistent.StringVar(&ffmpegFlag, "ffmpeg", "", "Path to the ffmpeg binary")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Add subcommands
	rootCmd.AddCommand(NewFormatsCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if listFormatsFlag {
		return printFormats(cmd.OutOrStdout())
	}

	app, err := GetApp()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	var p prompter
	if !batchFlag && tui.IsTerminal(os.Stdin) && tui.IsTerminal(os.Stdout) {
		p = tuiPrompter{}
	}

	opts, err := resolveOptions(cmd, args, app.Config, p)
	if errors.Is(err, errCancelled) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	return runConvert(cmd.Context(), cmd.OutOrStdout(), app, opts)
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	closeApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
