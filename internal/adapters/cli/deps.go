package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2audio/internal/adapters/ffmpeg"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Show dependency status (ffmpeg)",
		Args:  cobra.NoArgs,
		RunE:  runDepsStatus,
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		Args:  cobra.NoArgs,
		RunE:  runDepsStatus,
	}

	cmd.AddCommand(statusCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	version, err := app.Transcoder.Version(cmd.Context())
	if err != nil {
		if path := app.Transcoder.BinaryPath(); path != "" {
			fmt.Fprintf(out, "  ffmpeg:   not working (%s)\n", path)
		} else {
			fmt.Fprintln(out, "  ffmpeg:   not found")
		}
		fmt.Fprintf(out, "            %s\n\n", ffmpeg.InstallInstructions())
		return err
	}

	fmt.Fprintf(out, "  ffmpeg:   installed (%s)\n", app.Transcoder.BinaryPath())
	fmt.Fprintf(out, "  version:  %s\n", version)
	fmt.Fprintln(out)
	return nil
}
