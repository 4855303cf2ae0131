package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2audio/internal/adapters/cli/tui"
)

// NewHistoryCmd creates the history subcommand
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently used source directories",
		Args:  cobra.NoArgs,
		RunE:  runHistoryList,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget recently used source directories",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClear,
	}

	cmd.AddCommand(clearCmd)
	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	recent := app.Config.History.RecentSourceDirs
	if len(recent) == 0 {
		fmt.Fprintln(out, "No recent source directories")
		return nil
	}

	rows := make([][]string, 0, len(recent))
	for i, dir := range recent {
		status := "yes"
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			status = "missing"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), dir, status})
	}
	fmt.Fprintln(out, tui.RenderTable([]string{"#", "Directory", "Exists"}, rows, tui.AlignRight))
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	count := len(app.Config.History.RecentSourceDirs)
	app.Config.ClearHistory()
	if err := app.SaveConfig(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d recent directories\n", count)
	return nil
}
