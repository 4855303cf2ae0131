package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2audio/internal/adapters/cli/tui"
	"github.com/devbush/vid2audio/internal/domain"
)

// NewFormatsCmd creates the formats subcommand
func NewFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input and output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFormats(cmd.OutOrStdout())
		},
	}
}

func printFormats(w io.Writer) error {
	formats := domain.AllFormats()
	rows := make([][]string, 0, len(formats))
	for i, f := range formats {
		rows = append(rows, []string{strconv.Itoa(i + 1), f.String(), "." + f.Extension(), f.Description()})
	}

	fmt.Fprintln(w, "Output formats:")
	fmt.Fprintln(w, tui.RenderTable([]string{"#", "Name", "Extension", "Description"}, rows, tui.AlignRight))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input video extensions:")
	fmt.Fprintf(w, "  %s\n", strings.Join(domain.SupportedInputExtensions(), ", "))
	return nil
}
