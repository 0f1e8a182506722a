package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattn/go-runewidth"
)

const (
	tablePadding  = 2
	maxTitleWidth = 40
)

func writeTable(out io.Writer, headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(out, 0, 0, tablePadding, ' ', tabwriter.StripEscape)
	if len(headers) > 0 {
		fmt.Fprintln(writer, strings.Join(headers, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(writer, strings.Join(row, "\t"))
	}
	return writer.Flush()
}

func formatYesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// formatDwell renders a dwell time; zero dwell is a terminal stage.
func formatDwell(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.String()
}

func truncateTitle(title string) string {
	return runewidth.Truncate(title, maxTitleWidth, "…")
}
