package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

// writeTable renders one row per vertex, grouped by level.
func writeTable(w io.Writer, levels []landscape.Level, opts Options) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	if opts.Title != "" {
		tw.SetTitle(opts.Title)
	}

	tw.AppendHeader(table.Row{"Level", "#", "x", "y"})

	for i, level := range levels {
		for j, p := range level {
			tw.AppendRow(table.Row{
				i,
				j,
				formatCoord(p.X, opts.Precision),
				formatCoord(p.Y, opts.Precision),
			})
		}

		if i < len(levels)-1 && len(level) > 0 {
			tw.AppendSeparator()
		}
	}

	tw.AppendFooter(table.Row{"", "", "levels", strconv.Itoa(len(levels))})

	_, err := fmt.Fprintln(w, tw.Render())
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}
