package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Sumatoshi-tech/landscape/pkg/landscape"
)

// writeCSV emits one "level,x,y" row per vertex.
func writeCSV(w io.Writer, levels []landscape.Level, precision int) error {
	cw := csv.NewWriter(w)

	headerErr := cw.Write([]string{"level", "x", "y"})
	if headerErr != nil {
		return fmt.Errorf("write csv header: %w", headerErr)
	}

	for i, level := range levels {
		for _, p := range level {
			rowErr := cw.Write([]string{
				strconv.Itoa(i),
				formatCoord(p.X, precision),
				formatCoord(p.Y, precision),
			})
			if rowErr != nil {
				return fmt.Errorf("write csv row: %w", rowErr)
			}
		}
	}

	cw.Flush()

	flushErr := cw.Error()
	if flushErr != nil {
		return fmt.Errorf("flush csv: %w", flushErr)
	}

	return nil
}
