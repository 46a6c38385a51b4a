package deck

import (
	"bytes"
	"fmt"
	"path/filepath"

	chart "github.com/wcharczuk/go-chart/v2"

	"autodeck/common"
)

// RenderTableChart renders a table summary as a PNG bar chart of column
// means. The slide decides *that* a chart appears; this decides nothing
// about content beyond the stats already in the summary.
func RenderTableChart(table common.TableSummary) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("table %s has no numeric columns to chart", table.Ref)
	}

	bars := make([]chart.Value, 0, len(table.Columns))
	for _, col := range table.Columns {
		bars = append(bars, chart.Value{
			Label: common.TruncateAtWord(col.Name, 18),
			Value: col.Mean,
		})
	}

	graph := chart.BarChart{
		Title:    filepath.Base(table.Source),
		Width:    1024,
		Height:   640,
		BarWidth: 68,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
