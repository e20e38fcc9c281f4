package report

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"io"
)

// WriteTable prints the report for terminals.
func WriteTable(w io.Writer, rep *Report) {
	fmt.Fprintf(w, "Source: %s | Table: %s\n", rep.Source, rep.Table)
	if rep.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", rep.Error)
		return
	}
	fmt.Fprintf(w, "Total requests: %s\n", humanize.Comma(int64(rep.TotalRows)))
	fmt.Fprintf(w, "Mean avg latency: %.4f s (std %.4f s)\n", rep.OverallMean, rep.OverallStd)
	fmt.Fprintf(w, "Thresholds: avg >= %.4f s with %d+ calls, peak >= %.4f s\n\n",
		rep.Thresholds.AvgThreshold, rep.Thresholds.MinCalls, rep.Thresholds.PeakThreshold)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Endpoint", "Count", "Avg (s)", "Max (s)", "Reason"})
	table.SetAutoWrapText(false)
	for _, b := range rep.Bottlenecks {
		table.Append([]string{
			b.Method,
			b.Path,
			humanize.Comma(b.Count),
			Seconds(b.Avg),
			Seconds(b.Max),
			b.Reason.String(),
		})
	}
	table.Render()
}
