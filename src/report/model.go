package report

import (
	"github.com/jom-io/gorig-prof/src/analyzer"
	"github.com/jom-io/gorig-prof/src/host"
	"time"
)

// Report is the structured result handed to the presentation layer. When
// Error is set the other fields stay empty.
type Report struct {
	ID               string                     `json:"id"`
	GeneratedAt      time.Time                  `json:"generatedAt"`
	Source           string                     `json:"source"`
	Table            string                     `json:"table,omitempty"`
	Columns          analyzer.ColumnRoles       `json:"columns"`
	TotalRows        int                        `json:"totalRows"`
	OverallMean      float64                    `json:"overallMean"`
	OverallStd       float64                    `json:"overallStd"`
	Thresholds       analyzer.Thresholds        `json:"thresholds"`
	EndpointsByCount []analyzer.EndpointSummary `json:"endpointsByCount"`
	EndpointsByAvg   []analyzer.EndpointSummary `json:"endpointsByAvg"`
	EndpointsByMax   []analyzer.EndpointSummary `json:"endpointsByMax"`
	Bottlenecks      []analyzer.Bottleneck      `json:"bottlenecks"`
	SampleRows       []map[string]string        `json:"sampleRows"`
	SkippedElapsed   int                        `json:"skippedElapsed"`
	Error            string                     `json:"error,omitempty"`
}

// Brief is the compact form pushed to watchers.
type Brief struct {
	ID          string                `json:"id"`
	GeneratedAt time.Time             `json:"generatedAt"`
	TotalRows   int                   `json:"totalRows"`
	OverallMean float64               `json:"overallMean"`
	Bottlenecks []analyzer.Bottleneck `json:"bottlenecks"`
	Error       string                `json:"error,omitempty"`
}

func (r *Report) Brief() Brief {
	return Brief{
		ID:          r.ID,
		GeneratedAt: r.GeneratedAt,
		TotalRows:   r.TotalRows,
		OverallMean: r.OverallMean,
		Bottlenecks: r.Bottlenecks,
		Error:       r.Error,
	}
}

type Health struct {
	OK       bool            `json:"ok"`
	DBExists bool            `json:"db_exists"`
	Source   string          `json:"source"`
	Kind     string          `json:"kind"`
	Process  *host.ProcUsage `json:"process,omitempty"`
}
