package report

import (
	"fmt"
	"github.com/dustin/go-humanize"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"html/template"
	"io"
	"strings"
)

const topRows = 10

var funcs = template.FuncMap{
	"sec": Seconds,
	"comma": func(n any) string {
		switch v := n.(type) {
		case int:
			return humanize.Comma(int64(v))
		case int64:
			return humanize.Comma(v)
		}
		return fmt.Sprint(n)
	},
	"candidate": func(r analyzer.Reason) bool {
		return strings.Contains(string(r), "candidate")
	},
	"top": func(list []analyzer.EndpointSummary) []analyzer.EndpointSummary {
		if len(list) > topRows {
			return list[:topRows]
		}
		return list
	},
}

// Seconds formats a nullable duration, N/A when absent.
func Seconds(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.4f", *v)
}

var pageTmpl = template.Must(template.New("report").Funcs(funcs).Parse(pageHTML))

// Page returns the HTML report template.
func Page() *template.Template {
	return pageTmpl
}

// WriteHTML renders rep as a standalone page.
func WriteHTML(w io.Writer, rep *Report) error {
	return pageTmpl.Execute(w, rep)
}

const pageHTML = `<!doctype html>
<html>
<head>
  <title>Profiler Report</title>
  <link href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.2/dist/css/bootstrap.min.css" rel="stylesheet">
  <style>
    body { background:#f8f9fa; }
    .card { margin-bottom: 1rem; }
  </style>
</head>
<body>
<div class="container-fluid my-4">

<h2>Profiler Report</h2>
<p class="text-muted">Source: {{ .Source }} | Table: {{ .Table }} | Report: {{ .ID }}</p>

{{ if .Error }}
<div class="alert alert-danger">{{ .Error }}</div>
{{ else }}

<div class="alert alert-info">
Total requests: <strong>{{ comma .TotalRows }}</strong><br>
Mean avg latency: {{ printf "%.4f" .OverallMean }} s (std {{ printf "%.4f" .OverallStd }} s)<br>
Avg threshold: {{ printf "%.4f" .Thresholds.AvgThreshold }} s | Peak threshold: {{ printf "%.4f" .Thresholds.PeakThreshold }} s
{{ if .SkippedElapsed }}<br>Rows without a numeric elapsed value: {{ comma .SkippedElapsed }}{{ end }}
</div>

<h4>Bottlenecks &amp; Candidates</h4>
<table class="table table-sm table-striped">
<thead>
<tr><th>Method</th><th>Endpoint</th><th>Count</th><th>Avg (s)</th><th>Max (s)</th><th>Reason</th></tr>
</thead>
<tbody>
{{ range .Bottlenecks }}
<tr class="{{ if candidate .Reason }}table-warning{{ else }}table-danger{{ end }}">
<td>{{ .Method }}</td>
<td>{{ .Path }}</td>
<td>{{ comma .Count }}</td>
<td>{{ sec .Avg }}</td>
<td>{{ sec .Max }}</td>
<td>{{ .Reason }}</td>
</tr>
{{ end }}
</tbody>
</table>

<div class="row">
  <div class="col-md-6">
    <h5>Top Endpoints by Avg Latency</h5>
    <table class="table table-sm">
      <thead><tr><th>Method</th><th>Endpoint</th><th>Avg (s)</th></tr></thead>
      <tbody>
      {{ range top .EndpointsByAvg }}
      <tr><td>{{ .Method }}</td><td>{{ .Path }}</td><td>{{ sec .Avg }}</td></tr>
      {{ end }}
      </tbody>
    </table>
  </div>

  <div class="col-md-6">
    <h5>Top Endpoints by Max Latency</h5>
    <table class="table table-sm">
      <thead><tr><th>Method</th><th>Endpoint</th><th>Max (s)</th></tr></thead>
      <tbody>
      {{ range top .EndpointsByMax }}
      <tr><td>{{ .Method }}</td><td>{{ .Path }}</td><td>{{ sec .Max }}</td></tr>
      {{ end }}
      </tbody>
    </table>
  </div>
</div>

<h5>Most Called Endpoints</h5>
<table class="table table-sm">
  <thead><tr><th>Method</th><th>Endpoint</th><th>Count</th><th>Avg (s)</th><th>Min (s)</th><th>Max (s)</th></tr></thead>
  <tbody>
  {{ range top .EndpointsByCount }}
  <tr><td>{{ .Method }}</td><td>{{ .Path }}</td><td>{{ comma .Count }}</td><td>{{ sec .Avg }}</td><td>{{ sec .Min }}</td><td>{{ sec .Max }}</td></tr>
  {{ end }}
  </tbody>
</table>

<h5>Sample Rows</h5>
<table class="table table-sm small">
  <tbody>
  {{ range .SampleRows }}
  <tr><td>{{ range $k, $v := . }}<code>{{ $k }}</code>={{ $v }} {{ end }}</td></tr>
  {{ end }}
  </tbody>
</table>

{{ end }}
</div>
</body>
</html>
`
