package analyzer

// RawRecord is one measured request as read from the source. Column sets may
// differ between rows.
type RawRecord map[string]any

// ColumnRoles holds the detected column names, empty when not found.
type ColumnRoles struct {
	Path    string `json:"path"`
	Method  string `json:"method"`
	Elapsed string `json:"elapsed"`
}

type EndpointKey struct {
	Method string
	Path   string
}

// Accumulator stores running stats for one endpoint.
type Accumulator struct {
	Count int64   // all records
	Timed int64   // records with a parsed duration
	Sum   float64 // seconds
	Min   *float64
	Max   *float64
}

type EndpointSummary struct {
	Method string   `json:"method"`
	Path   string   `json:"path"`
	Count  int64    `json:"count"`
	Avg    *float64 `json:"avg"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Total  float64  `json:"total"` // sum of durations, seconds
}

func (e EndpointSummary) Key() EndpointKey {
	return EndpointKey{Method: e.Method, Path: e.Path}
}

type Thresholds struct {
	MeanAvg       float64 `json:"meanAvg"`
	StdAvg        float64 `json:"stdAvg"`
	P95Max        float64 `json:"p95Max"`
	AvgThreshold  float64 `json:"avgThreshold"`
	PeakThreshold float64 `json:"peakThreshold"`
	MinCalls      int64   `json:"minCalls"`
	TopN          int     `json:"topN"`
}

type Reason string

const (
	ReasonHighAvg   Reason = "high_avg_latency"
	ReasonHighPeak  Reason = "high_peak_latency"
	ReasonCandidate Reason = "candidate_slow_endpoint"
)

func (r Reason) String() string {
	return string(r)
}

type Bottleneck struct {
	EndpointSummary
	Reason Reason `json:"reason"`
}

// Policy holds the fixed classification constants.
type Policy struct {
	MinCalls int64 `json:"minCalls"`
	TopN     int   `json:"topN"`
}

const (
	DefaultMinCalls = 3
	DefaultTopN     = 5
	MinPeakSeconds  = 1.0

	UnknownValue = "UNKNOWN"
	SampleSize   = 10
	SampleMaxLen = 200
)

func DefaultPolicy() Policy {
	return Policy{MinCalls: DefaultMinCalls, TopN: DefaultTopN}
}

// Result is the output of one pipeline run.
type Result struct {
	TotalRows   int                 `json:"totalRows"`
	Thresholds  Thresholds          `json:"thresholds"`
	Endpoints   []EndpointSummary   `json:"-"`
	ByCount     []EndpointSummary   `json:"endpointsByCount"`
	ByAvg       []EndpointSummary   `json:"endpointsByAvg"`
	ByMax       []EndpointSummary   `json:"endpointsByMax"`
	Bottlenecks []Bottleneck        `json:"bottlenecks"`
	Samples     []map[string]string `json:"sampleRows"`
	Skipped     int                 `json:"skippedElapsed"`
}
