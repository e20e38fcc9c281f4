package analyzer

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sort"
	"testing"
)

var flaskRoles = ColumnRoles{Method: "method", Elapsed: "elapsed"}

func rec(method, path string, elapsed any) RawRecord {
	return RawRecord{"method": method, "name": path, "elapsed": elapsed}
}

func findEndpoint(t *testing.T, list []EndpointSummary, method, path string) EndpointSummary {
	t.Helper()
	for _, e := range list {
		if e.Method == method && e.Path == path {
			return e
		}
	}
	t.Fatalf("endpoint %s %s not found", method, path)
	return EndpointSummary{}
}

func reasons(bs []Bottleneck) map[string]Reason {
	out := make(map[string]Reason, len(bs))
	for _, b := range bs {
		out[b.Method+" "+b.Path] = b.Reason
	}
	return out
}

func TestAnalyzeSmallScenario(t *testing.T) {
	records := []RawRecord{
		rec("GET", "/a", 0.1),
		rec("GET", "/a", 0.3),
		rec("GET", "/b", 5.0),
	}

	res := Analyze(records, flaskRoles, DefaultPolicy())
	require.Equal(t, 3, res.TotalRows)

	a := findEndpoint(t, res.ByCount, "GET", "/a")
	assert.EqualValues(t, 2, a.Count)
	require.NotNil(t, a.Avg)
	assert.InDelta(t, 0.2, *a.Avg, 1e-9)

	b := findEndpoint(t, res.ByCount, "GET", "/b")
	assert.EqualValues(t, 1, b.Count)
	require.NotNil(t, b.Avg)
	assert.InDelta(t, 5.0, *b.Avg, 1e-9)

	// p95 index floor(0.95*1)=0 -> 0.3, so the peak threshold stays at 1.0
	assert.InDelta(t, 1.0, res.Thresholds.PeakThreshold, 1e-9)
	got := reasons(res.Bottlenecks)
	assert.Equal(t, ReasonHighPeak, got["GET /b"])
	assert.Equal(t, ReasonCandidate, got["GET /a"])
	require.Len(t, res.Bottlenecks, 2)
	assert.Equal(t, "/b", res.Bottlenecks[0].Path)

	t.Run("MinCallsOne", func(t *testing.T) {
		res := Analyze(records, flaskRoles, Policy{MinCalls: 1, TopN: DefaultTopN})
		got := reasons(res.Bottlenecks)
		assert.Contains(t, []Reason{ReasonHighAvg, ReasonHighPeak}, got["GET /b"])
	})
}

func TestAnalyzeEmpty(t *testing.T) {
	res := Analyze(nil, ColumnRoles{}, DefaultPolicy())
	assert.Equal(t, 0, res.TotalRows)
	assert.Empty(t, res.ByCount)
	assert.Empty(t, res.ByAvg)
	assert.Empty(t, res.ByMax)
	assert.Empty(t, res.Bottlenecks)
	assert.NotNil(t, res.Bottlenecks)
	assert.Zero(t, res.Thresholds.MeanAvg)
	assert.Zero(t, res.Thresholds.StdAvg)
	assert.Zero(t, res.Thresholds.AvgThreshold)
	assert.Equal(t, 1.0, res.Thresholds.PeakThreshold)
	assert.EqualValues(t, 3, res.Thresholds.MinCalls)
	assert.Equal(t, 5, res.Thresholds.TopN)
}

func TestAnalyzeNonNumericElapsed(t *testing.T) {
	records := []RawRecord{
		rec("GET", "/text", "slow"),
		rec("GET", "/text", nil),
		rec("POST", "/mixed", "abc"),
		rec("POST", "/mixed", " 0.5 "),
	}
	res := Analyze(records, flaskRoles, DefaultPolicy())

	text := findEndpoint(t, res.ByCount, "GET", "/text")
	assert.EqualValues(t, 2, text.Count)
	assert.Nil(t, text.Avg)
	assert.Nil(t, text.Min)
	assert.Nil(t, text.Max)

	mixed := findEndpoint(t, res.ByCount, "POST", "/mixed")
	assert.EqualValues(t, 2, mixed.Count)
	require.NotNil(t, mixed.Avg)
	assert.InDelta(t, 0.5, *mixed.Avg, 1e-9)
	assert.Equal(t, 0.5, *mixed.Min)
	assert.Equal(t, 0.5, *mixed.Max)

	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.ByAvg, 1)
	assert.Len(t, res.ByMax, 1)
}

func TestAnalyzeZeroDurations(t *testing.T) {
	records := []RawRecord{rec("GET", "/fast", 0), rec("GET", "/fast", "0.0")}
	res := Analyze(records, flaskRoles, DefaultPolicy())

	fast := findEndpoint(t, res.ByCount, "GET", "/fast")
	require.NotNil(t, fast.Avg)
	assert.Zero(t, *fast.Avg)
}

func TestAnalyzeTopCandidates(t *testing.T) {
	var records []RawRecord
	durations := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	for i, d := range durations {
		for j := 0; j < 3; j++ {
			records = append(records, rec("GET", fmt.Sprintf("/e%d", i+1), d))
		}
	}

	res := Analyze(records, flaskRoles, DefaultPolicy())
	got := reasons(res.Bottlenecks)

	require.Len(t, res.Bottlenecks, 5)
	assert.Equal(t, ReasonHighAvg, got["GET /e6"])
	for _, p := range []string{"/e2", "/e3", "/e4", "/e5"} {
		assert.Equal(t, ReasonCandidate, got["GET "+p], p)
	}
	assert.NotContains(t, got, "GET /e1")
	assert.Equal(t, "/e6", res.Bottlenecks[0].Path)
	assert.Equal(t, "/e5", res.Bottlenecks[1].Path)
}

func TestAnalyzeProperties(t *testing.T) {
	records := []RawRecord{
		rec("GET", "/a", 0.4),
		rec("GET", "/b", "1.5"),
		{"method": "POST", "path": "/c", "elapsed": 2},
		{"elapsed": 0.2},
		rec("GET", "/a", 0.1),
		rec("DELETE", "/b", 3.25),
		rec("GET", "/b", "oops"),
		rec("GET", "/a", 0.9),
		{"method": "", "name": "/d", "elapsed": 0.3},
	}

	res := Analyze(records, flaskRoles, DefaultPolicy())

	var total int64
	for _, e := range res.ByCount {
		total += e.Count
		if e.Avg != nil {
			assert.LessOrEqual(t, *e.Min, *e.Avg, e.Path)
			assert.LessOrEqual(t, *e.Avg, *e.Max, e.Path)
		}
	}
	assert.EqualValues(t, len(records), total)

	unknown := findEndpoint(t, res.ByCount, UnknownValue, UnknownValue)
	assert.EqualValues(t, 1, unknown.Count)
	findEndpoint(t, res.ByCount, UnknownValue, "/d")
	findEndpoint(t, res.ByCount, "POST", "/c")

	t.Run("Idempotent", func(t *testing.T) {
		again := Analyze(records, flaskRoles, DefaultPolicy())
		assert.Equal(t, res, again)
	})

	t.Run("ViewsArePermutations", func(t *testing.T) {
		resorted := make([]EndpointSummary, 0, len(res.ByCount))
		for _, e := range res.ByCount {
			if e.Avg != nil {
				resorted = append(resorted, e)
			}
		}
		sort.SliceStable(resorted, func(i, j int) bool { return *resorted[i].Avg > *resorted[j].Avg })
		require.Len(t, resorted, len(res.ByAvg))
		for i := range resorted {
			assert.Equal(t, *res.ByAvg[i].Avg, *resorted[i].Avg)
		}
		assert.ElementsMatch(t, res.Endpoints, res.ByCount)
	})
}

func paths(list []EndpointSummary) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.Path)
	}
	return out
}

func TestAnalyzeTiesKeepFirstSeenOrder(t *testing.T) {
	records := []RawRecord{
		rec("GET", "/z", 0.5),
		rec("GET", "/y", 0.5),
		rec("GET", "/x", 0.5),
	}
	res := Analyze(records, flaskRoles, DefaultPolicy())
	want := []string{"/z", "/y", "/x"}
	assert.Equal(t, want, paths(res.ByCount))
	assert.Equal(t, want, paths(res.ByAvg))
	assert.Equal(t, want, paths(res.ByMax))
	flagged := make([]string, 0, len(res.Bottlenecks))
	for _, b := range res.Bottlenecks {
		assert.Equal(t, ReasonCandidate, b.Reason)
		flagged = append(flagged, b.Path)
	}
	assert.Equal(t, want, flagged)

	t.Run("PartialTies", func(t *testing.T) {
		records := []RawRecord{
			rec("GET", "/slow", 2.0),
			rec("GET", "/b", 0.5),
			rec("GET", "/a", 0.5),
			rec("GET", "/a", 0.5),
			rec("GET", "/b", 0.5),
			rec("GET", "/c", 0.1),
		}
		res := Analyze(records, flaskRoles, DefaultPolicy())
		assert.Equal(t, []string{"/b", "/a", "/slow", "/c"}, paths(res.ByCount))
		assert.Equal(t, []string{"/slow", "/b", "/a", "/c"}, paths(res.ByAvg))
		assert.Equal(t, []string{"/slow", "/b", "/a", "/c"}, paths(res.ByMax))
	})
}

func TestAnalyzeSamples(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	var records []RawRecord
	for i := 0; i < 15; i++ {
		records = append(records, RawRecord{"method": "GET", "name": fmt.Sprintf("/s%d", i), "elapsed": 0.1, "args": string(long), "kwargs": nil})
	}

	res := Analyze(records, flaskRoles, DefaultPolicy())
	require.Len(t, res.Samples, SampleSize)
	assert.Equal(t, "/s0", res.Samples[0]["name"])
	assert.Equal(t, "/s9", res.Samples[9]["name"])
	assert.Len(t, res.Samples[0]["args"], SampleMaxLen)
	assert.Equal(t, "null", res.Samples[0]["kwargs"])
	assert.Equal(t, "0.1", res.Samples[0]["elapsed"])

	t.Run("Scalars", func(t *testing.T) {
		res := Analyze([]RawRecord{{"name": "/s", "cached": true, "elapsed": 2, "kwargs": nil}}, flaskRoles, DefaultPolicy())
		require.Len(t, res.Samples, 1)
		assert.Equal(t, "true", res.Samples[0]["cached"])
		assert.Equal(t, "2", res.Samples[0]["elapsed"])
		assert.Equal(t, "null", res.Samples[0]["kwargs"])
	})
}
