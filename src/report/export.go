package report

import (
	"errors"
	"github.com/google/pprof/profile"
	"io"
	"math"
)

// Profile converts the per-endpoint totals into a pprof profile, one
// function per endpoint, so that `go tool pprof` can browse them.
func Profile(rep *Report) (*profile.Profile, error) {
	if rep.Error != "" {
		return nil, errors.New(rep.Error)
	}
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "calls", Unit: "count"},
			{Type: "latency", Unit: "nanoseconds"},
		},
		DefaultSampleType: "latency",
		PeriodType:        &profile.ValueType{Type: "latency", Unit: "nanoseconds"},
		Period:            1,
		TimeNanos:         rep.GeneratedAt.UnixNano(),
		Comments:          []string{"source: " + rep.Source, "table: " + rep.Table},
	}
	for i, e := range rep.EndpointsByCount {
		id := uint64(i + 1)
		fn := &profile.Function{
			ID:         id,
			Name:       e.Method + " " + e.Path,
			SystemName: e.Path,
			Filename:   rep.Table,
		}
		loc := &profile.Location{
			ID:   id,
			Line: []profile.Line{{Function: fn}},
		}
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{e.Count, int64(math.Round(e.Total * 1e9))},
			Label: map[string][]string{
				"method": {e.Method},
				"path":   {e.Path},
			},
		})
	}
	if err := p.CheckValid(); err != nil {
		return nil, err
	}
	return p, nil
}

// ExportProfile writes the gzipped pprof encoding of rep.
func ExportProfile(w io.Writer, rep *Report) error {
	p, err := Profile(rep)
	if err != nil {
		return err
	}
	return p.Write(w)
}
