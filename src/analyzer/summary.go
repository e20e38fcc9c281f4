package analyzer

import "sort"

type Views struct {
	Endpoints []EndpointSummary // first-seen order
	ByCount   []EndpointSummary
	ByAvg     []EndpointSummary
	ByMax     []EndpointSummary
}

// Summarize turns accumulators into endpoint summaries and the three sorted
// views. Ties keep first-seen order.
func Summarize(agg *Aggregation) Views {
	endpoints := make([]EndpointSummary, 0, len(agg.Order))
	for _, key := range agg.Order {
		acc := agg.Stats[key]
		e := EndpointSummary{
			Method: key.Method,
			Path:   key.Path,
			Count:  acc.Count,
			Min:    acc.Min,
			Max:    acc.Max,
			Total:  acc.Sum,
		}
		// average over the records that carried a duration
		if acc.Timed > 0 {
			e.Avg = ptr(acc.Sum / float64(acc.Timed))
		}
		endpoints = append(endpoints, e)
	}

	byCount := make([]EndpointSummary, len(endpoints))
	copy(byCount, endpoints)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].Count > byCount[j].Count
	})

	byAvg := filter(endpoints, func(e EndpointSummary) bool { return e.Avg != nil })
	sort.SliceStable(byAvg, func(i, j int) bool {
		return *byAvg[i].Avg > *byAvg[j].Avg
	})

	byMax := filter(endpoints, func(e EndpointSummary) bool { return e.Max != nil })
	sort.SliceStable(byMax, func(i, j int) bool {
		return *byMax[i].Max > *byMax[j].Max
	})

	return Views{
		Endpoints: endpoints,
		ByCount:   byCount,
		ByAvg:     byAvg,
		ByMax:     byMax,
	}
}

func filter(in []EndpointSummary, keep func(EndpointSummary) bool) []EndpointSummary {
	out := make([]EndpointSummary, 0, len(in))
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func avgValues(endpoints []EndpointSummary) []float64 {
	vals := make([]float64, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Avg != nil {
			vals = append(vals, *e.Avg)
		}
	}
	return vals
}

func maxValues(endpoints []EndpointSummary) []float64 {
	vals := make([]float64, 0, len(endpoints))
	for _, e := range endpoints {
		if e.Max != nil {
			vals = append(vals, *e.Max)
		}
	}
	return vals
}
