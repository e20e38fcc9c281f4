package analyzer

// Classify applies the rules in order; an endpoint keeps the reason of the
// first rule it matched.
func Classify(endpoints, byAvg []EndpointSummary, th Thresholds) []Bottleneck {
	result := make([]Bottleneck, 0)
	seen := make(map[EndpointKey]struct{})
	add := func(e EndpointSummary, reason Reason) {
		if _, ok := seen[e.Key()]; ok {
			return
		}
		seen[e.Key()] = struct{}{}
		result = append(result, Bottleneck{EndpointSummary: e, Reason: reason})
	}

	for _, e := range endpoints {
		if e.Avg != nil && e.Count >= th.MinCalls && *e.Avg >= th.AvgThreshold {
			add(e, ReasonHighAvg)
		}
	}
	for _, e := range endpoints {
		if e.Max != nil && *e.Max >= th.PeakThreshold {
			add(e, ReasonHighPeak)
		}
	}
	top := min(max(th.TopN, 0), len(byAvg))
	for _, e := range byAvg[:top] {
		add(e, ReasonCandidate)
	}
	return result
}
