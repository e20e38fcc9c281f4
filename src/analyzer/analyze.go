package analyzer

// Analyze runs the whole pipeline over materialised records.
func Analyze(records []RawRecord, roles ColumnRoles, policy Policy) *Result {
	agg := Aggregate(records, roles)
	views := Summarize(agg)
	th := CalculateThresholds(avgValues(views.Endpoints), maxValues(views.Endpoints), policy)

	return &Result{
		TotalRows:   len(records),
		Thresholds:  th,
		Endpoints:   views.Endpoints,
		ByCount:     views.ByCount,
		ByAvg:       views.ByAvg,
		ByMax:       views.ByMax,
		Bottlenecks: Classify(views.Endpoints, views.ByAvg, th),
		Samples:     agg.Samples,
		Skipped:     agg.Skipped,
	}
}
