package analyzer

import (
	"math"
	"sort"
)

// MeanStd returns the population mean and standard deviation, zero for empty input.
func MeanStd(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	n := float64(len(vals))
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / n
	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / n)
}

// Percentile picks the value at floor(p*(n-1)) of the ascending sorted input.
func Percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[int(p*float64(len(sorted)-1))]
}

// CalculateThresholds derives the alert baselines from per-endpoint averages
// and maxima.
func CalculateThresholds(avgs, maxes []float64, policy Policy) Thresholds {
	mean, std := MeanStd(avgs)
	p95 := Percentile(maxes, 0.95)
	return Thresholds{
		MeanAvg:       mean,
		StdAvg:        std,
		P95Max:        p95,
		AvgThreshold:  mean + std,
		PeakThreshold: math.Max(MinPeakSeconds, p95),
		MinCalls:      policy.MinCalls,
		TopN:          policy.TopN,
	}
}
