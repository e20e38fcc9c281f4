package analyzer

import (
	"fmt"
	"github.com/spf13/cast"
	"math"
	"strings"
	"unicode/utf8"
)

// Aggregation is the fold of all records, endpoints in first-seen order.
type Aggregation struct {
	Order   []EndpointKey
	Stats   map[EndpointKey]*Accumulator
	Samples []map[string]string
	// Skipped counts records whose elapsed value was missing or not numeric.
	Skipped int
}

func (a *Aggregation) Get(key EndpointKey) *Accumulator {
	return a.Stats[key]
}

// lookup keys per role, first non-empty value wins
func pathKeys(roles ColumnRoles) []string   { return []string{roles.Path, "path", "name"} }
func methodKeys(roles ColumnRoles) []string { return []string{roles.Method, "method"} }

// Aggregate groups records by (method, path) and accumulates count/sum/min/max.
func Aggregate(records []RawRecord, roles ColumnRoles) *Aggregation {
	agg := &Aggregation{
		Stats:   make(map[EndpointKey]*Accumulator),
		Samples: make([]map[string]string, 0, SampleSize),
	}
	pk, mk := pathKeys(roles), methodKeys(roles)

	for _, rec := range records {
		key := EndpointKey{
			Method: resolve(rec, mk),
			Path:   resolve(rec, pk),
		}
		acc, ok := agg.Stats[key]
		if !ok {
			acc = &Accumulator{}
			agg.Stats[key] = acc
			agg.Order = append(agg.Order, key)
		}
		acc.Count++

		elapsed, ok := ParseElapsed(lookupValue(rec, roles.Elapsed))
		if ok {
			acc.add(elapsed)
		} else {
			agg.Skipped++
		}

		if len(agg.Samples) < SampleSize {
			agg.Samples = append(agg.Samples, sampleRow(rec))
		}
	}
	return agg
}

func (a *Accumulator) add(v float64) {
	a.Timed++
	a.Sum += v
	if a.Min == nil || v < *a.Min {
		a.Min = ptr(v)
	}
	if a.Max == nil || v > *a.Max {
		a.Max = ptr(v)
	}
}

func resolve(rec RawRecord, keys []string) string {
	for _, k := range keys {
		if s := Stringify(lookupValue(rec, k)); s != "" {
			return s
		}
	}
	return UnknownValue
}

func lookupValue(rec RawRecord, key string) any {
	if key == "" {
		return nil
	}
	return rec[key]
}

// ParseElapsed converts a loosely typed duration value to seconds.
// NaN and infinities are rejected.
func ParseElapsed(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		v = strings.TrimSpace(t)
	case []byte:
		v = strings.TrimSpace(string(t))
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Stringify renders a scalar the way it is shown to users; nil is empty.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

func sampleRow(rec RawRecord) map[string]string {
	row := make(map[string]string, len(rec))
	for k, v := range rec {
		s := "null"
		if v != nil {
			s = truncate(Stringify(v), SampleMaxLen)
		}
		row[k] = s
	}
	return row
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func ptr(v float64) *float64 {
	return &v
}
