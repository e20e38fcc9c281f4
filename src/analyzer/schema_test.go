package analyzer

import (
	"errors"
	"strings"
	"testing"
)

func TestDetectTable(t *testing.T) {
	cases := []struct {
		name   string
		tables []string
		want   string
	}{
		{"canonical", []string{"users", "measurements"}, "measurements"},
		{"canonical priority", []string{"profiles", "requests"}, "requests"},
		{"canonical over substring", []string{"request_log", "profile"}, "profile"},
		{"substring", []string{"alembic_version", "api_Measures"}, "api_Measures"},
		{"first substring", []string{"my_requests_v2", "profiling"}, "my_requests_v2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := DetectTable(c.tables)
			if err != nil {
				t.Fatalf("DetectTable(%v) failed: %v", c.tables, err)
			}
			if got != c.want {
				t.Errorf("DetectTable(%v) = %q, want %q", c.tables, got, c.want)
			}
		})
	}
}

func TestDetectTableFailures(t *testing.T) {
	_, err := DetectTable(nil)
	if !errors.Is(err, ErrSchemaUndetectable) {
		t.Fatalf("expected ErrSchemaUndetectable, got %v", err)
	}

	_, err = DetectTable([]string{"users", "quizzes"})
	if !errors.Is(err, ErrSchemaUndetectable) {
		t.Fatalf("expected ErrSchemaUndetectable, got %v", err)
	}
	if !strings.Contains(err.Error(), "users, quizzes") {
		t.Errorf("error should list candidates: %v", err)
	}
}

func TestDetectColumns(t *testing.T) {
	roles := DetectColumns([]string{"ID", "startedAt", "endedAt", "elapsed", "method", "args", "kwargs", "name", "context"})
	want := ColumnRoles{Method: "method", Elapsed: "elapsed"}
	if roles != want {
		t.Errorf("flask-profiler columns: got %+v, want %+v", roles, want)
	}

	roles = DetectColumns([]string{"id", "Request_Path", "HTTP_METHOD", "response_time_ms", "elapsed"})
	want = ColumnRoles{Path: "Request_Path", Method: "HTTP_METHOD", Elapsed: "response_time_ms"}
	if roles != want {
		t.Errorf("custom columns: got %+v, want %+v", roles, want)
	}

	if roles := DetectColumns(nil); roles != (ColumnRoles{}) {
		t.Errorf("empty columns: got %+v", roles)
	}
}

func TestPercentile(t *testing.T) {
	if got := Percentile(nil, 0.95); got != 0 {
		t.Errorf("empty percentile = %v", got)
	}
	vals := []float64{9, 1, 8, 2, 7, 3, 6, 4, 5, 10, 11}
	// floor(0.95*10) = 9 -> tenth smallest
	if got := Percentile(vals, 0.95); got != 10 {
		t.Errorf("p95 = %v, want 10", got)
	}
	if vals[0] != 9 {
		t.Errorf("input must not be reordered")
	}
}

func TestMeanStd(t *testing.T) {
	mean, std := MeanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 || std != 2 {
		t.Errorf("MeanStd = (%v, %v), want (5, 2)", mean, std)
	}
	mean, std = MeanStd(nil)
	if mean != 0 || std != 0 {
		t.Errorf("MeanStd(nil) = (%v, %v)", mean, std)
	}
}
