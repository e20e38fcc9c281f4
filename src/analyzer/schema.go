package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSchemaUndetectable = errors.New("could not detect profiler table")

var (
	canonicalTables = []string{"measurements", "requests", "profiles", "profile", "flask_profiler"}
	tableHints      = []string{"measure", "profile", "request"}
)

// DetectTable picks the measurement table: an exact canonical name wins over a
// substring match.
func DetectTable(tables []string) (string, error) {
	if len(tables) == 0 {
		return "", fmt.Errorf("%w: no tables found in profiler source", ErrSchemaUndetectable)
	}
	for _, want := range canonicalTables {
		for _, t := range tables {
			if t == want {
				return t, nil
			}
		}
	}
	for _, t := range tables {
		if containsAny(strings.ToLower(t), tableHints...) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w, found: %s", ErrSchemaUndetectable, strings.Join(tables, ", "))
}

// DetectColumns assigns the first matching column name to each role.
func DetectColumns(columns []string) ColumnRoles {
	var roles ColumnRoles
	for _, c := range columns {
		lc := strings.ToLower(c)
		if roles.Path == "" && strings.Contains(lc, "path") {
			roles.Path = c
		}
		if roles.Method == "" && strings.Contains(lc, "method") {
			roles.Method = c
		}
		if roles.Elapsed == "" && containsAny(lc, "elapsed", "time") {
			roles.Elapsed = c
		}
	}
	return roles
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
