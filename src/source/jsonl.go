package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"github.com/tidwall/gjson"
	"io"
	"os"
	"strings"
)

const maxLineSize = 1024 * 1024 // 1MB max per JSON line

// JSONL reads measurements dumped one JSON object per line. The file forms a
// single table named after its base name.
type JSONL struct {
	path  string
	table string
	data  *jsonTable
}

type jsonTable struct {
	columns []string
	rows    []analyzer.RawRecord
}

func OpenJSONL(path string) (*JSONL, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, notFound(path, nil)
	}
	return &JSONL{path: path, table: tableName(path)}, nil
}

func (j *JSONL) Tables(ctx context.Context) ([]string, error) {
	return []string{j.table}, nil
}

func (j *JSONL) Columns(ctx context.Context, table string) ([]string, error) {
	data, err := j.load(table)
	if err != nil {
		return nil, err
	}
	return data.columns, nil
}

func (j *JSONL) Rows(ctx context.Context, table string) ([]analyzer.RawRecord, error) {
	data, err := j.load(table)
	if err != nil {
		return nil, err
	}
	return data.rows, nil
}

func (j *JSONL) Close() error {
	j.data = nil
	return nil
}

func (j *JSONL) load(table string) (*jsonTable, error) {
	if table != j.table {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	if j.data != nil {
		return j.data, nil
	}
	f, err := os.Open(j.path)
	if err != nil {
		return nil, notFound(j.path, err)
	}
	defer f.Close()
	cols, rows, err := ParseJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", j.path, err)
	}
	j.data = &jsonTable{columns: cols, rows: rows}
	return j.data, nil
}

// ParseJSONL reads one record per line. Blank, oversized and malformed lines
// are skipped. Columns are the union of keys in first-seen order.
func ParseJSONL(r io.Reader) ([]string, []analyzer.RawRecord, error) {
	reader := bufio.NewReader(r)
	seen := make(map[string]struct{})
	var (
		cols []string
		rows []analyzer.RawRecord
	)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, err
		}
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxLineSize && gjson.Valid(line) {
			if rec, keys := parseLine(line); rec != nil {
				for _, k := range keys {
					if _, ok := seen[k]; !ok {
						seen[k] = struct{}{}
						cols = append(cols, k)
					}
				}
				rows = append(rows, rec)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return cols, rows, nil
}

func parseLine(line string) (analyzer.RawRecord, []string) {
	parsed := gjson.Parse(line)
	if !parsed.IsObject() {
		return nil, nil
	}
	rec := analyzer.RawRecord{}
	var keys []string
	parsed.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if _, dup := rec[k]; !dup {
			keys = append(keys, k)
		}
		rec[k] = jsonValue(value)
		return true
	})
	return rec, keys
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num
	case gjson.String:
		return v.Str
	default:
		return v.Raw
	}
}
