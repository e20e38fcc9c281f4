package source

import (
	"context"
	"errors"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"path/filepath"
	"strings"
)

var ErrSourceNotFound = errors.New("profiler source not found")

// Source is a readable set of measurement tables.
type Source interface {
	Tables(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]string, error)
	Rows(ctx context.Context, table string) ([]analyzer.RawRecord, error)
	Close() error
}

type Options struct {
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool
}

type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindJSONL    Kind = "jsonl"
	KindMinio    Kind = "s3"
)

// KindOf classifies a location string.
func KindOf(location string) Kind {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return KindPostgres
	case strings.HasPrefix(lower, "s3://"):
		return KindMinio
	case strings.HasSuffix(lower, ".jsonl"), strings.HasSuffix(lower, ".ndjson"):
		return KindJSONL
	default:
		return KindSQLite
	}
}

// IsLocal reports whether the location is a file on this host.
func IsLocal(location string) bool {
	k := KindOf(location)
	return k == KindSQLite || k == KindJSONL
}

// Open connects to the source at location. A missing location yields an
// error wrapping ErrSourceNotFound.
func Open(ctx context.Context, location string, opts Options) (Source, error) {
	switch KindOf(location) {
	case KindPostgres:
		return OpenPostgres(ctx, location)
	case KindMinio:
		return OpenMinio(ctx, location, opts)
	case KindJSONL:
		return OpenJSONL(location)
	default:
		return OpenSQLite(ctx, location)
	}
}

func notFound(location string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, location)
	}
	return fmt.Errorf("%w: %s: %v", ErrSourceNotFound, location, cause)
}

func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
