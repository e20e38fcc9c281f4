package source

import (
	"context"
	"errors"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"strings"
)

// Minio reads JSONL measurement dumps stored in an object bucket,
// addressed as s3://bucket/prefix. Every .jsonl object is a table.
type Minio struct {
	client *minio.Client
	bucket string
	prefix string
	keys   map[string]string // table -> object key
	cache  map[string]*jsonTable
}

func OpenMinio(ctx context.Context, location string, opts Options) (*Minio, error) {
	bucket, prefix, err := splitBucket(location)
	if err != nil {
		return nil, err
	}
	if opts.MinioEndpoint == "" {
		return nil, errors.New("minio endpoint is not configured")
	}
	client, err := minio.New(opts.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.MinioAccessKey, opts.MinioSecretKey, ""),
		Secure: opts.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, notFound(location, err)
	}
	if !exists {
		return nil, notFound(location, nil)
	}
	return &Minio{
		client: client,
		bucket: bucket,
		prefix: prefix,
		cache:  make(map[string]*jsonTable),
	}, nil
}

func (m *Minio) Tables(ctx context.Context) ([]string, error) {
	m.keys = make(map[string]string)
	var tables []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: m.prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		if KindOf(obj.Key) != KindJSONL {
			continue
		}
		name := tableName(obj.Key)
		if _, dup := m.keys[name]; dup {
			continue
		}
		m.keys[name] = obj.Key
		tables = append(tables, name)
	}
	return tables, nil
}

func (m *Minio) Columns(ctx context.Context, table string) ([]string, error) {
	data, err := m.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return data.columns, nil
}

func (m *Minio) Rows(ctx context.Context, table string) ([]analyzer.RawRecord, error) {
	data, err := m.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return data.rows, nil
}

func (m *Minio) Close() error {
	m.cache = nil
	return nil
}

func (m *Minio) load(ctx context.Context, table string) (*jsonTable, error) {
	if data, ok := m.cache[table]; ok {
		return data, nil
	}
	if m.keys == nil {
		if _, err := m.Tables(ctx); err != nil {
			return nil, err
		}
	}
	key, ok := m.keys[table]
	if !ok {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer obj.Close()

	cols, rows, err := ParseJSONL(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	data := &jsonTable{columns: cols, rows: rows}
	if m.cache == nil {
		m.cache = make(map[string]*jsonTable)
	}
	m.cache[table] = data
	return data, nil
}

func splitBucket(location string) (string, string, error) {
	rest := location[len("s3://"):]
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid bucket location: %s", location)
	}
	return bucket, prefix, nil
}
