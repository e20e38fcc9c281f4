package source

import (
	"context"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"net/url"
)

// Postgres reads measurements kept by a SQL-backed profiler.
type Postgres struct {
	db *gorm.DB
}

func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, notFound(redact(dsn), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, notFound(redact(dsn), err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Tables(ctx context.Context) ([]string, error) {
	tables, err := p.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (p *Postgres) Columns(ctx context.Context, table string) ([]string, error) {
	types, err := p.db.WithContext(ctx).Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("column types %s: %w", table, err)
	}
	cols := make([]string, 0, len(types))
	for _, ct := range types {
		cols = append(cols, ct.Name())
	}
	return cols, nil
}

func (p *Postgres) Rows(ctx context.Context, table string) ([]analyzer.RawRecord, error) {
	var rows []map[string]any
	if err := p.db.WithContext(ctx).Table(table).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	result := make([]analyzer.RawRecord, 0, len(rows))
	for _, r := range rows {
		result = append(result, analyzer.RawRecord(r))
	}
	return result, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}
