package report

import (
	"context"
	stderrors "errors"
	"fmt"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"github.com/jom-io/gorig-prof/src/conf"
	"github.com/jom-io/gorig-prof/src/host"
	"github.com/jom-io/gorig-prof/src/source"
	"github.com/jom-io/gorig/utils/errors"
	"github.com/jom-io/gorig/utils/logger"
	"github.com/rs/xid"
	"go.uber.org/zap"
	"os"
	"time"
)

// Opener connects to a profiler source by location.
type Opener func(ctx context.Context, location string) (source.Source, error)

type Serv struct {
	conf   conf.Config
	opener Opener
}

var serv *Serv

// S returns the service configured from the environment.
func S() *Serv {
	if serv == nil {
		serv = New(conf.Load())
	}
	return serv
}

func New(c conf.Config) *Serv {
	return &Serv{
		conf: c,
		opener: func(ctx context.Context, location string) (source.Source, error) {
			return source.Open(ctx, location, c.Minio)
		},
	}
}

// NewWithSource serves reports from an already opened source.
func NewWithSource(c conf.Config, src source.Source) *Serv {
	return &Serv{
		conf: c,
		opener: func(ctx context.Context, location string) (source.Source, error) {
			return nopCloser{src}, nil
		},
	}
}

func (s *Serv) Config() conf.Config {
	return s.conf
}

// Report analyses the configured source.
func (s *Serv) Report(ctx context.Context) (*Report, *errors.Error) {
	return s.ReportTable(ctx, s.conf.Table)
}

// ReportTable analyses the given table, detecting it when empty.
func (s *Serv) ReportTable(ctx context.Context, table string) (*Report, *errors.Error) {
	rep, err := s.analyze(ctx, table)
	if err != nil {
		if stderrors.Is(err, source.ErrSourceNotFound) || stderrors.Is(err, analyzer.ErrSchemaUndetectable) {
			return nil, errors.Verify(err.Error())
		}
		return nil, errors.Sys("Profiler report failed", err)
	}
	return rep, nil
}

// Load never fails: structural errors come back as a report carrying Error.
func (s *Serv) Load(ctx context.Context) *Report {
	rep, err := s.analyze(ctx, s.conf.Table)
	if err != nil {
		return Failed(s.conf.Source, err)
	}
	return rep
}

// Refresh regenerates the report so that the exported metrics stay current.
func (s *Serv) Refresh(ctx context.Context) {
	_ = s.Load(ctx)
}

func Failed(location string, err error) *Report {
	return &Report{
		ID:          xid.New().String(),
		GeneratedAt: time.Now(),
		Source:      location,
		Error:       err.Error(),
	}
}

func (s *Serv) analyze(ctx context.Context, table string) (rep *Report, err error) {
	start := time.Now()
	defer func() {
		observe(start, rep, err)
	}()

	src, err := s.opener(ctx, s.conf.Source)
	if err != nil {
		logger.Error(ctx, "Open profiler source failed", zap.String("source", s.conf.Source), zap.Error(err))
		return nil, err
	}
	defer func() {
		if cErr := src.Close(); cErr != nil {
			logger.Warn(ctx, "Close profiler source failed", zap.Error(cErr))
		}
	}()

	if table == "" {
		tables, tErr := src.Tables(ctx)
		if tErr != nil {
			return nil, fmt.Errorf("list tables: %w", tErr)
		}
		if table, err = analyzer.DetectTable(tables); err != nil {
			logger.Warn(ctx, "Profiler table not detected", zap.Strings("tables", tables))
			return nil, err
		}
	}

	cols, err := src.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	roles := analyzer.DetectColumns(cols)

	rows, err := src.Rows(ctx, table)
	if err != nil {
		return nil, err
	}
	res := analyzer.Analyze(rows, roles, s.conf.Policy)

	rep = &Report{
		ID:               xid.New().String(),
		GeneratedAt:      time.Now(),
		Source:           s.conf.Source,
		Table:            table,
		Columns:          roles,
		TotalRows:        res.TotalRows,
		OverallMean:      res.Thresholds.MeanAvg,
		OverallStd:       res.Thresholds.StdAvg,
		Thresholds:       res.Thresholds,
		EndpointsByCount: res.ByCount,
		EndpointsByAvg:   res.ByAvg,
		EndpointsByMax:   res.ByMax,
		Bottlenecks:      res.Bottlenecks,
		SampleRows:       res.Samples,
		SkippedElapsed:   res.Skipped,
	}
	if res.Skipped > 0 {
		logger.Info(ctx, "Elapsed values skipped", zap.String("column", roles.Elapsed), zap.Int("skipped", res.Skipped))
	}
	logger.Info(ctx, "Profiler report generated",
		zap.String("id", rep.ID),
		zap.String("table", table),
		zap.Int("rows", rep.TotalRows),
		zap.Int("endpoints", len(rep.EndpointsByCount)),
		zap.Int("bottlenecks", len(rep.Bottlenecks)),
		zap.Duration("took", time.Since(start)))
	return rep, nil
}

// Health reports whether the source is reachable plus process usage.
func (s *Serv) Health(ctx context.Context) *Health {
	h := &Health{
		OK:     true,
		Source: s.conf.Source,
		Kind:   string(source.KindOf(s.conf.Source)),
	}
	if source.IsLocal(s.conf.Source) {
		_, err := os.Stat(s.conf.Source)
		h.DBExists = err == nil
	} else if src, err := s.opener(ctx, s.conf.Source); err == nil {
		h.DBExists = true
		_ = src.Close()
	}
	if usage, err := host.Usage(ctx); err == nil {
		h.Process = usage
	} else {
		logger.Warn(ctx, "Process usage unavailable", zap.Error(err))
	}
	return h
}

type nopCloser struct {
	source.Source
}

func (nopCloser) Close() error { return nil }
