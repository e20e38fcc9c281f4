package report

import (
	stderrors "errors"
	"github.com/jom-io/gorig-prof/src/analyzer"
	"github.com/jom-io/gorig-prof/src/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
)

const namespace = "gorig_prof"

var (
	reportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_total",
		Help:      "Profiler reports generated, by result.",
	}, []string{"result"})

	reportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Time spent reading and analysing the profiler source.",
		Buckets:   prometheus.DefBuckets,
	})

	rowsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rows",
		Help:      "Measurement rows in the last successful report.",
	})

	bottlenecksGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bottlenecks",
		Help:      "Endpoints flagged in the last successful report, by reason.",
	}, []string{"reason"})
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, source.ErrSourceNotFound):
		return "source_not_found"
	case stderrors.Is(err, analyzer.ErrSchemaUndetectable):
		return "schema_undetectable"
	default:
		return "error"
	}
}

func observe(start time.Time, rep *Report, err error) {
	reportsTotal.WithLabelValues(resultLabel(err)).Inc()
	reportDuration.Observe(time.Since(start).Seconds())
	if err != nil || rep == nil {
		return
	}
	rowsGauge.Set(float64(rep.TotalRows))
	counts := map[analyzer.Reason]int{
		analyzer.ReasonHighAvg:   0,
		analyzer.ReasonHighPeak:  0,
		analyzer.ReasonCandidate: 0,
	}
	for _, b := range rep.Bottlenecks {
		counts[b.Reason]++
	}
	for reason, n := range counts {
		bottlenecksGauge.WithLabelValues(reason.String()).Set(float64(n))
	}
}
