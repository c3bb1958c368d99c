package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

// Metrics are the engine's counters. They live on a caller-supplied
// registry so tests can use a fresh one each time.
type Metrics struct {
	OrdersInserted *prometheus.CounterVec
	OrdersRemoved  *prometheus.CounterVec
	MatchSweeps    prometheus.Counter
	Fills          prometheus.Counter
	FilledQty      prometheus.Counter
	Dropped        *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersInserted: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tickbook_orders_inserted_total", Help: "Resting orders inserted by side"}, []string{"side"}),
		OrdersRemoved:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tickbook_orders_removed_total", Help: "Resting orders removed after a full fill by side"}, []string{"side"}),
		MatchSweeps:    prometheus.NewCounter(prometheus.CounterOpts{Name: "tickbook_match_sweeps_total", Help: "Match sweeps run"}),
		Fills:          prometheus.NewCounter(prometheus.CounterOpts{Name: "tickbook_fills_total", Help: "Crossing steps executed"}),
		FilledQty:      prometheus.NewCounter(prometheus.CounterOpts{Name: "tickbook_filled_quantity_total", Help: "Quantity crossed"}),
		Dropped:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "tickbook_dropped_operations_total", Help: "Operations discarded for an out-of-range slot"}, []string{"op"}),
	}
	reg.MustRegister(
		m.OrdersInserted, m.OrdersRemoved, m.MatchSweeps,
		m.Fills, m.FilledQty, m.Dropped,
	)
	return m
}

// Init creates a registry carrying the engine counters plus the Go and
// process collectors.
func Init(logger zerolog.Logger) (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	logger.Info().Msg("Prometheus metrics initialized")
	return reg, m
}

// Summary flattens counters and gauges gathered from g into
// name{label="value"} -> value. Families whose name does not start with
// prefix are skipped.
func Summary(g prometheus.Gatherer, prefix string) (map[string]float64, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			var v float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				v = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			out[seriesName(mf.GetName(), m.GetLabel())] = v
		}
	}
	return out, nil
}

func seriesName(name string, labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return name
	}
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		parts = append(parts, l.GetName()+`="`+l.GetValue()+`"`)
	}
	sort.Strings(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}
