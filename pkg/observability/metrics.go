package observability

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/checkmark/pkg/domain"
)

const namespace = "checkmark"

// Metrics holds the Prometheus collectors of one tracker process.
type Metrics struct {
	registry *prometheus.Registry

	nodeChanges    *prometheus.CounterVec
	sectionChanges *prometheus.CounterVec
	reconciles     *prometheus.CounterVec
	commands       *prometheus.CounterVec
	unsaved        prometheus.Counter
	locations      *prometheus.GaugeVec
	remaining      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nodeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "node_changes_total",
			Help:      "Settled node accessibility changes, by new level",
		}, []string{"to"}),
		sectionChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_changes_total",
			Help:      "Section state or derived value changes",
		}, []string{"kind", "accessibility"}),
		reconciles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconciles_total",
			Help:      "Sections rewritten from auto-tracker readings",
		}, []string{"kind"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Executed, undone and redone commands",
		}, []string{"command", "undo", "result"}),
		unsaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unsaved_total",
			Help:      "Times auto-tracking changed persisted state",
		}),
		locations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locations",
			Help:      "Locations by current accessibility",
		}, []string{"accessibility"}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "remaining_items",
			Help:      "Items left to collect across all sections",
		}),
	}
	m.registry.MustRegister(
		m.nodeChanges,
		m.sectionChanges,
		m.reconciles,
		m.commands,
		m.unsaved,
		m.locations,
		m.remaining,
	)
	return m
}

// Registry exposes the registry, for tests and for adding process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks feeding the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeChange: func(_ context.Context, e *domain.NodeEvent) {
			m.nodeChanges.WithLabelValues(e.To.String()).Inc()
		},
		OnSectionChange: func(_ context.Context, e *domain.SectionEvent) {
			m.sectionChanges.WithLabelValues(string(e.Kind), e.Accessibility.String()).Inc()
		},
		OnReconcile: func(_ context.Context, e *domain.SectionEvent) {
			m.reconciles.WithLabelValues(string(e.Kind)).Inc()
		},
		OnCommand: func(_ context.Context, e *domain.CommandEvent) {
			result := "ok"
			if e.IsError {
				result = "error"
			}
			m.commands.WithLabelValues(commandKind(e.Name), strconv.FormatBool(e.Undo), result).Inc()
		},
		OnUnsaved: func(context.Context) {
			m.unsaved.Inc()
		},
	}
}

// Observe refreshes the gauges from a status view.
func (m *Metrics) Observe(locs []domain.LocationStatus) {
	counts := make(map[domain.AccessibilityLevel]int, len(domain.Levels))
	remaining := 0
	for _, loc := range locs {
		if loc.Remaining() == 0 {
			continue
		}
		counts[loc.Accessibility()]++
		remaining += loc.Remaining()
	}
	for _, level := range domain.Levels {
		m.locations.WithLabelValues(level.String()).Set(float64(counts[level]))
	}
	m.remaining.Set(float64(remaining))
}

// commandKind keeps label cardinality bounded: "collect hyrule/0" becomes "collect".
func commandKind(name string) string {
	kind, _, _ := strings.Cut(name, " ")
	return kind
}
