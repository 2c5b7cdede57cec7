package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector — Prometheus метрики ядра: записи маркеров и proximity-запросы
type Collector struct {
	gatherer prometheus.Gatherer

	MarkerWrites    *prometheus.CounterVec
	NeighborQueries prometheus.Counter
}

// NewCollector регистрирует метрики в переданном registerer,
// по умолчанию — глобальный реестр Prometheus.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	markerWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kairos_marker_writes_total",
		Help: "Total marker sequence mutations, labeled by kind and operation.",
	}, []string{"kind", "op"})
	if err := reg.Register(markerWrites); err != nil {
		return nil, err
	}

	neighborQueries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kairos_neighbor_queries_total",
		Help: "Total neighbor resolution queries.",
	})
	if err := reg.Register(neighborQueries); err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:        gatherer,
		MarkerWrites:    markerWrites,
		NeighborQueries: neighborQueries,
	}, nil
}

// Handler возвращает HTTP handler для /metrics
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
