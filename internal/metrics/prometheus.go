package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	geocodeLookups   *prometheus.CounterVec
	geocodeCache     *prometheus.CounterVec
	routingResponses *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	metrics := &Metrics{
		geocodeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Geocode lookups by direction and outcome",
		}, []string{"direction", "outcome"}),
		geocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geocode_cache_total",
			Help: "Geocode cache lookups by outcome",
		}, []string{"outcome"}),
		routingResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "routing_responses_total",
			Help: "Route computations by serving backend",
		}, []string{"service"}),
	}
	metrics.register()
	return metrics
}

func (m *Metrics) register() {
	prometheus.MustRegister(m.geocodeLookups)
	prometheus.MustRegister(m.geocodeCache)
	prometheus.MustRegister(m.routingResponses)
}

func (m *Metrics) IncrementGeocodeLookups(direction string, resolved bool) {
	outcome := "resolved"
	if !resolved {
		outcome = "unresolved"
	}
	m.geocodeLookups.WithLabelValues(direction, outcome).Inc()
}

func (m *Metrics) IncrementGeocodeCache(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.geocodeCache.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementRoutingResponses(service string) {
	m.routingResponses.WithLabelValues(service).Inc()
}
