package discovery

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	hits    *prometheus.CounterVec
	fetches *prometheus.CounterVec
}

// newMetrics registers the cache metrics on reg, or reuses the collectors
// already registered there by another cache.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	hits, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oidc_discovery_cache_hits_total",
		Help: "Discovery documents served from the cache without a fetch.",
	}, []string{"authority"}))
	if err != nil {
		return nil, err
	}
	fetches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oidc_discovery_fetches_total",
		Help: "Discovery document fetches by result.",
	}, []string{"authority", "result"}))
	if err != nil {
		return nil, err
	}
	return &metrics{hits: hits, fetches: fetches}, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, err
}

func (m *metrics) hit(authority string) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(authority).Inc()
}

func (m *metrics) fetched(authority string, failed bool) {
	if m == nil {
		return
	}
	result := "success"
	if failed {
		result = "error"
	}
	m.fetches.WithLabelValues(authority, result).Inc()
}
