package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "dynamictranslator"

// Event outcomes.
const (
	OutcomeTranslated = "translated"
	OutcomeSuppressed = "suppressed"
	OutcomeDetection  = "detection_failed"
	OutcomeLookup     = "lookup_failed"
	OutcomeOrganize   = "organize_failed"
)

// Cache lookup results.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheShared = "shared"
)

// Collector is a prometheus.Collector for the translation pipeline.
// A nil *Collector is valid and records nothing.
type Collector struct {
	events           *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	dispatchFailures *prometheus.CounterVec
	lookupDuration   prometheus.Histogram
}

// NewCollector returns a new Collector.
func NewCollector() *Collector {
	return &Collector{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "change_events_total",
				Help:      "The number of change events handled, by outcome.",
			}, []string{"outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "cache_lookups_total",
				Help:      "The number of result cache lookups, by result.",
			}, []string{"result"},
		),
		providerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "provider_failures_total",
				Help:      "The number of provider calls that failed a fan-out.",
			}, []string{"provider"},
		),
		dispatchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "dispatch_failures_total",
				Help:      "The number of failed notification or tracking dispatches.",
			}, []string{"sink"},
		),
		lookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "lookup_duration_seconds",
				Help:      "Time from detection start to organized result.",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
	}
}

func (c *Collector) ObserveEvent(outcome string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveCacheLookup(result string) {
	if c == nil {
		return
	}
	c.cacheLookups.WithLabelValues(result).Inc()
}

func (c *Collector) ObserveProviderFailure(provider string) {
	if c == nil {
		return
	}
	c.providerFailures.WithLabelValues(provider).Inc()
}

func (c *Collector) ObserveDispatchFailure(sink string) {
	if c == nil {
		return
	}
	c.dispatchFailures.WithLabelValues(sink).Inc()
}

func (c *Collector) ObserveLookupDuration(d time.Duration) {
	if c == nil {
		return
	}
	c.lookupDuration.Observe(d.Seconds())
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.events.Describe(ch)
	c.cacheLookups.Describe(ch)
	c.providerFailures.Describe(ch)
	c.dispatchFailures.Describe(ch)
	c.lookupDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.events.Collect(ch)
	c.cacheLookups.Collect(ch)
	c.providerFailures.Collect(ch)
	c.dispatchFailures.Collect(ch)
	c.lookupDuration.Collect(ch)
}

// NewRegistry returns a registry holding c plus the Go and process collectors.
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	if c != nil {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	return registry, nil
}
