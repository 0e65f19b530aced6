// Package tickprom exports tick.Machine counters to Prometheus.
//
// A Machine is single-threaded while scrapes arrive on other goroutines, so
// the collector serves the last sample taken with Sample. Call Sample from the
// goroutine that drives the machine, typically right after Advance.
package tickprom

import (
	"sync"

	"github.com/delaneyj/ticksignals/tick"
	"github.com/prometheus/client_golang/prometheus"
)

type Option func(*config)

type config struct {
	namespace   string
	subsystem   string
	constLabels prometheus.Labels
}

// WithNamespace sets the metrics namespace (default: "tick").
func WithNamespace(namespace string) Option {
	return func(c *config) {
		c.namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *config) {
		c.subsystem = subsystem
	}
}

// WithConstLabels adds constant labels, e.g. to tell several machines apart.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *config) {
		c.constLabels = labels
	}
}

type Collector struct {
	m *tick.Machine

	mu    sync.Mutex
	stats tick.Stats

	signals        *prometheus.Desc
	bindings       *prometheus.Desc
	advances       *prometheus.Desc
	dispatches     *prometheus.Desc
	callbackErrors *prometheus.Desc
}

func NewCollector(m *tick.Machine, opts ...Option) *Collector {
	cfg := config{namespace: "tick"}
	for _, opt := range opts {
		opt(&cfg)
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(cfg.namespace, cfg.subsystem, name),
			help, nil, cfg.constLabels,
		)
	}

	c := &Collector{
		m:              m,
		signals:        desc("signals", "Signals registered with the machine"),
		bindings:       desc("bindings", "Bindings registered with the machine"),
		advances:       desc("advances_total", "Advance cycles run"),
		dispatches:     desc("dispatches_total", "Binding callbacks dispatched"),
		callbackErrors: desc("callback_errors_total", "Binding callbacks that returned an error"),
	}
	c.Sample()
	return c
}

// Sample copies the machine's current stats for the next scrape.
func (c *Collector) Sample() {
	stats := c.m.Stats()
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.signals
	ch <- c.bindings
	ch <- c.advances
	ch <- c.dispatches
	ch <- c.callbackErrors
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	s := c.stats
	c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.signals, prometheus.GaugeValue, float64(s.Signals))
	ch <- prometheus.MustNewConstMetric(c.bindings, prometheus.GaugeValue, float64(s.Bindings))
	ch <- prometheus.MustNewConstMetric(c.advances, prometheus.CounterValue, float64(s.Advances))
	ch <- prometheus.MustNewConstMetric(c.dispatches, prometheus.CounterValue, float64(s.Dispatches))
	ch <- prometheus.MustNewConstMetric(c.callbackErrors, prometheus.CounterValue, float64(s.CallbackErrors))
}
