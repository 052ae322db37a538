// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package apiserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/juju/ddosblock/core/firewall"
)

const metricsNamespace = "ddosblock"

// Outcomes of a block request, used as the outcome label.
const (
	OutcomeBlocked    = "blocked"
	OutcomeBadRequest = "bad_request"
	OutcomeFailed     = "failed"
)

// unknownType labels requests whose block type could not be parsed.
const unknownType = "unknown"

// Collector is a prometheus.Collector that collects metrics about
// block requests.
type Collector struct {
	requests        *prometheus.CounterVec
	ruleChanges     *prometheus.CounterVec
	attempts        *prometheus.HistogramVec
	requestDuration *prometheus.HistogramVec
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "The number of block requests by type and outcome.",
			}, []string{"type", "outcome"},
		),
		ruleChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rule_changes_total",
				Help:      "The number of successful blocks by type and rule change.",
			}, []string{"type", "change"},
		),
		attempts: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "attempts",
				Help:      "The number of attempts a successful block took.",
				Buckets:   []float64{1, 2, 3, 4, 5},
			}, []string{"type"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "The time taken to handle a block request.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			}, []string{"type"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.ruleChanges.Describe(ch)
	c.attempts.Describe(ch)
	c.requestDuration.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.ruleChanges.Collect(ch)
	c.attempts.Collect(ch)
	c.requestDuration.Collect(ch)
}

func (c *Collector) rejected(blockType string) {
	if _, err := firewall.ParseBlockType(blockType); err != nil {
		blockType = unknownType
	}
	c.requests.WithLabelValues(blockType, OutcomeBadRequest).Inc()
}

func (c *Collector) failed(blockType firewall.BlockType, elapsed time.Duration) {
	c.requests.WithLabelValues(string(blockType), OutcomeFailed).Inc()
	c.requestDuration.WithLabelValues(string(blockType)).Observe(elapsed.Seconds())
}

func (c *Collector) blocked(result firewall.Result, elapsed time.Duration) {
	blockType := string(result.Type)
	c.requests.WithLabelValues(blockType, OutcomeBlocked).Inc()
	c.ruleChanges.WithLabelValues(blockType, string(result.Change)).Inc()
	c.attempts.WithLabelValues(blockType).Observe(float64(result.Attempts))
	c.requestDuration.WithLabelValues(blockType).Observe(elapsed.Seconds())
}
