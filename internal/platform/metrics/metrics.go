// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus counters for the ranking engine.

Each counter carries a single "outcome" label. Metrics live on their own registry
so tests can build independent instances, and a nil [*Metrics] is a valid no-op
recorder for code paths that run without instrumentation.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Outcome Labels

const (
	OutcomeOK           = "ok"
	OutcomeRejected     = "rejected"
	OutcomeNotFound     = "not_found"
	OutcomeInsufficient = "insufficient"
	OutcomePartial      = "partial"
	OutcomeError        = "error"
)

const namespace = "rank"

// Metrics groups the engine's counters.
type Metrics struct {
	registry *prometheus.Registry

	thingsSubmitted *prometheus.CounterVec
	votesRecorded   *prometheus.CounterVec
	pairsServed     *prometheus.CounterVec
	imageProbes     *prometheus.CounterVec
}

// New registers the engine counters plus Go runtime and process collectors
// on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	counter := func(name, help string) *prometheus.CounterVec {
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"outcome"})
		registry.MustRegister(vec)
		return vec
	}

	metrics := &Metrics{
		registry:        registry,
		thingsSubmitted: counter("things_submitted_total", "Thing submissions by outcome."),
		votesRecorded:   counter("votes_recorded_total", "Pairwise votes by outcome."),
		pairsServed:     counter("pairs_served_total", "Comparison pairs requested by outcome."),
		imageProbes:     counter("image_probes_total", "Image URL probes by outcome."),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Metrics) Handler() http.Handler {
	if metrics == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

// ThingSubmitted counts one submission attempt.
func (metrics *Metrics) ThingSubmitted(outcome string) {
	if metrics != nil {
		metrics.thingsSubmitted.WithLabelValues(outcome).Inc()
	}
}

// VoteRecorded counts one vote attempt.
func (metrics *Metrics) VoteRecorded(outcome string) {
	if metrics != nil {
		metrics.votesRecorded.WithLabelValues(outcome).Inc()
	}
}

// PairServed counts one comparison pair request.
func (metrics *Metrics) PairServed(outcome string) {
	if metrics != nil {
		metrics.pairsServed.WithLabelValues(outcome).Inc()
	}
}

// ImageProbed counts one image probe.
func (metrics *Metrics) ImageProbed(outcome string) {
	if metrics != nil {
		metrics.imageProbes.WithLabelValues(outcome).Inc()
	}
}
