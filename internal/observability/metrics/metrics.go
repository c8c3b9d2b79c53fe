// Package metrics provides Prometheus metrics for link checks and prompt
// performance, written in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/jonathan/prompt-library/internal/fetch"
	"github.com/jonathan/prompt-library/internal/ranking"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "prompt"

// LinkMetrics holds the gauges describing one link-check run.
type LinkMetrics struct {
	registry *prometheus.Registry

	LinksChecked prometheus.Gauge
	LinksBroken  prometheus.Gauge
	Platforms    *prometheus.GaugeVec
	BrokenByHost *prometheus.GaugeVec
}

// NewLinkMetrics creates link gauges on a private registry.
func NewLinkMetrics() *LinkMetrics {
	m := &LinkMetrics{
		registry: prometheus.NewRegistry(),
		LinksChecked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links_checked",
			Help:      "Number of demo links checked in the last run",
		}),
		LinksBroken: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links_broken",
			Help:      "Number of demo links found unreachable in the last run",
		}),
		Platforms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links_by_platform",
			Help:      "Number of demo links checked per video platform",
		}, []string{"platform"}),
		BrokenByHost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "links_broken_by_platform",
			Help:      "Number of unreachable demo links per video platform",
		}, []string{"platform"}),
	}
	m.registry.MustRegister(m.LinksChecked, m.LinksBroken, m.Platforms, m.BrokenByHost)
	return m
}

// Observe records the results of a link-check run.
func (m *LinkMetrics) Observe(results []fetch.LinkResult) {
	m.LinksChecked.Set(float64(len(results)))
	m.LinksBroken.Set(float64(fetch.BrokenCount(results)))

	for _, r := range results {
		platform := string(r.Platform)
		if platform == "" {
			platform = "unknown"
		}
		m.Platforms.WithLabelValues(platform).Inc()
		if !r.Reachable {
			m.BrokenByHost.WithLabelValues(platform).Inc()
		}
	}
}

// Registry exposes the private registry, mainly for tests.
func (m *LinkMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the gauges to path atomically.
func (m *LinkMetrics) WriteTextfile(path string) error {
	return writeTextfile(path, m.registry)
}

// PerformanceMetrics holds the per-prompt score gauges of a ranking run.
type PerformanceMetrics struct {
	registry *prometheus.Registry

	Ranked        prometheus.Gauge
	Featured      prometheus.Gauge
	WeightedScore *prometheus.GaugeVec
	CategoryScore *prometheus.GaugeVec
}

// NewPerformanceMetrics creates performance gauges on a private registry.
func NewPerformanceMetrics() *PerformanceMetrics {
	m := &PerformanceMetrics{
		registry: prometheus.NewRegistry(),
		Ranked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ranked_total",
			Help:      "Number of prompts with performance data",
		}),
		Featured: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "featured_total",
			Help:      "Number of prompts selected as top performers",
		}),
		WeightedScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weighted_score",
			Help:      "Weighted performance score per prompt",
		}, []string{"title", "category"}),
		CategoryScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_average_score",
			Help:      "Average weighted score per category",
		}, []string{"category"}),
	}
	m.registry.MustRegister(m.Ranked, m.Featured, m.WeightedScore, m.CategoryScore)
	return m
}

// Observe records every ranked prompt, the featured subset, and category averages.
func (m *PerformanceMetrics) Observe(all, top []ranking.PromptPerformance, breakdown []ranking.CategorySummary) {
	m.Ranked.Set(float64(len(all)))
	m.Featured.Set(float64(len(top)))

	for _, perf := range all {
		m.WeightedScore.WithLabelValues(perf.Title, perf.Category).Set(perf.WeightedScore)
	}
	for _, summary := range breakdown {
		m.CategoryScore.WithLabelValues(summary.Category).Set(summary.AverageScore)
	}
}

// Registry exposes the private registry, mainly for tests.
func (m *PerformanceMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the gauges to path atomically.
func (m *PerformanceMetrics) WriteTextfile(path string) error {
	return writeTextfile(path, m.registry)
}

func writeTextfile(path string, registry *prometheus.Registry) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
