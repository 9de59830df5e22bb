// Package metrics exposes Prometheus instrumentation for the playback core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the feed core.
type Metrics struct {
	registry          *prometheus.Registry
	playStartsTotal   prometheus.Counter
	autoAdvancesTotal prometheus.Counter
	playerErrorsTotal prometheus.Counter
	mediaDropsTotal   prometheus.Counter
	favoritesCount    prometheus.Gauge
	activeCard        prometheus.Gauge
}

// New creates and registers the core metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	playStartsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "festfeed_play_starts_total",
		Help: "Total number of playback starts",
	})
	autoAdvancesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "festfeed_auto_advances_total",
		Help: "Total number of end-of-media auto advances",
	})
	playerErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "festfeed_player_errors_total",
		Help: "Total number of unrecoverable player errors",
	})
	mediaDropsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "festfeed_media_resolution_failures_total",
		Help: "Total number of cards degraded to image-only after media resolution failure",
	})
	favoritesCount := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "festfeed_favorites",
		Help: "Current number of favorited events",
	})
	activeCard := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "festfeed_active_card_id",
		Help: "Id of the currently focused card (0 when none)",
	})

	registry.MustRegister(
		playStartsTotal,
		autoAdvancesTotal,
		playerErrorsTotal,
		mediaDropsTotal,
		favoritesCount,
		activeCard,
	)

	return &Metrics{
		registry:          registry,
		playStartsTotal:   playStartsTotal,
		autoAdvancesTotal: autoAdvancesTotal,
		playerErrorsTotal: playerErrorsTotal,
		mediaDropsTotal:   mediaDropsTotal,
		favoritesCount:    favoritesCount,
		activeCard:        activeCard,
	}
}

// IncPlayStarts increments the playback start counter.
func (m *Metrics) IncPlayStarts() { m.playStartsTotal.Inc() }

// IncAutoAdvances increments the auto-advance counter.
func (m *Metrics) IncAutoAdvances() { m.autoAdvancesTotal.Inc() }

// IncPlayerErrors increments the player error counter.
func (m *Metrics) IncPlayerErrors() { m.playerErrorsTotal.Inc() }

// IncMediaDrops increments the media resolution failure counter.
func (m *Metrics) IncMediaDrops() { m.mediaDropsTotal.Inc() }

// SetFavorites records the current favorites count.
func (m *Metrics) SetFavorites(n int) { m.favoritesCount.Set(float64(n)) }

// SetActiveCard records the focused card id (0 when none).
func (m *Metrics) SetActiveCard(id int) { m.activeCard.Set(float64(id)) }

// Handler returns an HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
