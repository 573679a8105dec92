package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lox/revolver/internal/driver"
)

// Metrics are the server's Prometheus collectors.
type Metrics struct {
	Games     *prometheus.CounterVec
	Actions   *prometheus.CounterVec
	Fallbacks *prometheus.CounterVec
	Turns     prometheus.Histogram
	Bots      prometheus.Gauge
	Waiting   prometheus.GaugeFunc
}

// NewMetrics creates the collectors and registers them with reg. waiting
// reports the size of the waiting room at scrape time.
func NewMetrics(reg prometheus.Registerer, waiting func() float64) *Metrics {
	m := &Metrics{
		Games: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "revolver",
				Name:      "games_total",
				Help:      "Finished games by outcome.",
			},
			[]string{"outcome"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "revolver",
				Name:      "actions_total",
				Help:      "Resolved actions by kind.",
			},
			[]string{"action"},
		),
		Fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "revolver",
				Name:      "fallbacks_total",
				Help:      "Decisions replaced by a fold, by reason.",
			},
			[]string{"reason"},
		),
		Turns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "revolver",
			Name:      "game_turns",
			Help:      "Turns taken per finished game.",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		Bots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "revolver",
			Name:      "bots_connected",
			Help:      "Bots currently connected.",
		}),
		Waiting: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "revolver",
			Name:      "bots_waiting",
			Help:      "Bots waiting for a table.",
		}, waiting),
	}
	reg.MustRegister(m.Games, m.Actions, m.Fallbacks, m.Turns, m.Bots, m.Waiting)
	return m
}

// Hooks feeds driver events into the collectors.
func (m *Metrics) Hooks() driver.Hooks {
	return driver.Hooks{
		OnTurn: func(_ context.Context, e driver.TurnEvent) {
			m.Actions.WithLabelValues(e.Step.Action.String()).Inc()
			if e.Step.Fallback != "" {
				m.Fallbacks.WithLabelValues(e.Step.Fallback).Inc()
			}
		},
		OnOutcome: func(_ context.Context, e driver.OutcomeEvent) {
			m.Games.WithLabelValues(e.Outcome.Status.String()).Inc()
			m.Turns.Observe(float64(e.Turns))
		},
	}
}
