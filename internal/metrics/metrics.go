// Package metrics holds the service's prometheus collectors
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GamesStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liarsdice_games_started_total",
		Help: "Games that left the waiting phase",
	})
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_games_finished_total",
			Help: "Games that reached game over, by how they ended",
		},
		[]string{"ending"},
	)
	RoundsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liarsdice_rounds_resolved_total",
		Help: "Challenges settled",
	})
	BidsPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liarsdice_bids_total",
		Help: "Bids accepted",
	})
	LiarCalls = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "liarsdice_liar_calls_total",
		Help: "Liar calls accepted",
	})
	Eliminations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_eliminations_total",
			Help: "Players eliminated, by result",
		},
		[]string{"result"},
	)
	QueueSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "liarsdice_matchmaking_queue_size",
			Help: "Players waiting in each lobby",
		},
		[]string{"lobby"},
	)
	ActiveGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "liarsdice_active_games",
		Help: "Games created and not yet over",
	})
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)
	HandlerPanics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liarsdice_http_panics_total",
			Help: "Handler panics recovered, by route",
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(
		GamesStarted,
		GamesFinished,
		RoundsResolved,
		BidsPlaced,
		LiarCalls,
		Eliminations,
		QueueSize,
		ActiveGames,
		HTTPRequests,
		HandlerPanics,
	)
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
