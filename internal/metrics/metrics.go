package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchesStarted считает начатые партии по режиму
	MatchesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathduel_matches_started_total",
		Help: "Количество начатых партий",
	}, []string{"mode", "operation"})

	// MatchesFinished считает завершенные партии по режиму и исходу
	MatchesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathduel_matches_finished_total",
		Help: "Количество завершенных партий",
	}, []string{"mode", "outcome"})

	// ClaimsTotal считает ответы игроков
	ClaimsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathduel_claims_total",
		Help: "Количество попыток занять ячейку",
	}, []string{"correct"})

	// WSConnections показывает текущее число websocket-подключений
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mathduel_ws_connections",
		Help: "Активные websocket-подключения",
	})

	// HTTPRequests считает HTTP-запросы по маршруту и статусу
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mathduel_http_requests_total",
		Help: "Количество HTTP-запросов",
	}, []string{"method", "path", "status"})
)
