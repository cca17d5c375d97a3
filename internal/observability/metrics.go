package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthOutcomes counts guard and login results by strategy and outcome.
	AuthOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myfilmfriends_auth_outcomes_total",
		Help: "Authentication outcomes by strategy and result",
	}, []string{"strategy", "outcome"})

	// PasswordResets counts password reset attempts by outcome.
	PasswordResets = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myfilmfriends_password_resets_total",
		Help: "Password reset requests and consumptions by outcome",
	}, []string{"stage", "outcome"})

	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myfilmfriends_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// NotificationsPublished counts realtime notification publishes.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "myfilmfriends_notifications_published_total",
		Help: "Notifications published to realtime subscribers",
	}, []string{"outcome"})

	// WebSocketConnections is the gauge of open notification sockets.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "myfilmfriends_websocket_connections",
		Help: "Number of open notification WebSocket connections",
	})
)
