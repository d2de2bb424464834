package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	graphqlRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webchat_graphql_requests_total",
			Help: "Total number of GraphQL operations issued by the client.",
		},
		[]string{"operation", "outcome"},
	)
	graphqlRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webchat_graphql_request_duration_seconds",
			Help:    "GraphQL operation latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	subscriptionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webchat_subscription_events_total",
			Help: "Total number of push events received per subscription.",
		},
		[]string{"subscription"},
	)
	subscriptionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "webchat_subscriptions_active",
			Help: "Number of live subscription streams on the websocket.",
		},
	)
	wsErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webchat_ws_errors_total",
			Help: "Total number of websocket transport errors.",
		},
	)
	chatAppliedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webchat_chat_applied_events_total",
			Help: "Chat synchronizer events, split by how they were handled.",
		},
		[]string{"event", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		graphqlRequestsTotal,
		graphqlRequestDuration,
		subscriptionEventsTotal,
		subscriptionsActive,
		wsErrorsTotal,
		chatAppliedEventsTotal,
	)
}

// ObserveGraphQL records outcome and latency of one GraphQL operation.
func ObserveGraphQL(operation string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	graphqlRequestsTotal.WithLabelValues(operation, outcome).Inc()
	graphqlRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// IncSubscriptionEvent counts a delivered push event.
func IncSubscriptionEvent(subscription string) {
	subscriptionEventsTotal.WithLabelValues(subscription).Inc()
}

// IncSubscriptionsActive tracks a new live stream.
func IncSubscriptionsActive() {
	subscriptionsActive.Inc()
}

// DecSubscriptionsActive tracks a completed stream.
func DecSubscriptionsActive() {
	subscriptionsActive.Dec()
}

// IncWSError counts a websocket transport error.
func IncWSError() {
	wsErrorsTotal.Inc()
}

// IncChatEvent records how the synchronizer handled an event, e.g.
// ("new_message", "appended") or ("new_message", "dropped").
func IncChatEvent(event, result string) {
	chatAppliedEventsTotal.WithLabelValues(event, result).Inc()
}
