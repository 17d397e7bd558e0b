package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runrun_http_requests_total",
			Help: "Total number of HTTP requests processed by the service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runrun_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	pushSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runrun_push_notifications_sent_total",
			Help: "Total number of push notifications sent.",
		},
		[]string{"type"},
	)
	pushSendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runrun_push_send_errors_total",
			Help: "Total number of push send failures.",
		},
		[]string{"type"},
	)
	lifecycleEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runrun_lifecycle_events_total",
			Help: "Total number of lifecycle events consumed.",
		},
		[]string{"routing_key", "result"},
	)
	cascadeRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runrun_cascade_runs_total",
			Help: "Total number of account-deletion cascades.",
		},
		[]string{"result"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "runrun_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		pushSentTotal,
		pushSendErrorsTotal,
		lifecycleEventsTotal,
		cascadeRunsTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncPushSent(notificationType string) {
	pushSentTotal.WithLabelValues(notificationType).Inc()
}

func IncPushSendError(notificationType string) {
	pushSendErrorsTotal.WithLabelValues(notificationType).Inc()
}

func IncLifecycleEvent(routingKey, result string) {
	lifecycleEventsTotal.WithLabelValues(routingKey, result).Inc()
}

func IncCascadeRun(result string) {
	cascadeRunsTotal.WithLabelValues(result).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
