package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fareResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planillabus_fare_resolutions_total",
		Help: "Fare profile resolutions by outcome (matched, no_profiles, no_window_match)",
	}, []string{"reason"})
	manifestBlocked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planillabus_manifest_blocked_total",
		Help: "Ticket operations refused because the manifest was closed or voided",
	}, []string{"reason"})
	ticketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "planillabus_tickets_created_total",
		Help: "Tickets persisted",
	})
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planillabus_upstream_requests_total",
		Help: "Calls to the remote reference data API by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "planillabus_http_requests_total",
		Help: "HTTP requests served",
	}, []string{"method", "route", "status"})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planillabus_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func FareResolved(reason string) {
	fareResolutions.WithLabelValues(reason).Inc()
}

func ManifestBlocked(reason string) {
	manifestBlocked.WithLabelValues(reason).Inc()
}

func TicketCreated() {
	ticketsCreated.Inc()
}

func UpstreamCall(endpoint, outcome string) {
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveHTTP records one served request. route is the matched pattern, not
// the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
