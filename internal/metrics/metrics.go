package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutrition",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	mealMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Subsystem: "meal",
			Name:      "mutations_total",
			Help:      "Meal mutations by kind and outcome.",
		},
		[]string{"mutation", "outcome"},
	)

	snapshotsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Subsystem: "meal",
			Name:      "snapshots_written_total",
			Help:      "History snapshots inserted into the ledger.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutrition",
			Subsystem: "ingredient_cache",
			Name:      "lookups_total",
			Help:      "Ingredient cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		mealMutations,
		snapshotsWritten,
		cacheLookups,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordMealMutation counts one versioning attempt. outcome is "ok" or the error kind.
func RecordMealMutation(mutation, outcome string) {
	mealMutations.WithLabelValues(mutation, outcome).Inc()
}

func RecordSnapshot() {
	snapshotsWritten.Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
