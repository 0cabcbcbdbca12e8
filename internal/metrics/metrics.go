package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons recorded on the events_dropped_total counter.
const (
	ReasonActor        = "actor"
	ReasonVisibility   = "visibility"
	ReasonRepoExcluded = "repo_excluded"
	ReasonUserIgnored  = "user_ignored"
	ReasonAction       = "action"
	ReasonUnknownType  = "unknown_type"
	ReasonEmptyPush    = "empty_push"
	ReasonTypeFilter   = "type_filter"
)

var (
	initOnce sync.Once

	eventsFetchedCounter      prometheus.Counter
	eventsDroppedCounter      *prometheus.CounterVec
	recordsEmittedCounter     *prometheus.CounterVec
	enrichmentFetchesCounter  *prometheus.CounterVec
	enrichmentFailuresCounter *prometheus.CounterVec
	assemblyDurationMetric    prometheus.Histogram
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		eventsFetchedCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "activity_events_fetched_total",
				Help: "Total number of raw events fetched from the API.",
			},
		)

		eventsDroppedCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_events_dropped_total",
				Help: "Total number of raw events dropped, by reason.",
			},
			[]string{"reason"},
		)

		recordsEmittedCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_records_emitted_total",
				Help: "Total number of activity records emitted, by type.",
			},
			[]string{"type"},
		)

		enrichmentFetchesCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_enrichment_fetches_total",
				Help: "Total number of secondary enrichment fetches, by kind.",
			},
			[]string{"kind"},
		)

		enrichmentFailuresCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "activity_enrichment_failures_total",
				Help: "Total number of failed enrichment fetches, by kind.",
			},
			[]string{"kind"},
		)

		assemblyDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "activity_assembly_duration_seconds",
				Help:    "Duration of feed assembly in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		)

		prometheus.MustRegister(
			eventsFetchedCounter,
			eventsDroppedCounter,
			recordsEmittedCounter,
			enrichmentFetchesCounter,
			enrichmentFailuresCounter,
			assemblyDurationMetric,
		)

		// Ensure counter vectors are visible at /metrics before first increment.
		for _, reason := range []string{
			ReasonActor,
			ReasonVisibility,
			ReasonRepoExcluded,
			ReasonUserIgnored,
			ReasonAction,
			ReasonUnknownType,
			ReasonEmptyPush,
			ReasonTypeFilter,
		} {
			eventsDroppedCounter.WithLabelValues(reason)
		}

		for _, kind := range []string{"pull_request", "commits"} {
			enrichmentFetchesCounter.WithLabelValues(kind)
			enrichmentFailuresCounter.WithLabelValues(kind)
		}
	})
}

func AddEventsFetched(n int) {
	Init()
	eventsFetchedCounter.Add(float64(n))
}

func IncEventDropped(reason string) {
	Init()
	eventsDroppedCounter.WithLabelValues(reason).Inc()
}

func IncRecordEmitted(recordType string) {
	Init()
	recordsEmittedCounter.WithLabelValues(recordType).Inc()
}

func IncEnrichmentFetch(kind string) {
	Init()
	enrichmentFetchesCounter.WithLabelValues(kind).Inc()
}

func IncEnrichmentFailure(kind string) {
	Init()
	enrichmentFailuresCounter.WithLabelValues(kind).Inc()
}

func ObserveAssemblyDuration(d time.Duration) {
	Init()
	assemblyDurationMetric.Observe(d.Seconds())
}
