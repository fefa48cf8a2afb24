package prefetch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	outpointsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "prefetch",
		Name:      "outpoints_fetched_total",
		Help:      "Count of outpoints processed by the lookup loop, labelled by fetched/skipped_same_block/skipped_cache_hit/abandoned.",
	}, []string{"outcome"})
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "prefetch",
		Name:      "calls_total",
		Help:      "Count of FetchInputs calls, labelled by noop/completed.",
	}, []string{"outcome"})
	callDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "prefetch",
		Name:      "call_duration_seconds",
		Help:      "Wall-clock duration of a FetchInputs call that did actual work.",
		Buckets:   prometheus.DefBuckets,
	})
)

// observeOutcome records one claimed outpoint's fate as it passes through
// the lookup loop.
func observeOutcome(outcome string) {
	outpointsFetched.WithLabelValues(outcome).Inc()
}
