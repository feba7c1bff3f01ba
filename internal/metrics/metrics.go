package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BallotsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inappvote_ballots_total",
		Help: "Ballot cast attempts by outcome (ok or error kind).",
	}, []string{"outcome"})

	CastDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inappvote_cast_duration_seconds",
		Help:    "Time spent casting a ballot, including transaction retries.",
		Buckets: prometheus.DefBuckets,
	})

	TxRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inappvote_tx_retries_total",
		Help: "Transactions re-executed after a serialization conflict.",
	})

	CollectionToggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inappvote_collection_toggles_total",
		Help: "Save/like toggles by kind and resulting change.",
	}, []string{"kind", "result"})

	ViewIncrementFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inappvote_view_increment_failures_total",
		Help: "Best-effort view count increments that were dropped.",
	})

	PollsReconciled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inappvote_polls_reconciled_total",
		Help: "Stored poll statuses rewritten by reconciliation.",
	})
)

func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		BallotsTotal,
		CastDuration,
		TxRetries,
		CollectionToggles,
		ViewIncrementFailures,
		PollsReconciled,
	)
}
