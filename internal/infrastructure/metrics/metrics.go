package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "notifications_emitted_total",
		Help:      "Notifications synthesized by the synchronizer, by type.",
	}, []string{"type"})

	ReconcileDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skillswap",
		Name:      "notification_reconcile_duration_seconds",
		Help:      "Time spent in one notification reconcile pass.",
		Buckets:   prometheus.DefBuckets,
	})

	ReconcileErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "notification_reconcile_errors_total",
		Help:      "Reconcile passes that failed.",
	})

	ActiveSynchronizers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skillswap",
		Name:      "notification_synchronizers_active",
		Help:      "Users with a running notification poll loop.",
	})

	SwapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "swap_transitions_total",
		Help:      "Swap request state changes, by target status.",
	}, []string{"status"})
)
