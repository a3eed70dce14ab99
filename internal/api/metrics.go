package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ahp_http_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_decisions_total",
		Help: "Decisions created and deleted",
	}, []string{"event"})

	judgmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_judgments_total",
		Help: "Judgment edits by mode (set or submit)",
	}, []string{"mode"})

	inconsistentGroupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ahp_inconsistent_groups_total",
		Help: "Judgment edits leaving a group above the consistency threshold",
	})

	rankingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ahp_rankings_total",
		Help: "Ranking requests by outcome",
	}, []string{"outcome"})
)
