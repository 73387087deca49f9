// Package metrics provides Prometheus metrics for the relationship engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors. All fields are created
// by NewMetrics; a nil *Metrics disables instrumentation.
type Metrics struct {
	VersionsAdded     prometheus.Counter
	DuplicateVersions prometheus.Counter

	ReferencesAdded    prometheus.Counter
	ReferencesDeleted  prometheus.Counter
	ReferencesMigrated prometheus.Counter

	AnalyticsRecomputes prometheus.Counter
	ViewsRecorded       prometheus.Counter

	ConflictsReported prometheus.Counter
	ConflictsResolved prometheus.Counter

	NotificationsCreated prometheus.Counter

	IntegrityChecks *prometheus.CounterVec // label: result = ok|mismatch|missing
}

// NewMetrics creates and registers all engine metrics. A nil registerer
// uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		VersionsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_versions_added_total",
			Help: "Total number of document versions created",
		}),
		DuplicateVersions: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_versions_duplicate_total",
			Help: "Total number of idempotent re-adds of an existing version",
		}),
		ReferencesAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_references_added_total",
			Help: "Total number of reference edges created",
		}),
		ReferencesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_references_deleted_total",
			Help: "Total number of reference edges deleted",
		}),
		ReferencesMigrated: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_references_migrated_total",
			Help: "Total number of reference edges rebound during version migration",
		}),
		AnalyticsRecomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_analytics_recomputes_total",
			Help: "Total number of reference-analytics recomputations",
		}),
		ViewsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_views_recorded_total",
			Help: "Total number of document view events",
		}),
		ConflictsReported: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_conflicts_reported_total",
			Help: "Total number of document conflicts reported",
		}),
		ConflictsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_conflicts_resolved_total",
			Help: "Total number of document conflicts resolved",
		}),
		NotificationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "relgraph_notifications_created_total",
			Help: "Total number of update notifications created",
		}),
		IntegrityChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "relgraph_integrity_checks_total",
			Help: "Total number of document integrity verifications",
		}, []string{"result"}),
	}
}
