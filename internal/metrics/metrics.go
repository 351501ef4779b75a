package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use through a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	permissionDenials *prometheus.CounterVec
	custodyMovements  *prometheus.CounterVec
	itemsRegistered   *prometheus.CounterVec
	rankChanges       prometheus.Counter
	officerDeletions  prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		permissionDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcesp_permission_denials_total",
			Help: "number of operations refused by the authorization rules",
		}, []string{"operation"}),
		custodyMovements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcesp_custody_movements_total",
			Help: "number of custody movements recorded",
		}, []string{"collection", "movement_type"}),
		itemsRegistered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pcesp_seized_items_registered_total",
			Help: "number of seized items registered",
		}, []string{"collection"}),
		rankChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcesp_rank_changes_total",
			Help: "number of promotions and demotions applied",
		}),
		officerDeletions: factory.NewCounter(prometheus.CounterOpts{
			Name: "pcesp_officer_deletions_total",
			Help: "number of officer records removed",
		}),
	}
}

func (m *Metrics) PermissionDenied(operation string) {
	if m == nil {
		return
	}
	m.permissionDenials.WithLabelValues(operation).Inc()
}

func (m *Metrics) CustodyMovement(collection, movementType string) {
	if m == nil {
		return
	}
	m.custodyMovements.WithLabelValues(collection, movementType).Inc()
}

func (m *Metrics) ItemRegistered(collection string) {
	if m == nil {
		return
	}
	m.itemsRegistered.WithLabelValues(collection).Inc()
}

func (m *Metrics) RankChanged() {
	if m == nil {
		return
	}
	m.rankChanges.Inc()
}

func (m *Metrics) OfficerDeleted() {
	if m == nil {
		return
	}
	m.officerDeletions.Inc()
}
