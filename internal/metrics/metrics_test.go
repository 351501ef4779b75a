package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.PermissionDenied("personnel.change_rank")
	m.PermissionDenied("personnel.change_rank")
	m.CustodyMovement("Asset", "Withdraw")
	m.ItemRegistered("Evidence")
	m.RankChanged()
	m.OfficerDeleted()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.permissionDenials.WithLabelValues("personnel.change_rank")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.custodyMovements.WithLabelValues("Asset", "Withdraw")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.itemsRegistered.WithLabelValues("Evidence")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rankChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.officerDeletions))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PermissionDenied("x")
		m.CustodyMovement("Asset", "Entry")
		m.ItemRegistered("Asset")
		m.RankChanged()
		m.OfficerDeleted()
	})
}
