package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanModifyRequiresStrictSeniority(t *testing.T) {
	levels := []int{0, 10, 20, 40, 90, 100}
	for _, actor := range levels {
		for _, target := range levels {
			assert.Equal(t, actor > target, CanModify(actor, target, false), "actor=%d target=%d", actor, target)
			assert.True(t, CanModify(actor, target, true), "self action actor=%d target=%d", actor, target)
		}
	}
}

func TestCanAssignRankNeverAtOrAboveOwnLevel(t *testing.T) {
	tests := []struct {
		name     string
		actor    int
		proposed int
		want     bool
	}{
		{"lower rank", 100, 40, true},
		{"equal rank", 40, 40, false},
		{"higher rank", 20, 100, false},
		{"unranked actor granting nothing", 0, 0, false},
		{"ranked actor granting unranked", 10, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAssignRank(tt.actor, tt.proposed))
		})
	}
}

func TestCanDelete(t *testing.T) {
	chief := Officer{ID: 1, Rank: &Rank{Name: "Chief", Level: 100}}
	officer := Officer{ID: 2, Rank: &Rank{Name: "Officer", Level: 20}}
	peer := Officer{ID: 3, Rank: &Rank{Name: "Officer", Level: 20}}

	assert.True(t, CanDelete(chief, officer))
	assert.False(t, CanDelete(officer, chief))
	assert.False(t, CanDelete(officer, peer))
	assert.False(t, CanDelete(chief, chief), "self deletion is never allowed")
}

func TestCanAdminister(t *testing.T) {
	assert.True(t, CanAdminister(AdministrativeLevel))
	assert.True(t, CanAdminister(100))
	assert.False(t, CanAdminister(AdministrativeLevel-1))
	assert.False(t, CanAdminister(0))
}

func TestPeersCannotDisciplineEachOther(t *testing.T) {
	a := Officer{ID: 1, Rank: &Rank{Name: "Investigator", Level: 40}}
	b := Officer{ID: 2, Rank: &Rank{Name: "Investigator", Level: 40}}

	assert.False(t, CanModify(a.EffectiveLevel(), b.EffectiveLevel(), a.ID == b.ID))
	assert.False(t, CanModify(b.EffectiveLevel(), a.EffectiveLevel(), b.ID == a.ID))
	assert.True(t, CanModify(a.EffectiveLevel(), a.EffectiveLevel(), true))
	assert.True(t, CanModify(b.EffectiveLevel(), b.EffectiveLevel(), true))
}

func TestUnrankedOfficer(t *testing.T) {
	o := Officer{}
	assert.Equal(t, 0, o.EffectiveLevel())
	assert.Equal(t, UnrankedName, o.RankName())
	assert.Equal(t, 0, LevelOf(nil))
}
