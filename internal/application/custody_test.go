package application

import (
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetLifecycle(t *testing.T) {
	f := newFixture(t)
	officer := f.register(t, "Hugo", "1101", "Officer")

	item, err := f.svc.RegisterItem(f.ctx, officer, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Pistol", Model: "G17"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, item.Status)
	assert.Equal(t, domain.CentralStorage, item.Location)
	assert.Regexp(t, regexp.MustCompile(`^INT-\d+-[0-9A-F]{8}$`), item.Serial)

	history, err := f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.MovementEntry, history[0].MovementType)
	assert.Equal(t, domain.EntryDestination, history[0].Destination)
	assert.Equal(t, officer.ID, *history[0].ResponsibleID)

	item, record, err := f.svc.MoveItem(f.ctx, officer, item.ID, MoveItemInput{MovementType: domain.MovementWithdraw, Selector: "Patrol Car 3"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInUse, item.Status)
	assert.Equal(t, "Patrol Car 3", item.Location)
	assert.Equal(t, "Patrol Car 3", record.Destination)

	history, err = f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	item, _, err = f.svc.MoveItem(f.ctx, officer, item.ID, MoveItemInput{MovementType: domain.MovementReturn})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAvailable, item.Status)
	assert.Equal(t, domain.CentralStorage, item.Location)

	history, err = f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.MovementReturn, history[0].MovementType)
	assert.Equal(t, domain.MovementEntry, history[2].MovementType)

	assert.Equal(t, 3.0, f.counter(t, "pcesp_custody_movements_total"))
}

func TestEvidenceLifecycleAndOtherMovements(t *testing.T) {
	f := newFixture(t)

	item, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Phone", Model: "X1", Serial: "EV-77"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInCustody, item.Status)
	assert.Equal(t, "EV-77", item.Serial)

	item, _, err = f.svc.MoveItem(f.ctx, f.chief, item.ID, MoveItemInput{
		MovementType: domain.MovementWithdraw,
		Selector:     "other",
		FreeText:     "Forensics Lab",
		Destination:  "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, item.Status)
	assert.Equal(t, "Forensics Lab", item.Location)

	item, record, err := f.svc.MoveItem(f.ctx, f.chief, item.ID, MoveItemInput{MovementType: "Inspection", Destination: "Lab bench", Note: "photographed"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInTransit, item.Status, "unknown movement types leave state alone")
	assert.Equal(t, "Forensics Lab", item.Location)
	assert.Equal(t, "Lab bench", record.Destination)

	item, _, err = f.svc.MoveItem(f.ctx, f.chief, item.ID, MoveItemInput{MovementType: domain.MovementReturn})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInCustody, item.Status)

	history, err := f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestRegisterItemValidation(t *testing.T) {
	f := newFixture(t)
	missing := uint(999)

	tests := []struct {
		name string
		in   RegisterItemInput
		want error
	}{
		{"unknown collection", RegisterItemInput{Collection: "Patrimonio", Category: "Rifle", Model: "M4"}, domain.ErrValidation},
		{"blank category", RegisterItemInput{Collection: domain.CollectionAsset, Category: " ", Model: "M4"}, domain.ErrValidation},
		{"blank model", RegisterItemInput{Collection: domain.CollectionAsset, Category: "Rifle"}, domain.ErrValidation},
		{"missing report", RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Knife", Model: "K", ReportID: &missing}, domain.ErrNotFound},
		{"missing arrest", RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Knife", Model: "K", ArrestID: &missing}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RegisterItem(f.ctx, f.chief, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	items, err := f.svc.ListItems(f.ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items, "failed registrations leave nothing behind")
}

func TestDuplicateSerialRollsBackEntry(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Radio", Model: "HT", Serial: "SN-1"})
	require.NoError(t, err)

	_, err = f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Radio", Model: "HT", Serial: "SN-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSerial)

	items, err := f.svc.ListItems(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	history, err := f.svc.ItemHistory(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestMoveItemValidation(t *testing.T) {
	f := newFixture(t)
	item, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Vest", Model: "V2"})
	require.NoError(t, err)

	_, _, err = f.svc.MoveItem(f.ctx, f.chief, item.ID, MoveItemInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.svc.MoveItem(f.ctx, f.chief, 4242, MoveItemInput{MovementType: domain.MovementReturn})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	history, err := f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestWithdrawWithoutDestinationIsStillLogged(t *testing.T) {
	f := newFixture(t)
	item, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Vest", Model: "V2"})
	require.NoError(t, err)

	moved, record, err := f.svc.MoveItem(f.ctx, f.chief, item.ID, MoveItemInput{MovementType: domain.MovementWithdraw, Selector: "other"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInUse, moved.Status)
	assert.Empty(t, moved.Location)
	assert.Empty(t, record.Destination)

	history, err := f.svc.ItemHistory(f.ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.MovementWithdraw, history[0].MovementType)
}

func TestListItemsByCollection(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Vest", Model: "V2"})
	require.NoError(t, err)
	_, err = f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Bag", Model: "B"})
	require.NoError(t, err)

	evidence := domain.CollectionEvidence
	items, err := f.svc.ListItems(f.ctx, &evidence)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.CollectionEvidence, items[0].Collection)

	bogus := domain.CollectionType("Weapons")
	_, err = f.svc.ListItems(f.ctx, &bogus)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestConcurrentCustodyWritesAreSerialized(t *testing.T) {
	f := newFixture(t)
	const workers = 40

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionAsset, Category: "Pistol", Model: "G17"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	items, err := f.svc.ListItems(f.ctx, nil)
	require.NoError(t, err)
	require.Len(t, items, workers)

	target := items[0]
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := MoveItemInput{MovementType: domain.MovementReturn}
			if i%2 == 0 {
				in = MoveItemInput{MovementType: domain.MovementWithdraw, Selector: "Patrol Car 3"}
			}
			_, _, err := f.svc.MoveItem(f.ctx, f.chief, target.ID, in)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	history, err := f.svc.ItemHistory(f.ctx, target.ID)
	require.NoError(t, err)
	assert.Len(t, history, workers+1, "every movement is appended exactly once")
}
