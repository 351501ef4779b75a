package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/google/uuid"
)

type RegisterItemInput struct {
	Collection domain.CollectionType
	Category   string
	Model      string
	Brand      string
	Caliber    string
	Serial     string
	ReportID   *uint
	ArrestID   *uint
}

// MoveItemInput mirrors the movement form: Selector is the picked
// destination, FreeText is used when Selector is "other", and Destination is
// the plain fallback field.
type MoveItemInput struct {
	MovementType domain.MovementType
	Selector     string
	FreeText     string
	Destination  string
	Note         string
}

// RegisterItem creates a seized item together with its Entry movement.
func (s *RecordsService) RegisterItem(ctx context.Context, actor domain.Officer, in RegisterItemInput) (domain.SeizedItem, error) {
	if !in.Collection.Valid() {
		return domain.SeizedItem{}, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, in.Collection)
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Model = strings.TrimSpace(in.Model)
	if in.Category == "" || in.Model == "" {
		return domain.SeizedItem{}, fmt.Errorf("%w: category and model are required", domain.ErrValidation)
	}
	serial := strings.TrimSpace(in.Serial)
	if serial == "" {
		serial = s.syntheticSerial()
	}
	if in.ReportID != nil {
		if _, err := s.repo.GetReportByID(ctx, *in.ReportID); err != nil {
			return domain.SeizedItem{}, fmt.Errorf("linked report: %w", err)
		}
	}
	if in.ArrestID != nil {
		if _, err := s.repo.GetArrestByID(ctx, *in.ArrestID); err != nil {
			return domain.SeizedItem{}, fmt.Errorf("linked arrest: %w", err)
		}
	}

	var item domain.SeizedItem
	err := s.repo.Transaction(ctx, func(tx domain.RecordsRepository) error {
		var err error
		item, err = tx.CreateSeizedItem(ctx, domain.SeizedItem{
			Collection: in.Collection,
			Category:   in.Category,
			Model:      in.Model,
			Brand:      strings.TrimSpace(in.Brand),
			Caliber:    strings.TrimSpace(in.Caliber),
			Serial:     serial,
			Status:     domain.InitialStatus(in.Collection),
			Location:   domain.CentralStorage,
			ReportID:   in.ReportID,
			ArrestID:   in.ArrestID,
		})
		if err != nil {
			return err
		}
		_, err = tx.CreateMovement(ctx, domain.MovementRecord{
			ItemID:        item.ID,
			ResponsibleID: &actor.ID,
			MovementType:  domain.MovementEntry,
			Destination:   domain.EntryDestination,
			Note:          domain.EntryNote,
		})
		return err
	})
	if err != nil {
		return domain.SeizedItem{}, err
	}

	s.metrics.ItemRegistered(string(item.Collection))
	s.metrics.CustodyMovement(string(item.Collection), string(domain.MovementEntry))
	s.WriteAudit(ctx, &actor.ID, "custody.register", "seized_item", &item.ID, item.Serial)
	return item, nil
}

// MoveItem records a movement and, for Withdraw and Return, the resulting
// status and location change, atomically.
func (s *RecordsService) MoveItem(ctx context.Context, actor domain.Officer, itemID uint, in MoveItemInput) (domain.SeizedItem, domain.MovementRecord, error) {
	movement := domain.MovementType(strings.TrimSpace(string(in.MovementType)))
	if movement == "" {
		return domain.SeizedItem{}, domain.MovementRecord{}, fmt.Errorf("%w: movement type is required", domain.ErrValidation)
	}
	destination := domain.ResolveDestination(in.Selector, in.FreeText, in.Destination)

	var (
		item   domain.SeizedItem
		record domain.MovementRecord
	)
	err := s.repo.Transaction(ctx, func(tx domain.RecordsRepository) error {
		current, err := tx.GetSeizedItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		item = current
		if next, changed := domain.ApplyMovement(current, movement, destination); changed {
			item, err = tx.UpdateSeizedItemState(ctx, current.ID, next.Status, next.Location)
			if err != nil {
				return err
			}
		}
		record, err = tx.CreateMovement(ctx, domain.MovementRecord{
			ItemID:        current.ID,
			ResponsibleID: &actor.ID,
			MovementType:  movement,
			Destination:   destination,
			Note:          strings.TrimSpace(in.Note),
		})
		return err
	})
	if err != nil {
		return domain.SeizedItem{}, domain.MovementRecord{}, err
	}

	s.metrics.CustodyMovement(string(item.Collection), string(movement))
	s.WriteAudit(ctx, &actor.ID, "custody.move", "seized_item", &item.ID, fmt.Sprintf("%s %s", movement, destination))
	return item, record, nil
}

func (s *RecordsService) GetItem(ctx context.Context, itemID uint) (domain.SeizedItem, error) {
	return s.repo.GetSeizedItemByID(ctx, itemID)
}

// ItemHistory lists the movements of an item, most recent first.
func (s *RecordsService) ItemHistory(ctx context.Context, itemID uint) ([]domain.MovementRecord, error) {
	if _, err := s.repo.GetSeizedItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.ListMovements(ctx, itemID)
}

func (s *RecordsService) ListItems(ctx context.Context, collection *domain.CollectionType) ([]domain.SeizedItem, error) {
	if collection != nil && !collection.Valid() {
		return nil, fmt.Errorf("%w: unknown collection %q", domain.ErrValidation, *collection)
	}
	return s.repo.ListSeizedItems(ctx, domain.SeizedItemFilter{Collection: collection})
}

func (s *RecordsService) syntheticSerial() string {
	return fmt.Sprintf("INT-%d-%s", s.now().Unix(), strings.ToUpper(uuid.NewString()[:8]))
}
