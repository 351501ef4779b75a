package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"go.uber.org/zap"
)

type RegisterOfficerInput struct {
	Name       string
	Badge      string
	Password   string
	RankID     *uint
	Station    string
	Department string
	Address    string
	Notes      string
	PhotoName  string
	Photo      io.Reader
}

// ProfileUpdate changes only the fields that are non-nil. An empty Password
// keeps the current credential.
type ProfileUpdate struct {
	Name       *string
	Badge      *string
	Password   *string
	Station    *string
	Department *string
	Address    *string
	Notes      *string
	PhotoName  string
	Photo      io.Reader
}

func (s *RecordsService) RegisterOfficer(ctx context.Context, actor domain.Officer, in RegisterOfficerInput) (domain.Officer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Badge = strings.TrimSpace(in.Badge)
	if in.Name == "" || in.Badge == "" || in.Password == "" {
		return domain.Officer{}, fmt.Errorf("%w: name, badge and password are required", domain.ErrValidation)
	}

	requestedLevel := 0
	if in.RankID != nil {
		rank, err := s.repo.GetRankByID(ctx, *in.RankID)
		if err != nil {
			return domain.Officer{}, fmt.Errorf("requested rank: %w", err)
		}
		requestedLevel = rank.Level
	}
	if !domain.CanAssignRank(actor.EffectiveLevel(), requestedLevel) {
		return domain.Officer{}, s.deny(actor, "personnel.register")
	}

	if _, err := s.repo.GetOfficerByBadge(ctx, in.Badge); err == nil {
		return domain.Officer{}, fmt.Errorf("%w: %s", domain.ErrDuplicateBadge, in.Badge)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Officer{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Officer{}, err
	}

	photo := domain.DefaultPhoto
	if in.Photo != nil {
		ref, err := s.savePhoto(ctx, in.PhotoName, in.Photo)
		if err != nil {
			return domain.Officer{}, err
		}
		photo = ref
	}

	officer, err := s.repo.CreateOfficer(ctx, domain.Officer{
		Name:         in.Name,
		Badge:        in.Badge,
		PasswordHash: hash,
		RankID:       in.RankID,
		Station:      strings.TrimSpace(in.Station),
		Department:   strings.TrimSpace(in.Department),
		Address:      strings.TrimSpace(in.Address),
		Notes:        in.Notes,
		Photo:        photo,
	})
	if err != nil {
		s.discardFile(ctx, photo)
		return domain.Officer{}, err
	}

	s.WriteAudit(ctx, &actor.ID, "personnel.register", "officer", &officer.ID, officer.Badge)
	return officer, nil
}

func (s *RecordsService) UpdateProfile(ctx context.Context, actor domain.Officer, targetID uint, update ProfileUpdate) (domain.Officer, error) {
	target, err := s.repo.GetOfficerByID(ctx, targetID)
	if err != nil {
		return domain.Officer{}, err
	}
	if !domain.CanModify(actor.EffectiveLevel(), target.EffectiveLevel(), actor.ID == target.ID) {
		return domain.Officer{}, s.deny(actor, "personnel.update_profile")
	}

	changed := target
	if update.Name != nil {
		changed.Name = strings.TrimSpace(*update.Name)
	}
	if update.Badge != nil {
		changed.Badge = strings.TrimSpace(*update.Badge)
	}
	if changed.Name == "" || changed.Badge == "" {
		return domain.Officer{}, fmt.Errorf("%w: name and badge must not be empty", domain.ErrValidation)
	}
	if changed.Badge != target.Badge {
		existing, err := s.repo.GetOfficerByBadge(ctx, changed.Badge)
		if err == nil && existing.ID != target.ID {
			return domain.Officer{}, fmt.Errorf("%w: %s", domain.ErrDuplicateBadge, changed.Badge)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.Officer{}, err
		}
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := s.hasher.Hash(*update.Password)
		if err != nil {
			return domain.Officer{}, err
		}
		changed.PasswordHash = hash
	}
	if update.Station != nil {
		changed.Station = strings.TrimSpace(*update.Station)
	}
	if update.Department != nil {
		changed.Department = strings.TrimSpace(*update.Department)
	}
	if update.Address != nil {
		changed.Address = strings.TrimSpace(*update.Address)
	}
	if update.Notes != nil {
		changed.Notes = *update.Notes
	}
	if update.Photo != nil {
		ref, err := s.savePhoto(ctx, update.PhotoName, update.Photo)
		if err != nil {
			return domain.Officer{}, err
		}
		changed.Photo = ref
	}

	updated, err := s.repo.UpdateOfficer(ctx, changed)
	if err != nil {
		if changed.Photo != target.Photo {
			s.discardFile(ctx, changed.Photo)
		}
		return domain.Officer{}, err
	}
	if updated.Photo != target.Photo {
		s.discardFile(ctx, target.Photo)
	}

	s.WriteAudit(ctx, &actor.ID, "personnel.update_profile", "officer", &updated.ID, "")
	return updated, nil
}

// ChangeRank promotes or demotes target to newRankID; nil removes the rank.
// Asking for the rank the officer already holds is a no-op that writes no
// history and is answered before any permission check.
func (s *RecordsService) ChangeRank(ctx context.Context, actor domain.Officer, targetID uint, newRankID *uint, reason string) (domain.Officer, error) {
	target, err := s.repo.GetOfficerByID(ctx, targetID)
	if err != nil {
		return domain.Officer{}, err
	}
	if sameRank(target.RankID, newRankID) {
		return target, nil
	}

	var newRank *domain.Rank
	if newRankID != nil {
		rank, err := s.repo.GetRankByID(ctx, *newRankID)
		if err != nil {
			return domain.Officer{}, fmt.Errorf("new rank: %w", err)
		}
		newRank = &rank
	}

	actorLevel := actor.EffectiveLevel()
	if !domain.CanAssignRank(actorLevel, domain.LevelOf(newRank)) ||
		!domain.CanModify(actorLevel, target.EffectiveLevel(), false) {
		return domain.Officer{}, s.deny(actor, "personnel.change_rank")
	}

	var updated domain.Officer
	err = s.repo.Transaction(ctx, func(tx domain.RecordsRepository) error {
		current, err := tx.GetOfficerByID(ctx, targetID)
		if err != nil {
			return err
		}
		record := domain.PromotionRecord{
			OfficerID:         current.ID,
			OfficerName:       current.Name,
			AuthorID:          &actor.ID,
			PreviousRankName:  current.RankName(),
			PreviousRankLevel: current.EffectiveLevel(),
			NewRankName:       domain.UnrankedName,
			NewRankLevel:      domain.LevelOf(newRank),
			Reason:            strings.TrimSpace(reason),
		}
		if newRank != nil {
			record.NewRankName = newRank.Name
		}
		if _, err := tx.CreatePromotion(ctx, record); err != nil {
			return err
		}
		current.RankID = newRankID
		updated, err = tx.UpdateOfficer(ctx, current)
		return err
	})
	if err != nil {
		return domain.Officer{}, err
	}

	s.metrics.RankChanged()
	s.WriteAudit(ctx, &actor.ID, "personnel.change_rank", "officer", &updated.ID,
		fmt.Sprintf("%s -> %s", target.RankName(), updated.RankName()))
	return updated, nil
}

func (s *RecordsService) ApplyDiscipline(ctx context.Context, author domain.Officer, targetID uint, category, description string) (domain.DisciplinaryRecord, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.DisciplinaryRecord{}, fmt.Errorf("%w: category is required", domain.ErrValidation)
	}
	target, err := s.repo.GetOfficerByID(ctx, targetID)
	if err != nil {
		return domain.DisciplinaryRecord{}, err
	}
	if !domain.CanModify(author.EffectiveLevel(), target.EffectiveLevel(), false) {
		return domain.DisciplinaryRecord{}, s.deny(author, "personnel.discipline")
	}

	record, err := s.repo.CreateDisciplinaryRecord(ctx, domain.DisciplinaryRecord{
		OfficerID:   target.ID,
		OfficerName: target.Name,
		AuthorID:    &author.ID,
		Category:    category,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return domain.DisciplinaryRecord{}, err
	}
	s.WriteAudit(ctx, &author.ID, "personnel.discipline", "officer", &target.ID, category)
	return record, nil
}

// DeleteOfficer removes the officer. Promotion and disciplinary history stays
// queryable by the former officer id.
func (s *RecordsService) DeleteOfficer(ctx context.Context, actor domain.Officer, targetID uint) error {
	target, err := s.repo.GetOfficerByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor, target) {
		return s.deny(actor, "personnel.delete")
	}
	if err := s.repo.DeleteOfficer(ctx, target.ID); err != nil {
		return err
	}
	s.discardFile(ctx, target.Photo)

	s.metrics.OfficerDeleted()
	s.WriteAudit(ctx, &actor.ID, "personnel.delete", "officer", &target.ID, target.Name)
	return nil
}

func (s *RecordsService) ListOfficers(ctx context.Context, query string, limit int) ([]domain.Officer, error) {
	return s.repo.ListOfficers(ctx, query, clampLimit(limit, 200, 2000))
}

func (s *RecordsService) GetProfile(ctx context.Context, officerID uint) (domain.OfficerProfile, error) {
	officer, err := s.repo.GetOfficerByID(ctx, officerID)
	if err != nil {
		return domain.OfficerProfile{}, err
	}
	promotions, err := s.repo.ListPromotions(ctx, officerID)
	if err != nil {
		return domain.OfficerProfile{}, err
	}
	disciplinary, err := s.repo.ListDisciplinaryRecords(ctx, officerID)
	if err != nil {
		return domain.OfficerProfile{}, err
	}
	return domain.OfficerProfile{Officer: officer, Promotions: promotions, Disciplinary: disciplinary}, nil
}

// PersonnelHistory returns the promotion and disciplinary history of an
// officer id, including one that has since been deleted.
func (s *RecordsService) PersonnelHistory(ctx context.Context, officerID uint) ([]domain.PromotionRecord, []domain.DisciplinaryRecord, error) {
	promotions, err := s.repo.ListPromotions(ctx, officerID)
	if err != nil {
		return nil, nil, err
	}
	disciplinary, err := s.repo.ListDisciplinaryRecords(ctx, officerID)
	if err != nil {
		return nil, nil, err
	}
	return promotions, disciplinary, nil
}

// savePhoto stores an officer photo. Only image extensions are accepted.
func (s *RecordsService) savePhoto(ctx context.Context, name string, content io.Reader) (string, error) {
	if kind, ok := AttachmentKind(name); !ok || kind != AttachmentImage {
		return "", fmt.Errorf("%w: photo must be png, jpg, jpeg or gif", domain.ErrValidation)
	}
	ref, err := s.files.Save(ctx, name, content)
	if err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return ref, nil
}

func (s *RecordsService) discardFile(ctx context.Context, ref string) {
	if ref == "" || ref == domain.DefaultPhoto || s.files == nil {
		return
	}
	if err := s.files.Remove(ctx, ref); err != nil {
		s.logger.Warn("remove stored file failed", zap.String("ref", ref), zap.Error(err))
	}
}

func sameRank(current, requested *uint) bool {
	if current == nil || requested == nil {
		return current == nil && requested == nil
	}
	return *current == *requested
}
