package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
)

func (s *RecordsService) CreateRank(ctx context.Context, actor domain.Officer, name string, level int) (domain.Rank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Rank{}, fmt.Errorf("%w: rank name is required", domain.ErrValidation)
	}
	if level < 0 {
		return domain.Rank{}, fmt.Errorf("%w: rank level must not be negative", domain.ErrValidation)
	}
	if !domain.CanAdminister(actor.EffectiveLevel()) {
		return domain.Rank{}, s.deny(actor, "rank.create")
	}

	if _, err := s.repo.GetRankByName(ctx, name); err == nil {
		return domain.Rank{}, fmt.Errorf("%w: %s", domain.ErrDuplicateName, name)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Rank{}, err
	}

	rank, err := s.repo.CreateRank(ctx, domain.Rank{Name: name, Level: level})
	if err != nil {
		return domain.Rank{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "rank.create", "rank", &rank.ID, fmt.Sprintf("%s level=%d", rank.Name, rank.Level))
	return rank, nil
}

func (s *RecordsService) ListRanks(ctx context.Context) ([]domain.Rank, error) {
	return s.repo.ListRanks(ctx)
}

func (s *RecordsService) GetRank(ctx context.Context, id uint) (domain.Rank, error) {
	if id == 0 {
		return domain.Rank{}, fmt.Errorf("%w: rank id is required", domain.ErrValidation)
	}
	return s.repo.GetRankByID(ctx, id)
}
