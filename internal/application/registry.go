package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
)

type CitizenInput struct {
	Name       string
	Document   string
	BirthDate  string
	MotherName string
	Address    string
	Record     string
}

func (s *RecordsService) RegisterCitizen(ctx context.Context, actor domain.Officer, in CitizenInput) (domain.Citizen, error) {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Citizen{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	citizen, err := s.repo.CreateCitizen(ctx, domain.Citizen{
		Name:       in.Name,
		Document:   in.Document,
		BirthDate:  strings.TrimSpace(in.BirthDate),
		MotherName: strings.TrimSpace(in.MotherName),
		Address:    strings.TrimSpace(in.Address),
		Record:     in.Record,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			return domain.Citizen{}, fmt.Errorf("%w: %s", domain.ErrDuplicateDocument, strings.TrimSpace(in.Document))
		}
		return domain.Citizen{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "citizen.register", "citizen", &citizen.ID, citizen.Name)
	return citizen, nil
}

func (s *RecordsService) SearchCitizens(ctx context.Context, query string, limit int) ([]domain.Citizen, error) {
	return s.repo.ListCitizens(ctx, query, clampLimit(limit, 200, 2000))
}

func (s *RecordsService) CreateCrime(ctx context.Context, actor domain.Officer, name, article, penalty string) (domain.Crime, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Crime{}, fmt.Errorf("%w: crime name is required", domain.ErrValidation)
	}
	crime, err := s.repo.CreateCrime(ctx, domain.Crime{
		Name:    name,
		Article: strings.TrimSpace(article),
		Penalty: strings.TrimSpace(penalty),
	})
	if err != nil {
		return domain.Crime{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "crime.create", "crime", &crime.ID, crime.Name)
	return crime, nil
}

func (s *RecordsService) ListCrimes(ctx context.Context) ([]domain.Crime, error) {
	return s.repo.ListCrimes(ctx)
}
