package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/metrics"
	"go.uber.org/zap"
)

// RecordsService carries every use case of the records system. Callers pass
// the acting officer explicitly; the service never reads ambient identity.
type RecordsService struct {
	repo    domain.RecordsRepository
	hasher  domain.PasswordHasher
	files   domain.FileStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type BootstrapInput struct {
	Badge     string
	Name      string
	Password  string
	RankName  string
	RankLevel int
}

func NewRecordsService(repo domain.RecordsRepository, hasher domain.PasswordHasher, files domain.FileStore, logger *zap.Logger, m *metrics.Metrics) *RecordsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordsService{
		repo:    repo,
		hasher:  hasher,
		files:   files,
		logger:  logger,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// BootstrapChief seeds the top rank and a first officer holding it when no
// officer exists yet. It reports whether anything was created.
func (s *RecordsService) BootstrapChief(ctx context.Context, in BootstrapInput) (bool, error) {
	count, err := s.repo.CountOfficers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if strings.TrimSpace(in.Badge) == "" || in.Password == "" {
		return false, fmt.Errorf("%w: bootstrap badge and password are required", domain.ErrValidation)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return false, err
	}

	var chief domain.Officer
	err = s.repo.Transaction(ctx, func(tx domain.RecordsRepository) error {
		rank, err := tx.GetRankByName(ctx, defaultString(in.RankName, "Chief"))
		if errors.Is(err, domain.ErrNotFound) {
			rank, err = tx.CreateRank(ctx, domain.Rank{Name: defaultString(in.RankName, "Chief"), Level: in.RankLevel})
		}
		if err != nil {
			return err
		}
		chief, err = tx.CreateOfficer(ctx, domain.Officer{
			Name:         defaultString(in.Name, "Chief of Police"),
			Badge:        in.Badge,
			PasswordHash: hash,
			RankID:       &rank.ID,
			Photo:        domain.DefaultPhoto,
		})
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("bootstrap chief created", zap.Uint("officer_id", chief.ID), zap.String("badge", chief.Badge))
	s.WriteAudit(ctx, &chief.ID, "auth.bootstrap_chief", "officer", &chief.ID, "initial chief created")
	return true, nil
}

func (s *RecordsService) LoginWithSession(ctx context.Context, badge, password string, ttl time.Duration) (domain.Officer, string, error) {
	o, err := s.authenticateBadgePassword(ctx, badge, password)
	if err != nil {
		return domain.Officer{}, "", err
	}
	plain, hash, err := newTokenPair()
	if err != nil {
		return domain.Officer{}, "", err
	}
	if _, err := s.repo.CreateSession(ctx, domain.AuthSession{
		OfficerID: o.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(ttl),
	}); err != nil {
		return domain.Officer{}, "", err
	}
	s.WriteAudit(ctx, &o.ID, "auth.login.session", "officer", &o.ID, "session login")
	return o, plain, nil
}

func (s *RecordsService) LoginWithAPIToken(ctx context.Context, badge, password, tokenName string, ttl *time.Duration) (domain.Officer, string, error) {
	o, err := s.authenticateBadgePassword(ctx, badge, password)
	if err != nil {
		return domain.Officer{}, "", err
	}
	plain, hash, err := newTokenPair()
	if err != nil {
		return domain.Officer{}, "", err
	}
	var expiresAt *time.Time
	if ttl != nil {
		t := s.now().Add(*ttl)
		expiresAt = &t
	}
	if _, err := s.repo.CreateAPIToken(ctx, domain.APIToken{
		OfficerID: o.ID,
		Name:      defaultString(tokenName, "cli"),
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}); err != nil {
		return domain.Officer{}, "", err
	}
	s.WriteAudit(ctx, &o.ID, "auth.login.api_token", "officer", &o.ID, "api token issued")
	return o, plain, nil
}

func (s *RecordsService) AuthenticateSession(ctx context.Context, token string) (domain.Identity, error) {
	hash := hashToken(token)
	session, err := s.repo.GetSessionByTokenHash(ctx, hash)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSessionByTokenHash(ctx, hash)
		return domain.Identity{}, fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}
	return s.identityByOfficerID(ctx, session.OfficerID)
}

func (s *RecordsService) AuthenticateBearerToken(ctx context.Context, token string) (domain.Identity, error) {
	apit, err := s.repo.GetAPITokenByTokenHash(ctx, hashToken(token))
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	if apit.ExpiresAt != nil && s.now().After(*apit.ExpiresAt) {
		return domain.Identity{}, fmt.Errorf("%w: token expired", domain.ErrUnauthorized)
	}
	return s.identityByOfficerID(ctx, apit.OfficerID)
}

func (s *RecordsService) LogoutSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSessionByTokenHash(ctx, hashToken(token))
}

// WriteAudit records an activity entry. Failures are logged and never
// surface to the caller.
func (s *RecordsService) WriteAudit(ctx context.Context, actorID *uint, action, targetType string, targetID *uint, metadata string) {
	err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   metadata,
	})
	if err != nil {
		s.logger.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *RecordsService) ListAuditLogs(ctx context.Context, actor domain.Officer, limit int) ([]domain.AuditRecord, error) {
	if !domain.CanAdminister(actor.EffectiveLevel()) {
		return nil, s.deny(actor, "audit.list")
	}
	return s.repo.ListAuditLogs(ctx, clampLimit(limit, 100, 1000))
}

func (s *RecordsService) authenticateBadgePassword(ctx context.Context, badge, password string) (domain.Officer, error) {
	o, err := s.repo.GetOfficerByBadge(ctx, strings.TrimSpace(badge))
	if err != nil {
		return domain.Officer{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	if err := s.hasher.Compare(o.PasswordHash, password); err != nil {
		return domain.Officer{}, fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return o, nil
}

func (s *RecordsService) identityByOfficerID(ctx context.Context, officerID uint) (domain.Identity, error) {
	o, err := s.repo.GetOfficerByID(ctx, officerID)
	if err != nil {
		return domain.Identity{}, domain.ErrUnauthorized
	}
	return domain.Identity{Officer: o}, nil
}

// deny logs and counts a refused operation and returns the error to hand back.
func (s *RecordsService) deny(actor domain.Officer, operation string) error {
	s.logger.Warn("permission denied",
		zap.String("operation", operation),
		zap.Uint("actor_id", actor.ID),
		zap.Int("actor_level", actor.EffectiveLevel()),
	)
	s.metrics.PermissionDenied(operation)
	return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, operation)
}

func newTokenPair() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain := base64.RawURLEncoding.EncodeToString(raw)
	return plain, hashToken(plain), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum[:])
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	return strings.TrimSpace(input)
}
