package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
)

type AnnouncementInput struct {
	Title      string
	Content    string
	Category   string
	Priority   string
	Attachment *Upload
}

func (s *RecordsService) PublishAnnouncement(ctx context.Context, actor domain.Officer, in AnnouncementInput) (domain.Announcement, error) {
	if !domain.CanAdminister(actor.EffectiveLevel()) {
		return domain.Announcement{}, s.deny(actor, "announcement.publish")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" || strings.TrimSpace(in.Content) == "" || in.Category == "" {
		return domain.Announcement{}, fmt.Errorf("%w: title, content and category are required", domain.ErrValidation)
	}
	priority := defaultString(in.Priority, domain.PriorityNormal)
	if priority != domain.PriorityNormal && priority != domain.PriorityHigh {
		return domain.Announcement{}, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}

	attachment, err := s.storeUpload(ctx, in.Attachment)
	if err != nil {
		return domain.Announcement{}, err
	}
	announcement, err := s.repo.CreateAnnouncement(ctx, domain.Announcement{
		Title:       in.Title,
		Content:     in.Content,
		Category:    in.Category,
		Priority:    priority,
		Attachment:  attachment,
		AuthorID:    &actor.ID,
		Active:      true,
		PublishedAt: s.now(),
	})
	if err != nil {
		s.discardFile(ctx, attachment)
		return domain.Announcement{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "announcement.publish", "announcement", &announcement.ID, announcement.Title)
	return announcement, nil
}

// ListAnnouncements returns active announcements, newest first, narrowed by
// category and a title fragment.
func (s *RecordsService) ListAnnouncements(ctx context.Context, category, query string, limit int) ([]domain.Announcement, error) {
	return s.repo.ListAnnouncements(ctx, domain.AnnouncementQuery{
		Category:   category,
		Query:      query,
		OnlyActive: true,
	}, clampLimit(limit, 100, 1000))
}

// ListAllAnnouncements is the administrative listing, including inactive entries.
func (s *RecordsService) ListAllAnnouncements(ctx context.Context, actor domain.Officer, limit int) ([]domain.Announcement, error) {
	if !domain.CanAdminister(actor.EffectiveLevel()) {
		return nil, s.deny(actor, "announcement.list_all")
	}
	return s.repo.ListAnnouncements(ctx, domain.AnnouncementQuery{}, clampLimit(limit, 100, 1000))
}

func (s *RecordsService) DeleteAnnouncement(ctx context.Context, actor domain.Officer, id uint) error {
	if !domain.CanAdminister(actor.EffectiveLevel()) {
		return s.deny(actor, "announcement.delete")
	}
	announcement, err := s.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAnnouncement(ctx, announcement.ID); err != nil {
		return err
	}
	s.discardFile(ctx, announcement.Attachment)
	s.WriteAudit(ctx, &actor.ID, "announcement.delete", "announcement", &announcement.ID, announcement.Title)
	return nil
}
