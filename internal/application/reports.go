package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
)

const (
	AttachmentImage    = "Image"
	AttachmentDocument = "Document"
)

var uploadExtensions = map[string]string{
	".png":  AttachmentImage,
	".jpg":  AttachmentImage,
	".jpeg": AttachmentImage,
	".gif":  AttachmentImage,
	".pdf":  AttachmentDocument,
	".doc":  AttachmentDocument,
	".docx": AttachmentDocument,
}

// Upload is a named file coming from a form or an RPC payload.
type Upload struct {
	Name    string
	Content io.Reader
}

type ReportInput struct {
	Complainant        string
	Victim             string
	Nature             string
	Description        string
	ResponsibleOfficer string
	Status             string
	Cover              *Upload
}

type ArrestInput struct {
	Detainee    string
	Nature      string
	Description string
	Witnesses   string
}

// AttachmentKind classifies an upload by extension. ok is false for
// extensions that are not accepted at all.
func AttachmentKind(name string) (kind string, ok bool) {
	kind, ok = uploadExtensions[strings.ToLower(filepath.Ext(name))]
	return kind, ok
}

func (s *RecordsService) CreateReport(ctx context.Context, actor domain.Officer, in ReportInput) (domain.IncidentReport, error) {
	if strings.TrimSpace(in.Description) == "" {
		return domain.IncidentReport{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	cover, err := s.storeUpload(ctx, in.Cover)
	if err != nil {
		return domain.IncidentReport{}, err
	}

	report, err := s.repo.CreateReport(ctx, domain.IncidentReport{
		Complainant:        strings.TrimSpace(in.Complainant),
		Victim:             strings.TrimSpace(in.Victim),
		Description:        withNature("Nature", in.Nature, in.Description),
		ResponsibleOfficer: defaultString(in.ResponsibleOfficer, actor.Name),
		Status:             domain.ReportPending,
		CoverFile:          cover,
	})
	if err != nil {
		s.discardFile(ctx, cover)
		return domain.IncidentReport{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "report.create", "incident_report", &report.ID, report.Number())
	return report, nil
}

func (s *RecordsService) UpdateReport(ctx context.Context, actor domain.Officer, reportID uint, in ReportInput) (domain.IncidentReport, error) {
	report, err := s.repo.GetReportByID(ctx, reportID)
	if err != nil {
		return domain.IncidentReport{}, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return domain.IncidentReport{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if in.Status != "" && in.Status != domain.ReportPending && in.Status != domain.ReportClosed {
		return domain.IncidentReport{}, fmt.Errorf("%w: unknown report status %q", domain.ErrValidation, in.Status)
	}

	previousCover := report.CoverFile
	report.Complainant = strings.TrimSpace(in.Complainant)
	report.Victim = strings.TrimSpace(in.Victim)
	report.Description = withNature("Nature", in.Nature, in.Description)
	report.ResponsibleOfficer = defaultString(in.ResponsibleOfficer, report.ResponsibleOfficer)
	if in.Status != "" {
		report.Status = in.Status
	}
	if in.Cover != nil {
		cover, err := s.storeUpload(ctx, in.Cover)
		if err != nil {
			return domain.IncidentReport{}, err
		}
		report.CoverFile = cover
	}

	updated, err := s.repo.UpdateReport(ctx, report)
	if err != nil {
		if report.CoverFile != previousCover {
			s.discardFile(ctx, report.CoverFile)
		}
		return domain.IncidentReport{}, err
	}
	if updated.CoverFile != previousCover {
		s.discardFile(ctx, previousCover)
	}
	s.WriteAudit(ctx, &actor.ID, "report.update", "incident_report", &updated.ID, updated.Status)
	return updated, nil
}

// ToggleReportStatus flips a report between Pending and Closed.
func (s *RecordsService) ToggleReportStatus(ctx context.Context, actor domain.Officer, reportID uint) (domain.IncidentReport, error) {
	report, err := s.repo.GetReportByID(ctx, reportID)
	if err != nil {
		return domain.IncidentReport{}, err
	}
	if report.Status == domain.ReportPending {
		report.Status = domain.ReportClosed
	} else {
		report.Status = domain.ReportPending
	}
	updated, err := s.repo.UpdateReport(ctx, report)
	if err != nil {
		return domain.IncidentReport{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "report.toggle_status", "incident_report", &updated.ID, updated.Status)
	return updated, nil
}

func (s *RecordsService) AddReportAttachment(ctx context.Context, actor domain.Officer, reportID uint, upload Upload) (domain.ReportAttachment, error) {
	if _, err := s.repo.GetReportByID(ctx, reportID); err != nil {
		return domain.ReportAttachment{}, err
	}
	kind, ok := AttachmentKind(upload.Name)
	if !ok || upload.Content == nil {
		return domain.ReportAttachment{}, fmt.Errorf("%w: file type not accepted", domain.ErrValidation)
	}
	ref, err := s.files.Save(ctx, upload.Name, upload.Content)
	if err != nil {
		return domain.ReportAttachment{}, fmt.Errorf("store attachment: %w", err)
	}
	attachment, err := s.repo.CreateReportAttachment(ctx, domain.ReportAttachment{ReportID: reportID, File: ref, Kind: kind})
	if err != nil {
		s.discardFile(ctx, ref)
		return domain.ReportAttachment{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "report.attach", "incident_report", &reportID, ref)
	return attachment, nil
}

// RemoveReportAttachment deletes an attachment and its stored file and
// returns the owning report id.
func (s *RecordsService) RemoveReportAttachment(ctx context.Context, actor domain.Officer, attachmentID uint) (uint, error) {
	attachment, err := s.repo.GetReportAttachment(ctx, attachmentID)
	if err != nil {
		return 0, err
	}
	if err := s.repo.DeleteReportAttachment(ctx, attachment.ID); err != nil {
		return 0, err
	}
	s.discardFile(ctx, attachment.File)
	s.WriteAudit(ctx, &actor.ID, "report.detach", "incident_report", &attachment.ReportID, attachment.File)
	return attachment.ReportID, nil
}

// GetReportDetails returns the report with its attachments and the seized
// items linked to it.
func (s *RecordsService) GetReportDetails(ctx context.Context, reportID uint) (domain.ReportDetails, error) {
	report, err := s.repo.GetReportByID(ctx, reportID)
	if err != nil {
		return domain.ReportDetails{}, err
	}
	items, err := s.repo.ListSeizedItems(ctx, domain.SeizedItemFilter{ReportID: &report.ID})
	if err != nil {
		return domain.ReportDetails{}, err
	}
	return domain.ReportDetails{Report: report, Items: items}, nil
}

func (s *RecordsService) ListReports(ctx context.Context, limit int) ([]domain.IncidentReport, error) {
	return s.repo.ListReports(ctx, clampLimit(limit, 200, 2000))
}

func (s *RecordsService) CreateArrest(ctx context.Context, actor domain.Officer, in ArrestInput) (domain.ArrestRecord, error) {
	if strings.TrimSpace(in.Detainee) == "" || strings.TrimSpace(in.Description) == "" {
		return domain.ArrestRecord{}, fmt.Errorf("%w: detainee and description are required", domain.ErrValidation)
	}
	arrest, err := s.repo.CreateArrest(ctx, domain.ArrestRecord{
		Detainee:           strings.TrimSpace(in.Detainee),
		FactDescription:    withNature("Charged with", in.Nature, in.Description),
		Witnesses:          strings.TrimSpace(in.Witnesses),
		ResponsibleOfficer: actor.Name,
		ArrestedAt:         s.now(),
	})
	if err != nil {
		return domain.ArrestRecord{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "arrest.create", "arrest_record", &arrest.ID, arrest.Detainee)
	return arrest, nil
}

// UpdateArrest rewrites the narrative fields. The nature prefix is applied
// only when a nature is given, so an edit without one keeps the text as typed.
func (s *RecordsService) UpdateArrest(ctx context.Context, actor domain.Officer, arrestID uint, in ArrestInput) (domain.ArrestRecord, error) {
	arrest, err := s.repo.GetArrestByID(ctx, arrestID)
	if err != nil {
		return domain.ArrestRecord{}, err
	}
	if strings.TrimSpace(in.Detainee) == "" || strings.TrimSpace(in.Description) == "" {
		return domain.ArrestRecord{}, fmt.Errorf("%w: detainee and description are required", domain.ErrValidation)
	}
	arrest.Detainee = strings.TrimSpace(in.Detainee)
	arrest.FactDescription = withNature("Charged with", in.Nature, in.Description)
	arrest.Witnesses = strings.TrimSpace(in.Witnesses)

	updated, err := s.repo.UpdateArrest(ctx, arrest)
	if err != nil {
		return domain.ArrestRecord{}, err
	}
	s.WriteAudit(ctx, &actor.ID, "arrest.update", "arrest_record", &updated.ID, "")
	return updated, nil
}

func (s *RecordsService) GetArrestDetails(ctx context.Context, arrestID uint) (domain.ArrestDetails, error) {
	arrest, err := s.repo.GetArrestByID(ctx, arrestID)
	if err != nil {
		return domain.ArrestDetails{}, err
	}
	items, err := s.repo.ListSeizedItems(ctx, domain.SeizedItemFilter{ArrestID: &arrest.ID})
	if err != nil {
		return domain.ArrestDetails{}, err
	}
	return domain.ArrestDetails{Arrest: arrest, Items: items}, nil
}

func (s *RecordsService) ListArrests(ctx context.Context, limit int) ([]domain.ArrestRecord, error) {
	return s.repo.ListArrests(ctx, clampLimit(limit, 200, 2000))
}

// storeUpload saves an optional upload and returns its reference, or "" when
// nothing was sent.
func (s *RecordsService) storeUpload(ctx context.Context, upload *Upload) (string, error) {
	if upload == nil || upload.Content == nil || strings.TrimSpace(upload.Name) == "" {
		return "", nil
	}
	if _, ok := AttachmentKind(upload.Name); !ok {
		return "", fmt.Errorf("%w: file type not accepted", domain.ErrValidation)
	}
	ref, err := s.files.Save(ctx, upload.Name, upload.Content)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return ref, nil
}

func withNature(label, nature, description string) string {
	description = strings.TrimSpace(description)
	nature = strings.TrimSpace(nature)
	if nature == "" {
		return description
	}
	return fmt.Sprintf("[%s: %s]\n%s", label, nature, description)
}
