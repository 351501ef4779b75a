package application

import (
	"strings"
	"testing"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWorkflow(t *testing.T) {
	f := newFixture(t)

	report, err := f.svc.CreateReport(f.ctx, f.chief, ReportInput{
		Complainant: "Maria",
		Victim:      "Maria",
		Nature:      "Theft",
		Description: "wallet taken at the bus stop",
	})
	require.NoError(t, err)
	assert.Equal(t, "[Nature: Theft]\nwallet taken at the bus stop", report.Description)
	assert.Equal(t, domain.ReportPending, report.Status)
	assert.Equal(t, "Chief Rocha", report.ResponsibleOfficer)

	toggled, err := f.svc.ToggleReportStatus(f.ctx, f.chief, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportClosed, toggled.Status)
	toggled, err = f.svc.ToggleReportStatus(f.ctx, f.chief, report.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportPending, toggled.Status)

	_, err = f.svc.AddReportAttachment(f.ctx, f.chief, report.ID, Upload{Name: "payload.exe", Content: strings.NewReader("x")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	img, err := f.svc.AddReportAttachment(f.ctx, f.chief, report.ID, Upload{Name: "scene.JPG", Content: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.Equal(t, AttachmentImage, img.Kind)
	doc, err := f.svc.AddReportAttachment(f.ctx, f.chief, report.ID, Upload{Name: "statement.pdf", Content: strings.NewReader("pdf")})
	require.NoError(t, err)
	assert.Equal(t, AttachmentDocument, doc.Kind)

	_, err = f.svc.RegisterItem(f.ctx, f.chief, RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Wallet", Model: "Leather", ReportID: &report.ID})
	require.NoError(t, err)

	details, err := f.svc.GetReportDetails(f.ctx, report.ID)
	require.NoError(t, err)
	assert.Len(t, details.Report.Attachments, 2)
	assert.Len(t, details.Items, 1)

	reportID, err := f.svc.RemoveReportAttachment(f.ctx, f.chief, img.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, reportID)
	_, err = f.files.Open(img.File)
	assert.Error(t, err)

	updated, err := f.svc.UpdateReport(f.ctx, f.chief, report.ID, ReportInput{Description: "rewritten", Status: domain.ReportClosed})
	require.NoError(t, err)
	assert.Equal(t, "rewritten", updated.Description)
	assert.Equal(t, domain.ReportClosed, updated.Status)
	assert.Equal(t, "Chief Rocha", updated.ResponsibleOfficer)

	_, err = f.svc.UpdateReport(f.ctx, f.chief, report.ID, ReportInput{Description: "x", Status: "Archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestArrestWorkflow(t *testing.T) {
	f := newFixture(t)
	officer := f.register(t, "Ivo", "1201", "Officer")

	arrest, err := f.svc.CreateArrest(f.ctx, officer, ArrestInput{Detainee: "John Doe", Nature: "Robbery", Description: "caught in the act", Witnesses: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "[Charged with: Robbery]\ncaught in the act", arrest.FactDescription)
	assert.Equal(t, "Ivo", arrest.ResponsibleOfficer)

	updated, err := f.svc.UpdateArrest(f.ctx, officer, arrest.ID, ArrestInput{Detainee: "John Doe", Description: "plain"})
	require.NoError(t, err)
	assert.Equal(t, "plain", updated.FactDescription)

	_, err = f.svc.RegisterItem(f.ctx, officer, RegisterItemInput{Collection: domain.CollectionEvidence, Category: "Knife", Model: "K", ArrestID: &arrest.ID})
	require.NoError(t, err)
	details, err := f.svc.GetArrestDetails(f.ctx, arrest.ID)
	require.NoError(t, err)
	assert.Len(t, details.Items, 1)

	_, err = f.svc.CreateArrest(f.ctx, officer, ArrestInput{Detainee: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCitizensAndCrimes(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.RegisterCitizen(f.ctx, f.chief, CitizenInput{Name: "Joana Silva", Document: "12.345.678-9"})
	require.NoError(t, err)
	_, err = f.svc.RegisterCitizen(f.ctx, f.chief, CitizenInput{Name: "Other", Document: "12.345.678-9"})
	assert.ErrorIs(t, err, domain.ErrDuplicateDocument)

	found, err := f.svc.SearchCitizens(f.ctx, "Silva", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = f.svc.CreateCrime(f.ctx, f.chief, "Theft", "Art. 155", "1-4 years")
	require.NoError(t, err)
	_, err = f.svc.CreateCrime(f.ctx, f.chief, "", "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	crimes, err := f.svc.ListCrimes(f.ctx)
	require.NoError(t, err)
	assert.Len(t, crimes, 1)
}

func TestAnnouncements(t *testing.T) {
	f := newFixture(t)
	officer := f.register(t, "Jane", "1301", "Officer")

	_, err := f.svc.PublishAnnouncement(f.ctx, officer, AnnouncementInput{Title: "x", Content: "y", Category: "Training"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.svc.PublishAnnouncement(f.ctx, f.chief, AnnouncementInput{Title: "x", Content: "y", Category: "Training", Priority: "Urgent"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	a, err := f.svc.PublishAnnouncement(f.ctx, f.chief, AnnouncementInput{Title: "Firearms course", Content: "Monday 8am", Category: "Training", Priority: domain.PriorityHigh})
	require.NoError(t, err)
	_, err = f.svc.PublishAnnouncement(f.ctx, f.chief, AnnouncementInput{Title: "New uniforms", Content: "...", Category: "Logistics"})
	require.NoError(t, err)

	list, err := f.svc.ListAnnouncements(f.ctx, "Training", "", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Firearms course", list[0].Title)

	list, err = f.svc.ListAnnouncements(f.ctx, "", "uniform", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	assert.ErrorIs(t, f.svc.DeleteAnnouncement(f.ctx, officer, a.ID), domain.ErrPermissionDenied)
	require.NoError(t, f.svc.DeleteAnnouncement(f.ctx, f.chief, a.ID))
	assert.ErrorIs(t, f.svc.DeleteAnnouncement(f.ctx, f.chief, a.ID), domain.ErrNotFound)

	all, err := f.svc.ListAllAnnouncements(f.ctx, f.chief, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
