package domain

import (
	"context"
	"io"
)

type SeizedItemFilter struct {
	Collection *CollectionType
	ReportID   *uint
	ArrestID   *uint
}

type RecordsRepository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction. Returning an error rolls every write back.
	Transaction(ctx context.Context, fn func(repo RecordsRepository) error) error

	CreateRank(ctx context.Context, value Rank) (Rank, error)
	GetRankByID(ctx context.Context, id uint) (Rank, error)
	GetRankByName(ctx context.Context, name string) (Rank, error)
	ListRanks(ctx context.Context) ([]Rank, error)

	CreateOfficer(ctx context.Context, value Officer) (Officer, error)
	GetOfficerByID(ctx context.Context, id uint) (Officer, error)
	GetOfficerByBadge(ctx context.Context, badge string) (Officer, error)
	CountOfficers(ctx context.Context) (int64, error)
	ListOfficers(ctx context.Context, query string, limit int) ([]Officer, error)
	UpdateOfficer(ctx context.Context, value Officer) (Officer, error)
	DeleteOfficer(ctx context.Context, id uint) error

	CreatePromotion(ctx context.Context, value PromotionRecord) (PromotionRecord, error)
	ListPromotions(ctx context.Context, officerID uint) ([]PromotionRecord, error)
	CreateDisciplinaryRecord(ctx context.Context, value DisciplinaryRecord) (DisciplinaryRecord, error)
	ListDisciplinaryRecords(ctx context.Context, officerID uint) ([]DisciplinaryRecord, error)

	CreateSeizedItem(ctx context.Context, value SeizedItem) (SeizedItem, error)
	GetSeizedItemByID(ctx context.Context, id uint) (SeizedItem, error)
	UpdateSeizedItemState(ctx context.Context, id uint, status CustodyStatus, location string) (SeizedItem, error)
	ListSeizedItems(ctx context.Context, filter SeizedItemFilter) ([]SeizedItem, error)
	CreateMovement(ctx context.Context, value MovementRecord) (MovementRecord, error)
	ListMovements(ctx context.Context, itemID uint) ([]MovementRecord, error)

	CreateReport(ctx context.Context, value IncidentReport) (IncidentReport, error)
	GetReportByID(ctx context.Context, id uint) (IncidentReport, error)
	UpdateReport(ctx context.Context, value IncidentReport) (IncidentReport, error)
	ListReports(ctx context.Context, limit int) ([]IncidentReport, error)
	CreateReportAttachment(ctx context.Context, value ReportAttachment) (ReportAttachment, error)
	GetReportAttachment(ctx context.Context, id uint) (ReportAttachment, error)
	DeleteReportAttachment(ctx context.Context, id uint) error

	CreateArrest(ctx context.Context, value ArrestRecord) (ArrestRecord, error)
	GetArrestByID(ctx context.Context, id uint) (ArrestRecord, error)
	UpdateArrest(ctx context.Context, value ArrestRecord) (ArrestRecord, error)
	ListArrests(ctx context.Context, limit int) ([]ArrestRecord, error)

	CreateCitizen(ctx context.Context, value Citizen) (Citizen, error)
	ListCitizens(ctx context.Context, query string, limit int) ([]Citizen, error)

	CreateCrime(ctx context.Context, value Crime) (Crime, error)
	ListCrimes(ctx context.Context) ([]Crime, error)

	CreateAnnouncement(ctx context.Context, value Announcement) (Announcement, error)
	GetAnnouncementByID(ctx context.Context, id uint) (Announcement, error)
	ListAnnouncements(ctx context.Context, query AnnouncementQuery, limit int) ([]Announcement, error)
	DeleteAnnouncement(ctx context.Context, id uint) error

	CreateSession(ctx context.Context, value AuthSession) (AuthSession, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (AuthSession, error)
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	CreateAPIToken(ctx context.Context, value APIToken) (APIToken, error)
	GetAPITokenByTokenHash(ctx context.Context, tokenHash string) (APIToken, error)

	CreateAuditLog(ctx context.Context, value AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]AuditRecord, error)
}

// PasswordHasher is a one-way credential hash. Plaintext never reaches storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// FileStore persists uploaded blobs and hands back an opaque reference.
type FileStore interface {
	Save(ctx context.Context, suggestedName string, content io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
