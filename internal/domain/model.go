package domain

import (
	"fmt"
	"time"
)

const (
	UnrankedName = "Unranked"
	DefaultPhoto = "default.jpg"
)

type Rank struct {
	ID        uint
	Name      string
	Level     int
	CreatedAt time.Time
}

// LevelOf returns the rank level, or 0 for an unranked officer.
func LevelOf(rank *Rank) int {
	if rank == nil {
		return 0
	}
	return rank.Level
}

type Officer struct {
	ID           uint
	Name         string
	Badge        string
	PasswordHash string `json:"-"`
	RankID       *uint
	Rank         *Rank
	Station      string
	Department   string
	Address      string
	Notes        string
	Photo        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (o Officer) EffectiveLevel() int {
	return LevelOf(o.Rank)
}

func (o Officer) RankName() string {
	if o.Rank == nil {
		return UnrankedName
	}
	return o.Rank.Name
}

type PromotionRecord struct {
	ID                uint
	OfficerID         uint
	OfficerName       string
	AuthorID          *uint
	PreviousRankName  string
	PreviousRankLevel int
	NewRankName       string
	NewRankLevel      int
	Reason            string
	CreatedAt         time.Time
}

type DisciplinaryRecord struct {
	ID          uint
	OfficerID   uint
	OfficerName string
	AuthorID    *uint
	Category    string
	Description string
	CreatedAt   time.Time
}

type OfficerProfile struct {
	Officer      Officer
	Promotions   []PromotionRecord
	Disciplinary []DisciplinaryRecord
}

type SeizedItem struct {
	ID         uint
	Collection CollectionType
	Category   string
	Model      string
	Brand      string
	Caliber    string
	Serial     string
	Status     CustodyStatus
	Location   string
	ReportID   *uint
	ArrestID   *uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type MovementRecord struct {
	ID            uint
	ItemID        uint
	ResponsibleID *uint
	MovementType  MovementType
	Destination   string
	Note          string
	CreatedAt     time.Time
}

const (
	ReportPending = "Pending"
	ReportClosed  = "Closed"
)

type IncidentReport struct {
	ID                 uint
	Complainant        string
	Victim             string
	Description        string
	ResponsibleOfficer string
	Status             string
	CoverFile          string
	Attachments        []ReportAttachment
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Number renders the report label shown on printed forms, e.g. "Report No. 003/2025".
func (r IncidentReport) Number() string {
	return fmt.Sprintf("Report No. %03d/%d", r.ID, r.CreatedAt.Year())
}

type ReportAttachment struct {
	ID        uint
	ReportID  uint
	File      string
	Kind      string
	CreatedAt time.Time
}

type ReportDetails struct {
	Report IncidentReport
	Items  []SeizedItem
}

type ArrestRecord struct {
	ID                 uint
	Detainee           string
	FactDescription    string
	Witnesses          string
	ResponsibleOfficer string
	ArrestedAt         time.Time
	UpdatedAt          time.Time
}

type ArrestDetails struct {
	Arrest ArrestRecord
	Items  []SeizedItem
}

type Citizen struct {
	ID         uint
	Name       string
	Document   string
	BirthDate  string
	MotherName string
	Address    string
	Record     string
	CreatedAt  time.Time
}

type Crime struct {
	ID      uint
	Name    string
	Article string
	Penalty string
}

const (
	PriorityNormal = "Normal"
	PriorityHigh   = "High"
)

type Announcement struct {
	ID          uint
	Title       string
	Content     string
	Category    string
	Priority    string
	Attachment  string
	AuthorID    *uint
	Active      bool
	PublishedAt time.Time
}

type AnnouncementQuery struct {
	Category   string
	Query      string
	OnlyActive bool
}

type AuthSession struct {
	ID        uint
	OfficerID uint
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type APIToken struct {
	ID        uint
	OfficerID uint
	Name      string
	TokenHash string
	ExpiresAt *time.Time
	CreatedAt time.Time
}

type AuditLog struct {
	ID         uint
	ActorID    *uint
	Action     string
	TargetType string
	TargetID   *uint
	Metadata   string
	CreatedAt  time.Time
}

type AuditRecord struct {
	ID         uint
	ActorID    *uint
	ActorName  string
	Action     string
	TargetType string
	TargetID   *uint
	Metadata   string
	CreatedAt  time.Time
}

// Identity is the authenticated caller resolved by an adapter.
type Identity struct {
	Officer Officer
}
