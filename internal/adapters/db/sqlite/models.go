package sqlite

import "time"

type RankModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Level     int    `gorm:"not null;index"`
	CreatedAt time.Time
}

func (RankModel) TableName() string { return "ranks" }

type OfficerModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null;index"`
	Badge        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	RankID       *uint  `gorm:"index"`
	Rank         *RankModel
	Station      string
	Department   string
	Address      string
	Notes        string
	Photo        string `gorm:"not null;default:'default.jpg'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (OfficerModel) TableName() string { return "officers" }

// History tables reference officers without a foreign key so that deleting an
// officer leaves the audit trail intact.
type PromotionModel struct {
	ID                uint   `gorm:"primaryKey"`
	OfficerID         uint   `gorm:"not null;index"`
	OfficerName       string `gorm:"not null"`
	AuthorID          *uint
	PreviousRankName  string `gorm:"not null"`
	PreviousRankLevel int    `gorm:"not null"`
	NewRankName       string `gorm:"not null"`
	NewRankLevel      int    `gorm:"not null"`
	Reason            string
	CreatedAt         time.Time
}

func (PromotionModel) TableName() string { return "promotions" }

type DisciplinaryRecordModel struct {
	ID          uint   `gorm:"primaryKey"`
	OfficerID   uint   `gorm:"not null;index"`
	OfficerName string `gorm:"not null"`
	AuthorID    *uint
	Category    string `gorm:"not null"`
	Description string
	CreatedAt   time.Time
}

func (DisciplinaryRecordModel) TableName() string { return "disciplinary_records" }

type SeizedItemModel struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"not null;index"`
	Category   string `gorm:"not null"`
	Model      string `gorm:"not null"`
	Brand      string
	Caliber    string
	Serial     string `gorm:"uniqueIndex;not null"`
	Status     string `gorm:"not null"`
	Location   string `gorm:"not null"`
	ReportID   *uint  `gorm:"index"`
	ArrestID   *uint  `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (SeizedItemModel) TableName() string { return "seized_items" }

type MovementModel struct {
	ID            uint `gorm:"primaryKey"`
	ItemID        uint `gorm:"not null;index"`
	ResponsibleID *uint
	MovementType  string `gorm:"not null"`
	Destination   string
	Note          string
	CreatedAt     time.Time
}

func (MovementModel) TableName() string { return "custody_movements" }

type ReportModel struct {
	ID                 uint `gorm:"primaryKey"`
	Complainant        string
	Victim             string
	Description        string
	ResponsibleOfficer string
	Status             string `gorm:"not null;default:'Pending'"`
	CoverFile          string
	Attachments        []ReportAttachmentModel `gorm:"foreignKey:ReportID"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ReportModel) TableName() string { return "incident_reports" }

type ReportAttachmentModel struct {
	ID        uint   `gorm:"primaryKey"`
	ReportID  uint   `gorm:"not null;index"`
	File      string `gorm:"not null"`
	Kind      string
	CreatedAt time.Time
}

func (ReportAttachmentModel) TableName() string { return "report_attachments" }

type ArrestModel struct {
	ID                 uint   `gorm:"primaryKey"`
	Detainee           string `gorm:"not null"`
	FactDescription    string `gorm:"not null"`
	Witnesses          string
	ResponsibleOfficer string `gorm:"not null"`
	ArrestedAt         time.Time
	UpdatedAt          time.Time
}

func (ArrestModel) TableName() string { return "arrest_records" }

type CitizenModel struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"not null;index"`
	Document   *string `gorm:"uniqueIndex"`
	BirthDate  string
	MotherName string
	Address    string
	Record     string
	CreatedAt  time.Time
}

func (CitizenModel) TableName() string { return "citizens" }

type CrimeModel struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"not null"`
	Article string
	Penalty string
}

func (CrimeModel) TableName() string { return "crimes" }

type AnnouncementModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Content     string `gorm:"not null"`
	Category    string `gorm:"not null;index"`
	Priority    string `gorm:"not null;default:'Normal'"`
	Attachment  string
	AuthorID    *uint
	Active      bool `gorm:"not null;default:true"`
	PublishedAt time.Time
}

func (AnnouncementModel) TableName() string { return "announcements" }

type SessionModel struct {
	ID        uint   `gorm:"primaryKey"`
	OfficerID uint   `gorm:"not null;index"`
	TokenHash string `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (SessionModel) TableName() string { return "sessions" }

type APITokenModel struct {
	ID        uint   `gorm:"primaryKey"`
	OfficerID uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	TokenHash string `gorm:"not null;uniqueIndex"`
	ExpiresAt *time.Time
	CreatedAt time.Time
}

func (APITokenModel) TableName() string { return "api_tokens" }

type AuditLogModel struct {
	ID         uint `gorm:"primaryKey"`
	ActorID    *uint
	Action     string `gorm:"not null;index"`
	TargetType string `gorm:"not null;index"`
	TargetID   *uint
	Metadata   string
	CreatedAt  time.Time
}

func (AuditLogModel) TableName() string { return "audit_logs" }
