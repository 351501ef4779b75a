package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

type RecordsRepository struct {
	db *gorm.DB
}

// busyPragmas make a writer wait for the lock instead of failing with
// SQLITE_BUSY.
const busyPragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// Open connects to the database at path. The pool holds a single connection
// so write transactions queue behind each other.
func Open(path string) (*gorm.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + sep + busyPragmas,
	}, &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}

func NewRecordsRepository(db *gorm.DB) *RecordsRepository {
	return &RecordsRepository{db: db}
}

func (r *RecordsRepository) Transaction(ctx context.Context, fn func(repo domain.RecordsRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RecordsRepository{db: tx})
	})
}

func (r *RecordsRepository) CreateRank(ctx context.Context, value domain.Rank) (domain.Rank, error) {
	m := RankModel{Name: strings.TrimSpace(value.Name), Level: value.Level}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Rank{}, translate(err, domain.ErrDuplicateName)
	}
	return toRank(m), nil
}

func (r *RecordsRepository) GetRankByID(ctx context.Context, id uint) (domain.Rank, error) {
	var m RankModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Rank{}, translate(err, nil)
	}
	return toRank(m), nil
}

func (r *RecordsRepository) GetRankByName(ctx context.Context, name string) (domain.Rank, error) {
	var m RankModel
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&m).Error; err != nil {
		return domain.Rank{}, translate(err, nil)
	}
	return toRank(m), nil
}

func (r *RecordsRepository) ListRanks(ctx context.Context) ([]domain.Rank, error) {
	rows := make([]RankModel, 0)
	if err := r.db.WithContext(ctx).Order("level DESC").Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Rank, 0, len(rows))
	for _, m := range rows {
		result = append(result, toRank(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateOfficer(ctx context.Context, value domain.Officer) (domain.Officer, error) {
	m := OfficerModel{
		Name:         strings.TrimSpace(value.Name),
		Badge:        strings.TrimSpace(value.Badge),
		PasswordHash: value.PasswordHash,
		RankID:       value.RankID,
		Station:      value.Station,
		Department:   value.Department,
		Address:      value.Address,
		Notes:        value.Notes,
		Photo:        defaultString(value.Photo, domain.DefaultPhoto),
	}
	if err := r.db.WithContext(ctx).Omit("Rank").Create(&m).Error; err != nil {
		return domain.Officer{}, translate(err, domain.ErrDuplicateBadge)
	}
	return r.GetOfficerByID(ctx, m.ID)
}

func (r *RecordsRepository) GetOfficerByID(ctx context.Context, id uint) (domain.Officer, error) {
	var m OfficerModel
	if err := r.db.WithContext(ctx).Preload("Rank").First(&m, id).Error; err != nil {
		return domain.Officer{}, translate(err, nil)
	}
	return toOfficer(m), nil
}

func (r *RecordsRepository) GetOfficerByBadge(ctx context.Context, badge string) (domain.Officer, error) {
	var m OfficerModel
	if err := r.db.WithContext(ctx).Preload("Rank").Where("badge = ?", strings.TrimSpace(badge)).First(&m).Error; err != nil {
		return domain.Officer{}, translate(err, nil)
	}
	return toOfficer(m), nil
}

func (r *RecordsRepository) CountOfficers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OfficerModel{}).Count(&count).Error
	return count, err
}

func (r *RecordsRepository) ListOfficers(ctx context.Context, query string, limit int) ([]domain.Officer, error) {
	q := r.db.WithContext(ctx).Model(&OfficerModel{}).Preload("Rank")
	if strings.TrimSpace(query) != "" {
		like := "%" + strings.TrimSpace(query) + "%"
		q = q.Where("name LIKE ? OR badge LIKE ?", like, like)
	}
	rows := make([]OfficerModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Officer, 0, len(rows))
	for _, m := range rows {
		result = append(result, toOfficer(m))
	}
	return result, nil
}

func (r *RecordsRepository) UpdateOfficer(ctx context.Context, value domain.Officer) (domain.Officer, error) {
	res := r.db.WithContext(ctx).Model(&OfficerModel{ID: value.ID}).Updates(map[string]any{
		"name":          strings.TrimSpace(value.Name),
		"badge":         strings.TrimSpace(value.Badge),
		"password_hash": value.PasswordHash,
		"rank_id":       value.RankID,
		"station":       value.Station,
		"department":    value.Department,
		"address":       value.Address,
		"notes":         value.Notes,
		"photo":         defaultString(value.Photo, domain.DefaultPhoto),
	})
	if res.Error != nil {
		return domain.Officer{}, translate(res.Error, domain.ErrDuplicateBadge)
	}
	if res.RowsAffected == 0 {
		return domain.Officer{}, domain.ErrNotFound
	}
	return r.GetOfficerByID(ctx, value.ID)
}

// DeleteOfficer removes the officer and their credentials. Promotion and
// disciplinary history is left in place.
func (r *RecordsRepository) DeleteOfficer(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&OfficerModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if err := tx.Where("officer_id = ?", id).Delete(&SessionModel{}).Error; err != nil {
			return err
		}
		return tx.Where("officer_id = ?", id).Delete(&APITokenModel{}).Error
	})
}

func (r *RecordsRepository) CreatePromotion(ctx context.Context, value domain.PromotionRecord) (domain.PromotionRecord, error) {
	m := PromotionModel{
		OfficerID:         value.OfficerID,
		OfficerName:       value.OfficerName,
		AuthorID:          value.AuthorID,
		PreviousRankName:  value.PreviousRankName,
		PreviousRankLevel: value.PreviousRankLevel,
		NewRankName:       value.NewRankName,
		NewRankLevel:      value.NewRankLevel,
		Reason:            value.Reason,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.PromotionRecord{}, err
	}
	return toPromotion(m), nil
}

func (r *RecordsRepository) ListPromotions(ctx context.Context, officerID uint) ([]domain.PromotionRecord, error) {
	rows := make([]PromotionModel, 0)
	if err := r.db.WithContext(ctx).Where("officer_id = ?", officerID).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.PromotionRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, toPromotion(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateDisciplinaryRecord(ctx context.Context, value domain.DisciplinaryRecord) (domain.DisciplinaryRecord, error) {
	m := DisciplinaryRecordModel{
		OfficerID:   value.OfficerID,
		OfficerName: value.OfficerName,
		AuthorID:    value.AuthorID,
		Category:    value.Category,
		Description: value.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.DisciplinaryRecord{}, err
	}
	return toDisciplinary(m), nil
}

func (r *RecordsRepository) ListDisciplinaryRecords(ctx context.Context, officerID uint) ([]domain.DisciplinaryRecord, error) {
	rows := make([]DisciplinaryRecordModel, 0)
	if err := r.db.WithContext(ctx).Where("officer_id = ?", officerID).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DisciplinaryRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, toDisciplinary(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateSeizedItem(ctx context.Context, value domain.SeizedItem) (domain.SeizedItem, error) {
	m := SeizedItemModel{
		Collection: string(value.Collection),
		Category:   value.Category,
		Model:      value.Model,
		Brand:      value.Brand,
		Caliber:    value.Caliber,
		Serial:     strings.TrimSpace(value.Serial),
		Status:     string(value.Status),
		Location:   value.Location,
		ReportID:   value.ReportID,
		ArrestID:   value.ArrestID,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.SeizedItem{}, translate(err, domain.ErrDuplicateSerial)
	}
	return toSeizedItem(m), nil
}

func (r *RecordsRepository) GetSeizedItemByID(ctx context.Context, id uint) (domain.SeizedItem, error) {
	var m SeizedItemModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.SeizedItem{}, translate(err, nil)
	}
	return toSeizedItem(m), nil
}

func (r *RecordsRepository) UpdateSeizedItemState(ctx context.Context, id uint, status domain.CustodyStatus, location string) (domain.SeizedItem, error) {
	res := r.db.WithContext(ctx).Model(&SeizedItemModel{ID: id}).Updates(map[string]any{
		"status":   string(status),
		"location": location,
	})
	if res.Error != nil {
		return domain.SeizedItem{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.SeizedItem{}, domain.ErrNotFound
	}
	return r.GetSeizedItemByID(ctx, id)
}

func (r *RecordsRepository) ListSeizedItems(ctx context.Context, filter domain.SeizedItemFilter) ([]domain.SeizedItem, error) {
	q := r.db.WithContext(ctx).Model(&SeizedItemModel{})
	if filter.Collection != nil {
		q = q.Where("collection = ?", string(*filter.Collection))
	}
	if filter.ReportID != nil {
		q = q.Where("report_id = ?", *filter.ReportID)
	}
	if filter.ArrestID != nil {
		q = q.Where("arrest_id = ?", *filter.ArrestID)
	}
	rows := make([]SeizedItemModel, 0)
	if err := q.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.SeizedItem, 0, len(rows))
	for _, m := range rows {
		result = append(result, toSeizedItem(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateMovement(ctx context.Context, value domain.MovementRecord) (domain.MovementRecord, error) {
	m := MovementModel{
		ItemID:        value.ItemID,
		ResponsibleID: value.ResponsibleID,
		MovementType:  string(value.MovementType),
		Destination:   value.Destination,
		Note:          value.Note,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.MovementRecord{}, err
	}
	return toMovement(m), nil
}

func (r *RecordsRepository) ListMovements(ctx context.Context, itemID uint) ([]domain.MovementRecord, error) {
	rows := make([]MovementModel, 0)
	if err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.MovementRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, toMovement(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateReport(ctx context.Context, value domain.IncidentReport) (domain.IncidentReport, error) {
	m := ReportModel{
		Complainant:        value.Complainant,
		Victim:             value.Victim,
		Description:        value.Description,
		ResponsibleOfficer: value.ResponsibleOfficer,
		Status:             defaultString(value.Status, domain.ReportPending),
		CoverFile:          value.CoverFile,
	}
	if err := r.db.WithContext(ctx).Omit("Attachments").Create(&m).Error; err != nil {
		return domain.IncidentReport{}, err
	}
	return toReport(m), nil
}

func (r *RecordsRepository) GetReportByID(ctx context.Context, id uint) (domain.IncidentReport, error) {
	var m ReportModel
	err := r.db.WithContext(ctx).Preload("Attachments", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&m, id).Error
	if err != nil {
		return domain.IncidentReport{}, translate(err, nil)
	}
	return toReport(m), nil
}

func (r *RecordsRepository) UpdateReport(ctx context.Context, value domain.IncidentReport) (domain.IncidentReport, error) {
	res := r.db.WithContext(ctx).Model(&ReportModel{ID: value.ID}).Updates(map[string]any{
		"complainant":         value.Complainant,
		"victim":              value.Victim,
		"description":         value.Description,
		"responsible_officer": value.ResponsibleOfficer,
		"status":              defaultString(value.Status, domain.ReportPending),
		"cover_file":          value.CoverFile,
	})
	if res.Error != nil {
		return domain.IncidentReport{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.IncidentReport{}, domain.ErrNotFound
	}
	return r.GetReportByID(ctx, value.ID)
}

func (r *RecordsRepository) ListReports(ctx context.Context, limit int) ([]domain.IncidentReport, error) {
	rows := make([]ReportModel, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.IncidentReport, 0, len(rows))
	for _, m := range rows {
		result = append(result, toReport(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateReportAttachment(ctx context.Context, value domain.ReportAttachment) (domain.ReportAttachment, error) {
	m := ReportAttachmentModel{ReportID: value.ReportID, File: value.File, Kind: value.Kind}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ReportAttachment{}, err
	}
	return toAttachment(m), nil
}

func (r *RecordsRepository) GetReportAttachment(ctx context.Context, id uint) (domain.ReportAttachment, error) {
	var m ReportAttachmentModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.ReportAttachment{}, translate(err, nil)
	}
	return toAttachment(m), nil
}

func (r *RecordsRepository) DeleteReportAttachment(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&ReportAttachmentModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordsRepository) CreateArrest(ctx context.Context, value domain.ArrestRecord) (domain.ArrestRecord, error) {
	m := ArrestModel{
		Detainee:           value.Detainee,
		FactDescription:    value.FactDescription,
		Witnesses:          value.Witnesses,
		ResponsibleOfficer: value.ResponsibleOfficer,
		ArrestedAt:         value.ArrestedAt,
	}
	if m.ArrestedAt.IsZero() {
		m.ArrestedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ArrestRecord{}, err
	}
	return toArrest(m), nil
}

func (r *RecordsRepository) GetArrestByID(ctx context.Context, id uint) (domain.ArrestRecord, error) {
	var m ArrestModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.ArrestRecord{}, translate(err, nil)
	}
	return toArrest(m), nil
}

func (r *RecordsRepository) UpdateArrest(ctx context.Context, value domain.ArrestRecord) (domain.ArrestRecord, error) {
	res := r.db.WithContext(ctx).Model(&ArrestModel{ID: value.ID}).Updates(map[string]any{
		"detainee":         value.Detainee,
		"fact_description": value.FactDescription,
		"witnesses":        value.Witnesses,
	})
	if res.Error != nil {
		return domain.ArrestRecord{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ArrestRecord{}, domain.ErrNotFound
	}
	return r.GetArrestByID(ctx, value.ID)
}

func (r *RecordsRepository) ListArrests(ctx context.Context, limit int) ([]domain.ArrestRecord, error) {
	rows := make([]ArrestModel, 0)
	if err := r.db.WithContext(ctx).Order("arrested_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ArrestRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, toArrest(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateCitizen(ctx context.Context, value domain.Citizen) (domain.Citizen, error) {
	m := CitizenModel{
		Name:       strings.TrimSpace(value.Name),
		BirthDate:  value.BirthDate,
		MotherName: value.MotherName,
		Address:    value.Address,
		Record:     value.Record,
	}
	if doc := strings.TrimSpace(value.Document); doc != "" {
		m.Document = &doc
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Citizen{}, translate(err, domain.ErrDuplicateDocument)
	}
	return toCitizen(m), nil
}

func (r *RecordsRepository) ListCitizens(ctx context.Context, query string, limit int) ([]domain.Citizen, error) {
	q := r.db.WithContext(ctx).Model(&CitizenModel{})
	if strings.TrimSpace(query) != "" {
		q = q.Where("name LIKE ?", "%"+strings.TrimSpace(query)+"%")
	}
	rows := make([]CitizenModel, 0)
	if err := q.Order("name ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Citizen, 0, len(rows))
	for _, m := range rows {
		result = append(result, toCitizen(m))
	}
	return result, nil
}

func (r *RecordsRepository) CreateCrime(ctx context.Context, value domain.Crime) (domain.Crime, error) {
	m := CrimeModel{Name: strings.TrimSpace(value.Name), Article: value.Article, Penalty: value.Penalty}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Crime{}, err
	}
	return domain.Crime{ID: m.ID, Name: m.Name, Article: m.Article, Penalty: m.Penalty}, nil
}

func (r *RecordsRepository) ListCrimes(ctx context.Context) ([]domain.Crime, error) {
	rows := make([]CrimeModel, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Crime, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.Crime{ID: m.ID, Name: m.Name, Article: m.Article, Penalty: m.Penalty})
	}
	return result, nil
}

func (r *RecordsRepository) CreateAnnouncement(ctx context.Context, value domain.Announcement) (domain.Announcement, error) {
	m := AnnouncementModel{
		Title:       value.Title,
		Content:     value.Content,
		Category:    value.Category,
		Priority:    defaultString(value.Priority, domain.PriorityNormal),
		Attachment:  value.Attachment,
		AuthorID:    value.AuthorID,
		Active:      value.Active,
		PublishedAt: value.PublishedAt,
	}
	if m.PublishedAt.IsZero() {
		m.PublishedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Announcement{}, err
	}
	return toAnnouncement(m), nil
}

func (r *RecordsRepository) GetAnnouncementByID(ctx context.Context, id uint) (domain.Announcement, error) {
	var m AnnouncementModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return domain.Announcement{}, translate(err, nil)
	}
	return toAnnouncement(m), nil
}

func (r *RecordsRepository) ListAnnouncements(ctx context.Context, query domain.AnnouncementQuery, limit int) ([]domain.Announcement, error) {
	q := r.db.WithContext(ctx).Model(&AnnouncementModel{})
	if query.OnlyActive {
		q = q.Where("active = ?", true)
	}
	if strings.TrimSpace(query.Category) != "" {
		q = q.Where("category = ?", strings.TrimSpace(query.Category))
	}
	if strings.TrimSpace(query.Query) != "" {
		q = q.Where("title LIKE ?", "%"+strings.TrimSpace(query.Query)+"%")
	}
	rows := make([]AnnouncementModel, 0)
	if err := q.Order("published_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Announcement, 0, len(rows))
	for _, m := range rows {
		result = append(result, toAnnouncement(m))
	}
	return result, nil
}

func (r *RecordsRepository) DeleteAnnouncement(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&AnnouncementModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordsRepository) CreateSession(ctx context.Context, value domain.AuthSession) (domain.AuthSession, error) {
	m := SessionModel{OfficerID: value.OfficerID, TokenHash: value.TokenHash, ExpiresAt: value.ExpiresAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.AuthSession{}, err
	}
	return domain.AuthSession{ID: m.ID, OfficerID: m.OfficerID, TokenHash: m.TokenHash, ExpiresAt: m.ExpiresAt, CreatedAt: m.CreatedAt}, nil
}

func (r *RecordsRepository) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.AuthSession, error) {
	var m SessionModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		return domain.AuthSession{}, translate(err, nil)
	}
	return domain.AuthSession{ID: m.ID, OfficerID: m.OfficerID, TokenHash: m.TokenHash, ExpiresAt: m.ExpiresAt, CreatedAt: m.CreatedAt}, nil
}

func (r *RecordsRepository) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	return r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&SessionModel{}).Error
}

func (r *RecordsRepository) CreateAPIToken(ctx context.Context, value domain.APIToken) (domain.APIToken, error) {
	m := APITokenModel{OfficerID: value.OfficerID, Name: value.Name, TokenHash: value.TokenHash, ExpiresAt: value.ExpiresAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.APIToken{}, err
	}
	return domain.APIToken{ID: m.ID, OfficerID: m.OfficerID, Name: m.Name, TokenHash: m.TokenHash, ExpiresAt: m.ExpiresAt, CreatedAt: m.CreatedAt}, nil
}

func (r *RecordsRepository) GetAPITokenByTokenHash(ctx context.Context, tokenHash string) (domain.APIToken, error) {
	var m APITokenModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		return domain.APIToken{}, translate(err, nil)
	}
	return domain.APIToken{ID: m.ID, OfficerID: m.OfficerID, Name: m.Name, TokenHash: m.TokenHash, ExpiresAt: m.ExpiresAt, CreatedAt: m.CreatedAt}, nil
}

func (r *RecordsRepository) CreateAuditLog(ctx context.Context, value domain.AuditLog) error {
	m := AuditLogModel{ActorID: value.ActorID, Action: value.Action, TargetType: value.TargetType, TargetID: value.TargetID, Metadata: value.Metadata}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *RecordsRepository) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	type row struct {
		ID         uint
		ActorID    *uint
		ActorName  string
		Action     string
		TargetType string
		TargetID   *uint
		Metadata   string
		CreatedAt  time.Time
	}
	rows := make([]row, 0)
	err := r.db.WithContext(ctx).Raw(`
SELECT a.id,
       a.actor_id,
       COALESCE(o.name, '') AS actor_name,
       a.action,
       a.target_type,
       a.target_id,
       a.metadata,
       a.created_at
FROM audit_logs a
LEFT JOIN officers o ON o.id = a.actor_id
ORDER BY a.id DESC
LIMIT ?
`, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.AuditRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, domain.AuditRecord{
			ID:         m.ID,
			ActorID:    m.ActorID,
			ActorName:  m.ActorName,
			Action:     m.Action,
			TargetType: m.TargetType,
			TargetID:   m.TargetID,
			Metadata:   m.Metadata,
			CreatedAt:  m.CreatedAt,
		})
	}
	return result, nil
}

// translate maps storage errors onto the domain taxonomy. duplicate is the
// error reported for a unique-constraint violation on the written row.
func translate(err error, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case duplicate != nil && isUniqueViolation(err):
		return fmt.Errorf("%w: %v", duplicate, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func defaultString(input, fallback string) string {
	if strings.TrimSpace(input) == "" {
		return fallback
	}
	return input
}

func toRank(m RankModel) domain.Rank {
	return domain.Rank{ID: m.ID, Name: m.Name, Level: m.Level, CreatedAt: m.CreatedAt}
}

func toOfficer(m OfficerModel) domain.Officer {
	o := domain.Officer{
		ID:           m.ID,
		Name:         m.Name,
		Badge:        m.Badge,
		PasswordHash: m.PasswordHash,
		RankID:       m.RankID,
		Station:      m.Station,
		Department:   m.Department,
		Address:      m.Address,
		Notes:        m.Notes,
		Photo:        m.Photo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Rank != nil {
		rank := toRank(*m.Rank)
		o.Rank = &rank
	}
	return o
}

func toPromotion(m PromotionModel) domain.PromotionRecord {
	return domain.PromotionRecord{
		ID:                m.ID,
		OfficerID:         m.OfficerID,
		OfficerName:       m.OfficerName,
		AuthorID:          m.AuthorID,
		PreviousRankName:  m.PreviousRankName,
		PreviousRankLevel: m.PreviousRankLevel,
		NewRankName:       m.NewRankName,
		NewRankLevel:      m.NewRankLevel,
		Reason:            m.Reason,
		CreatedAt:         m.CreatedAt,
	}
}

func toDisciplinary(m DisciplinaryRecordModel) domain.DisciplinaryRecord {
	return domain.DisciplinaryRecord{
		ID:          m.ID,
		OfficerID:   m.OfficerID,
		OfficerName: m.OfficerName,
		AuthorID:    m.AuthorID,
		Category:    m.Category,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func toSeizedItem(m SeizedItemModel) domain.SeizedItem {
	return domain.SeizedItem{
		ID:         m.ID,
		Collection: domain.CollectionType(m.Collection),
		Category:   m.Category,
		Model:      m.Model,
		Brand:      m.Brand,
		Caliber:    m.Caliber,
		Serial:     m.Serial,
		Status:     domain.CustodyStatus(m.Status),
		Location:   m.Location,
		ReportID:   m.ReportID,
		ArrestID:   m.ArrestID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toMovement(m MovementModel) domain.MovementRecord {
	return domain.MovementRecord{
		ID:            m.ID,
		ItemID:        m.ItemID,
		ResponsibleID: m.ResponsibleID,
		MovementType:  domain.MovementType(m.MovementType),
		Destination:   m.Destination,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

func toReport(m ReportModel) domain.IncidentReport {
	r := domain.IncidentReport{
		ID:                 m.ID,
		Complainant:        m.Complainant,
		Victim:             m.Victim,
		Description:        m.Description,
		ResponsibleOfficer: m.ResponsibleOfficer,
		Status:             m.Status,
		CoverFile:          m.CoverFile,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	for _, a := range m.Attachments {
		r.Attachments = append(r.Attachments, toAttachment(a))
	}
	return r
}

func toAttachment(m ReportAttachmentModel) domain.ReportAttachment {
	return domain.ReportAttachment{ID: m.ID, ReportID: m.ReportID, File: m.File, Kind: m.Kind, CreatedAt: m.CreatedAt}
}

func toArrest(m ArrestModel) domain.ArrestRecord {
	return domain.ArrestRecord{
		ID:                 m.ID,
		Detainee:           m.Detainee,
		FactDescription:    m.FactDescription,
		Witnesses:          m.Witnesses,
		ResponsibleOfficer: m.ResponsibleOfficer,
		ArrestedAt:         m.ArrestedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toCitizen(m CitizenModel) domain.Citizen {
	c := domain.Citizen{
		ID:         m.ID,
		Name:       m.Name,
		BirthDate:  m.BirthDate,
		MotherName: m.MotherName,
		Address:    m.Address,
		Record:     m.Record,
		CreatedAt:  m.CreatedAt,
	}
	if m.Document != nil {
		c.Document = *m.Document
	}
	return c
}

func toAnnouncement(m AnnouncementModel) domain.Announcement {
	return domain.Announcement{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		Category:    m.Category,
		Priority:    m.Priority,
		Attachment:  m.Attachment,
		AuthorID:    m.AuthorID,
		Active:      m.Active,
		PublishedAt: m.PublishedAt,
	}
}
