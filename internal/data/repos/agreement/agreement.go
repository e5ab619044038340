package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

type AgreementRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *domain.Agreement) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.Agreement, error)
	List(ctx context.Context, tx *gorm.DB, page, perPage int, status string) ([]*domain.Agreement, int64, error)
	Aggregate(ctx context.Context, tx *gorm.DB) (*domain.AgreementStats, error)
	AppendLog(ctx context.Context, tx *gorm.DB, agreementID, action string, details map[string]any) error
}

type agreementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgreementRepo(db *gorm.DB, baseLog *logger.Logger) AgreementRepo {
	repoLog := baseLog.With("repo", "AgreementRepo")
	return &agreementRepo{db: db, log: repoLog}
}

func (ar *agreementRepo) Create(ctx context.Context, tx *gorm.DB, rec *domain.Agreement) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if rec == nil {
		return fmt.Errorf("agreement required")
	}
	return transaction.WithContext(ctx).Create(rec).Error
}

func (ar *agreementRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*domain.Agreement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result domain.Agreement
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (ar *agreementRepo) List(ctx context.Context, tx *gorm.DB, page, perPage int, status string) ([]*domain.Agreement, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	query := transaction.WithContext(ctx).Model(&domain.Agreement{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*domain.Agreement
	if err := query.
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (ar *agreementRepo) Aggregate(ctx context.Context, tx *gorm.DB) (*domain.AgreementStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	stats := &domain.AgreementStats{
		ByStatus:      map[string]int64{},
		ByPartnership: map[string]int64{},
		Recent:        []domain.RecentAgreement{},
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Agreement{}).
		Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		Label string
		Count int64
	}

	var statusRows []countRow
	if err := transaction.WithContext(ctx).
		Model(&domain.Agreement{}).
		Select("status AS label, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Label] = row.Count
	}

	var levelRows []countRow
	if err := transaction.WithContext(ctx).
		Model(&domain.Agreement{}).
		Select("partnership_level AS label, COUNT(*) AS count").
		Group("partnership_level").
		Scan(&levelRows).Error; err != nil {
		return nil, err
	}
	for _, row := range levelRows {
		stats.ByPartnership[row.Label] = row.Count
	}

	if err := transaction.WithContext(ctx).
		Model(&domain.Agreement{}).
		Select("id, vendor_name, created_at").
		Order("created_at DESC").
		Limit(5).
		Scan(&stats.Recent).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

func (ar *agreementRepo) AppendLog(ctx context.Context, tx *gorm.DB, agreementID, action string, details map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	entry := &domain.AgreementLog{
		AgreementID: agreementID,
		Action:      action,
		Timestamp:   nowUTC(),
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal log details: %w", err)
		}
		entry.Details = datatypes.JSON(raw)
	}
	return transaction.WithContext(ctx).Create(entry).Error
}

func nowUTC() time.Time { return time.Now().UTC() }
