package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type valuationRepository struct {
	db *gorm.DB
}

// NewValuationRepository 创建估值留底仓储
func NewValuationRepository(db *gorm.DB) domain.ValuationRepository {
	return &valuationRepository{db: db}
}

// Save 按指纹幂等写入：同一请求重复估值只覆盖结果，不产生新行
func (r *valuationRepository) Save(ctx context.Context, record *domain.ValuationRecord) error {
	if record == nil {
		return nil
	}
	model := toValuationModel(record)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fingerprint"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "pricing_model", "strike", "total_value", "contract_value",
			"spread_volatility", "percentage_vol", "data_quality", "priced_at",
		}),
	}).Create(model).Error
}

func (r *valuationRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*domain.ValuationRecord, error) {
	var model ValuationModel
	err := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toValuationRecord(&model), nil
}

func (r *valuationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ValuationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var models []ValuationModel
	err := r.db.WithContext(ctx).Order("priced_at desc").Limit(limit).Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]*domain.ValuationRecord, 0, len(models))
	for i := range models {
		records = append(records, toValuationRecord(&models[i]))
	}
	return records, nil
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ValuationModel{})
}
