package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

// ValuationModel MySQL 估值留底表映射
type ValuationModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Fingerprint    string `gorm:"column:fingerprint;type:varchar(64);uniqueIndex;not null"`
	PrimaryIndex   string `gorm:"column:primary_index;type:varchar(32);index;not null"`
	SecondaryIndex string `gorm:"column:secondary_index;type:varchar(32);index;not null"`
	OptionType     string `gorm:"column:option_type;type:varchar(20)"`
	PricingModel   string `gorm:"column:pricing_model;type:varchar(32)"`

	Strike        string `gorm:"column:strike;type:decimal(32,18);not null"`
	TotalValue    string `gorm:"column:total_value;type:decimal(32,18);not null"`
	ContractValue string `gorm:"column:contract_value;type:decimal(32,18);not null"`

	SpreadVolatility float64   `gorm:"column:spread_volatility;type:decimal(20,8)"`
	PercentageVol    float64   `gorm:"column:percentage_vol;type:decimal(20,8)"`
	DataQuality      string    `gorm:"column:data_quality;type:varchar(16)"`
	NumOptions       int       `gorm:"column:num_options"`
	PricedAt         time.Time `gorm:"column:priced_at;index"`
}

func (ValuationModel) TableName() string { return "valuations" }

func toValuationModel(r *domain.ValuationRecord) *ValuationModel {
	if r == nil {
		return nil
	}
	return &ValuationModel{
		ID:               r.ID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		Fingerprint:      r.Fingerprint,
		PrimaryIndex:     r.PrimaryIndex,
		SecondaryIndex:   r.SecondaryIndex,
		OptionType:       r.OptionType,
		PricingModel:     r.PricingModel,
		Strike:           r.Strike.String(),
		TotalValue:       r.TotalValue.String(),
		ContractValue:    r.ContractValue.String(),
		SpreadVolatility: r.SpreadVolatility,
		PercentageVol:    r.PercentageVol,
		DataQuality:      r.DataQuality,
		NumOptions:       r.NumOptions,
		PricedAt:         r.PricedAt,
	}
}

func toValuationRecord(m *ValuationModel) *domain.ValuationRecord {
	if m == nil {
		return nil
	}
	strike, _ := decimal.NewFromString(m.Strike)
	totalValue, _ := decimal.NewFromString(m.TotalValue)
	contractValue, _ := decimal.NewFromString(m.ContractValue)

	return &domain.ValuationRecord{
		ID:               m.ID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		Fingerprint:      m.Fingerprint,
		PrimaryIndex:     m.PrimaryIndex,
		SecondaryIndex:   m.SecondaryIndex,
		OptionType:       m.OptionType,
		PricingModel:     m.PricingModel,
		Strike:           strike,
		TotalValue:       totalValue,
		ContractValue:    contractValue,
		SpreadVolatility: m.SpreadVolatility,
		PercentageVol:    m.PercentageVol,
		DataQuality:      m.DataQuality,
		NumOptions:       m.NumOptions,
		PricedAt:         m.PricedAt,
	}
}
