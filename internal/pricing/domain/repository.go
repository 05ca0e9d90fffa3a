package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ValuationRecord 估值留底记录，用于审计与历史查询
type ValuationRecord struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time

	Fingerprint    string
	PrimaryIndex   string
	SecondaryIndex string
	OptionType     string
	PricingModel   string

	Strike        decimal.Decimal
	TotalValue    decimal.Decimal
	ContractValue decimal.Decimal

	SpreadVolatility float64
	PercentageVol    float64
	DataQuality      string
	NumOptions       int
	PricedAt         time.Time
}

// ValuationRepository 估值记录仓储接口
type ValuationRepository interface {
	Save(ctx context.Context, record *ValuationRecord) error
	FindByFingerprint(ctx context.Context, fingerprint string) (*ValuationRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*ValuationRecord, error)
}

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// IndexMarketData 单个指数的全部市场数据
type IndexMarketData struct {
	Spot    IndexData
	Curve   ForwardCurve
	History Series
	Quality DataQuality
}

// MarketDataGateway 行情网关接口。
// 实现不返回错误：数据源失败时返回打了 fallback 标记的合成数据。
type MarketDataGateway interface {
	FetchIndex(ctx context.Context, ticker string, pricingDate time.Time) IndexMarketData
}
