package application

import (
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

// MarketContext 估值时的市场快照摘要
type MarketContext struct {
	EvaluationDate string    `json:"evaluation_date"`
	PricingDate    string    `json:"pricing_date"`
	PrimaryPrice   float64   `json:"primary_price"`
	SecondaryPrice float64   `json:"secondary_price"`
	ForwardSpreads []float64 `json:"forward_spreads"`
	DeliveryDates  []string  `json:"delivery_dates"`
	DecisionDate   string    `json:"decision_date"`
	TimeToMaturity float64   `json:"time_to_maturity"`
}

// ConfigSummary 请求配置回显
type ConfigSummary struct {
	OptionType     string  `json:"option_type"`
	PricingModel   string  `json:"pricing_model"`
	PrimaryIndex   string  `json:"primary_index"`
	SecondaryIndex string  `json:"secondary_index"`
	CargoVolume    float64 `json:"cargo_volume"`
	NumOptions     int     `json:"num_options"`
}

// ValuationResult 估值结果信封，序列化后直接返回给 API 调用方
type ValuationResult struct {
	Fingerprint string `json:"fingerprint"`

	TotalValue      float64            `json:"total_value"`
	OptionValues    map[string]float64 `json:"option_values"`
	PortfolioGreeks domain.Greeks      `json:"portfolio_greeks"`
	MCResults       *domain.MCResults  `json:"mc_results,omitempty"`

	StrikePrice        float64 `json:"strike_price"`
	TotalContractValue float64 `json:"total_contract_value"`

	// 年化正态波动率标题值与相对价差的百分比波动率
	SpreadVolatility float64 `json:"spread_volatility"`
	PercentageVol    float64 `json:"percentage_vol"`
	// 波动率来源说明，曲面不可用时为 "No volatility"
	VolatilitySource string                              `json:"volatility_source"`
	VolatilitySmiles map[string][]domain.VolatilityPoint `json:"volatility_smiles,omitempty"`

	// 每个指数的数据质量（live / fallback）
	DataQuality map[string]string `json:"data_quality"`

	MarketContext MarketContext `json:"market_context"`
	ConfigSummary ConfigSummary `json:"config_summary"`

	// 实际执行的模型（请求的模型不可用时与 config_summary 不同）
	ModelUsed string    `json:"model_used"`
	PricedAt  time.Time `json:"priced_at"`
}
