// 包 domain 价差期权定价服务的领域模型
package domain

import (
	"context"
	"time"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall          OptionType = "call"           // 看涨期权
	OptionTypePut           OptionType = "put"            // 看跌期权
	OptionTypeVanillaSpread OptionType = "vanilla_spread" // 两指数价差期权
)

// Normalize 将任意输入归一化为已知期权类型，未知输入归一化为价差期权
func (t OptionType) Normalize() OptionType {
	switch t {
	case OptionTypeCall, OptionTypePut, OptionTypeVanillaSpread:
		return t
	default:
		return OptionTypeVanillaSpread
	}
}

// ModelSide 返回模型调度用的方向（call/put）。
// vanilla_spread 表示切换权，按价差看涨处理。
func (t OptionType) ModelSide() OptionType {
	if t == OptionTypePut {
		return OptionTypePut
	}
	return OptionTypeCall
}

// DataQuality 市场数据质量标记
type DataQuality string

const (
	DataQualityLive     DataQuality = "live"     // 真实行情
	DataQualityFallback DataQuality = "fallback" // provider 失败后的合成数据
)

// IndexData 单个指数的即期行情
type IndexData struct {
	Price       float64   `json:"price"`
	LastUpdated time.Time `json:"last_updated"`
}

// PricePoint 历史价格序列中的一个点
type PricePoint struct {
	Date  time.Time
	Price float64
}

// Series 按日期升序排列的历史价格序列
type Series []PricePoint

// MarketSnapshot 一次估值所需的全部市场数据。
// 由单次请求独占，不跨请求共享或缓存。
type MarketSnapshot struct {
	EvaluationDate time.Time
	PricingDate    time.Time
	DeliveryDates  []time.Time
	DecisionDate   time.Time
	// 到决策日的年化期限，max(0, decision-pricing)/365
	TimeToMaturity float64

	IndicesData   map[string]IndexData
	ForwardCurves map[string]ForwardCurve
	// 每个交割日一个远期价差，与 DeliveryDates 一一对应，4 位小数
	ForwardSpreads []float64
	// 行权价 K = secondary_differential - primary_differential + total_cost_per_option
	Strike float64

	// 价差的年化正态波动率（标题值）
	SpreadVolatility float64
	// 相对价差幅度的百分比波动率
	PercentageVol float64
	// 每个交割日一个价差波动率，与 DeliveryDates 对应
	SpreadVolatilities []float64
	// 完整波动率微笑，key 为指数代码或 "PRI-SEC" 价差键
	Volatilities map[string][]VolatilityPoint

	// 每个指数的数据质量标记
	DataQuality map[string]DataQuality

	OptionType OptionType
	NumOptions int
}

// Greeks 组合希腊字母
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	// 对贴水变动的敏感度（行权价随贴水移动）
	DifferentialDelta float64 `json:"differential_delta"`
}

// ModelOutput 定价模型的原始输出
type ModelOutput struct {
	// 单位货量的期权价值（各交割日均值）
	TotalValue float64
	// 每个交割日（ISO-8601 日期串）的单位价值
	OptionValues map[string]float64
	Greeks       Greeks
	// 蒙特卡洛结果，模型可选输出
	MCResults *MCResults
}

// PricingModel 定价模型接口。
// 实现必须是无状态的：同一快照两次调用产生相同输出。
type PricingModel interface {
	Process(ctx context.Context, snapshot *MarketSnapshot) (*ModelOutput, error)
	Name() string
}
