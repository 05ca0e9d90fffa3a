package domain

import (
	"math"
	"strings"
	"time"
)

const (
	// 年化交易日数
	tradingDaysPerYear = 252.0
	// 波动率上下限
	volFloor = 0.1
	volCap   = 0.8
	// 价差两腿的默认相关系数
	defaultSpreadCorrelation = 0.7
	// 均值回复速度，期限结构因子使用
	meanReversionSpeed = 0.5
	// 通用默认年化波动率
	defaultGeneralVol = 0.3
	// 无法报出百分比波动率时的兜底值
	DefaultPercentageVol = 35.0
)

// defaultIndexVols 各指数的默认年化波动率
var defaultIndexVols = map[string]float64{
	"THE": 0.35,
	"TFU": 0.32,
	"JKM": 0.40,
	"DES": 0.38,
	"NBP": 0.33,
	"HH":  0.45,
}

// VolatilityPoint 波动率微笑上的一个点
type VolatilityPoint struct {
	Strike        float64 `json:"strike"`
	Volatility    float64 `json:"volatility"`
	PercentageVol float64 `json:"percentage_vol"`
	Delta         float64 `json:"delta"`
}

// VolatilityModel 从历史价格序列估计季节性调整后的正态波动率，
// 并生成价差与单指数的波动率微笑。
type VolatilityModel struct{}

// NewVolatilityModel 创建波动率模型
func NewVolatilityModel() *VolatilityModel {
	return &VolatilityModel{}
}

// DefaultVolatility 返回指数的默认年化波动率。
// 按子串匹配已知指数代码，未知指数使用通用默认值。
func (VolatilityModel) DefaultVolatility(indexName string) float64 {
	upper := strings.ToUpper(indexName)
	for code, vol := range defaultIndexVols {
		if strings.Contains(upper, code) {
			return vol
		}
	}
	return defaultGeneralVol
}

// EstimateVolatility 从历史序列估计某交割日的年化波动率。
// 序列不足两个点时使用指数默认值，随后做季节与期限调整并夹到 [0.1, 0.8]。
func (m VolatilityModel) EstimateVolatility(series Series, indexName string, deliveryDate time.Time, timeToMaturity float64) float64 {
	base := m.historicalVol(series)
	if base <= 0 {
		base = m.DefaultVolatility(indexName)
	}

	adjusted := base * seasonalFactor(deliveryDate.Month()) * termFactor(timeToMaturity)
	return clampVol(adjusted)
}

// EstimateSpreadVolatility 估计两指数价差的年化波动率。
// 直接从价差序列估计，再与两腿波动率的组合值按 0.7/0.3 加权，
// 组合值假定相关系数 0.7。
func (m VolatilityModel) EstimateSpreadVolatility(primary, secondary Series, primaryName, secondaryName string, deliveryDate time.Time, timeToMaturity float64) float64 {
	spread := alignSpreadSeries(primary, secondary)

	direct := m.historicalVol(spread)
	if direct <= 0 {
		direct = m.DefaultVolatility(primaryName)
	}

	v1 := m.historicalVol(primary)
	if v1 <= 0 {
		v1 = m.DefaultVolatility(primaryName)
	}
	v2 := m.historicalVol(secondary)
	if v2 <= 0 {
		v2 = m.DefaultVolatility(secondaryName)
	}

	combined := v1*v1 + v2*v2 - 2*defaultSpreadCorrelation*v1*v2
	if combined < 0 {
		combined = 0
	}
	blended := 0.7*direct + 0.3*math.Sqrt(combined)

	adjusted := blended * seasonalFactor(deliveryDate.Month()) * termFactor(timeToMaturity)
	return clampVol(adjusted)
}

// GenerateSmile 围绕当前价差生成 5 个行权价的波动率微笑。
// 行权价覆盖 ±20%，微笑因子 1+0.5m²，偏斜因子 1-0.1m，m 为相对价值度。
func (m VolatilityModel) GenerateSmile(atmVol, spread float64) []VolatilityPoint {
	ref := math.Abs(spread)
	if ref < 0.01 {
		ref = 0.01
	}

	moneyness := []float64{-0.2, -0.1, 0.0, 0.1, 0.2}
	points := make([]VolatilityPoint, 0, len(moneyness))
	for _, mny := range moneyness {
		smile := 1 + 0.5*mny*mny
		skew := 1 - 0.1*mny
		vol := clampVol(atmVol * smile * skew)

		points = append(points, VolatilityPoint{
			Strike:        roundTo(spread+mny*ref, 4),
			Volatility:    roundTo(vol, 6),
			PercentageVol: roundTo(vol/ref*100, 2),
			Delta:         roundTo(0.5-mny, 4),
		})
	}
	return points
}

// BuildSurface 为全部指数与指数对生成波动率曲面。
// 单指数微笑以指数名为键；价差微笑以 "PRIMARY-SECONDARY" 为键。
func (m VolatilityModel) BuildSurface(histories map[string]Series, indices []string, basePrices map[string]float64, deliveryDate time.Time, timeToMaturity float64) map[string][]VolatilityPoint {
	surface := make(map[string][]VolatilityPoint, len(indices)*2)

	for _, index := range indices {
		vol := m.EstimateVolatility(histories[index], index, deliveryDate, timeToMaturity)
		surface[index] = m.GenerateSmile(vol, basePrices[index])
	}

	for i, primary := range indices {
		for _, secondary := range indices[i+1:] {
			key := primary + "-" + secondary
			vol := m.EstimateSpreadVolatility(histories[primary], histories[secondary], primary, secondary, deliveryDate, timeToMaturity)
			spread, ok := basePrices[key]
			if !ok {
				spread = basePrices[primary] - basePrices[secondary]
			}
			surface[key] = m.GenerateSmile(vol, spread)
		}
	}
	return surface
}

// LookupSmile 在微笑上查找行权价对应的波动率。
// 先按 1e-4 容差精确匹配，否则取行权价最接近的点；空微笑返回 false。
func (VolatilityModel) LookupSmile(points []VolatilityPoint, strike float64) (VolatilityPoint, bool) {
	if len(points) == 0 {
		return VolatilityPoint{}, false
	}

	best := points[0]
	bestDist := math.Abs(points[0].Strike - strike)
	for _, p := range points[1:] {
		d := math.Abs(p.Strike - strike)
		if d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best, true
}

// historicalVol 从价格序列估计年化波动率。
// 默认用对数收益率；序列含非正价格（价差常见）时改用价格差分。
func (VolatilityModel) historicalVol(series Series) float64 {
	if len(series) < 2 {
		return 0
	}

	hasNonPositive := false
	for _, p := range series {
		if p.Price <= 0 {
			hasNonPositive = true
			break
		}
	}

	returns := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		if hasNonPositive {
			returns = append(returns, series[i].Price-series[i-1].Price)
		} else {
			returns = append(returns, math.Log(series[i].Price/series[i-1].Price))
		}
	}

	std := sampleStd(returns)
	if std <= 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return 0
	}
	return std * math.Sqrt(tradingDaysPerYear)
}

// seasonalFactor 按交割月返回季节性因子。
// 冬季（12-2 月）需求高企波动最大，过渡月次之，夏季最低。
func seasonalFactor(month time.Month) float64 {
	switch month {
	case time.December, time.January, time.February:
		return 1.2
	case time.March, time.April, time.October, time.November:
		return 1.1
	default:
		return 0.9
	}
}

// termFactor 均值回复下的期限结构因子，长期限波动被压缩
func termFactor(timeToMaturity float64) float64 {
	if timeToMaturity <= 0 {
		return 1.0
	}
	x := 2 * meanReversionSpeed * timeToMaturity
	return math.Sqrt((1 - math.Exp(-x)) / x)
}

func clampVol(v float64) float64 {
	if v < volFloor {
		return volFloor
	}
	if v > volCap {
		return volCap
	}
	return v
}

// alignSpreadSeries 按日期对齐两条序列并取差，缺失日期的点被丢弃
func alignSpreadSeries(primary, secondary Series) Series {
	byDate := make(map[time.Time]float64, len(secondary))
	for _, p := range secondary {
		byDate[p.Date] = p.Price
	}

	spread := make(Series, 0, len(primary))
	for _, p := range primary {
		if sec, ok := byDate[p.Date]; ok {
			spread = append(spread, PricePoint{Date: p.Date, Price: p.Price - sec})
		}
	}
	return spread
}

func sampleStd(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
