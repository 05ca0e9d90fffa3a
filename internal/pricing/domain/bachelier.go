package domain

import (
	"context"
	"math"
	"time"
)

// BachelierPricer 正态（Bachelier）模型解析定价器。
// 价差可为负，正态模型是价差期权的自然选择。
type BachelierPricer struct{}

// Price 计算欧式期权价格
func (BachelierPricer) Price(s0, k, t, sigma float64, side OptionType, r float64) float64 {
	df := math.Exp(-r * t)

	// σ√T 退化时回退到内在价值
	if sigma*math.Sqrt(t) <= 0 {
		if side == OptionTypeCall {
			return math.Max(0, s0-k)
		}
		return math.Max(0, k-s0)
	}

	d := (s0 - k) / (sigma * math.Sqrt(t))
	nd := normCdf(d)
	pd := normPdf(d)

	if side == OptionTypeCall {
		return df * ((s0-k)*nd + sigma*math.Sqrt(t)*pd)
	}
	return df * ((k-s0)*(1-nd) + sigma*math.Sqrt(t)*pd)
}

// Delta 价格对标的价差的敏感度
func (BachelierPricer) Delta(s0, k, t, sigma float64, side OptionType, r float64) float64 {
	df := math.Exp(-r * t)

	if sigma*math.Sqrt(t) <= 0 {
		if side == OptionTypeCall {
			if s0 > k {
				return 1.0
			}
			return 0.0
		}
		if s0 < k {
			return -1.0
		}
		return 0.0
	}

	d := (s0 - k) / (sigma * math.Sqrt(t))
	if side == OptionTypeCall {
		return df * normCdf(d)
	}
	return df * (normCdf(d) - 1)
}

// DifferentialDelta 价格对贴水变动的敏感度。
// 贴水上升抬高行权价：看涨减值、看跌增值，故取常规 delta 的相反数。
func (p BachelierPricer) DifferentialDelta(s0, k, t, sigma float64, side OptionType, r float64) float64 {
	df := math.Exp(-r * t)

	if sigma*math.Sqrt(t) <= 0 {
		if side == OptionTypeCall {
			if s0 > k {
				return -1.0
			}
			return 0.0
		}
		if s0 < k {
			return 1.0
		}
		return 0.0
	}

	d := (s0 - k) / (sigma * math.Sqrt(t))
	if side == OptionTypeCall {
		return -df * normCdf(d)
	}
	return -df * (normCdf(d) - 1)
}

// Gamma delta 对标的价差的敏感度
func (BachelierPricer) Gamma(s0, k, t, sigma float64, r float64) float64 {
	df := math.Exp(-r * t)

	denom := sigma * math.Sqrt(t)
	if denom <= 0 {
		return 0.0
	}

	d := (s0 - k) / denom
	return df * normPdf(d) / denom
}

// Vega 价格对波动率的敏感度，看涨看跌相同
func (BachelierPricer) Vega(s0, k, t, sigma float64, r float64) float64 {
	df := math.Exp(-r * t)

	if t <= 0 || sigma <= 0 {
		return 0.0
	}

	d := (s0 - k) / (sigma * math.Sqrt(t))
	return df * normPdf(d) * math.Sqrt(t)
}

// Theta 价格对时间流逝的敏感度
func (BachelierPricer) Theta(s0, k, t, sigma float64, side OptionType, r float64) float64 {
	df := math.Exp(-r * t)

	if t <= 0 || sigma <= 0 {
		return 0.0
	}

	d := (s0 - k) / (sigma * math.Sqrt(t))
	common := -sigma * normPdf(d) / (2 * math.Sqrt(t))

	if side == OptionTypeCall {
		return df * (common + r*(s0-k)*normCdf(d))
	}
	return df * (common + r*(k-s0)*normCdf(-d))
}

// normCdf 标准正态分布累积分布函数
func normCdf(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPdf 标准正态分布概率密度函数
func normPdf(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// BachelierModelConfig Bachelier 价差模型配置
type BachelierModelConfig struct {
	RiskFreeRate  float64
	RunMonteCarlo bool
	MCPaths       int
	MCSeed        int64
}

// BachelierSpreadModel Bachelier 价差期权模型，PricingModel 的默认实现
type BachelierSpreadModel struct {
	pricer    BachelierPricer
	simulator MonteCarloSimulator
	cfg       BachelierModelConfig
}

// NewBachelierSpreadModel 创建 Bachelier 价差模型
func NewBachelierSpreadModel(cfg BachelierModelConfig) *BachelierSpreadModel {
	if cfg.MCPaths <= 0 {
		cfg.MCPaths = 10000
	}
	return &BachelierSpreadModel{cfg: cfg}
}

// Name 返回模型标识
func (m *BachelierSpreadModel) Name() string { return "bachelier" }

// Process 对快照中每个交割日估值并汇总。
// TotalValue 为各交割日单位价值的均值，乘以货量与期权数即得组合总值；
// 组合希腊字母同样取均值。
func (m *BachelierSpreadModel) Process(ctx context.Context, snapshot *MarketSnapshot) (*ModelOutput, error) {
	side := snapshot.OptionType.ModelSide()

	n := len(snapshot.DeliveryDates)
	if n == 0 {
		return &ModelOutput{OptionValues: map[string]float64{}}, nil
	}

	out := &ModelOutput{
		OptionValues: make(map[string]float64, n),
	}

	var sumValue float64
	var sumGreeks Greeks
	for i, deliveryDate := range snapshot.DeliveryDates {
		s0 := m.spreadAt(snapshot, i)
		sigma := m.volAt(snapshot, i)
		k := snapshot.Strike
		t := snapshot.TimeToMaturity
		r := m.cfg.RiskFreeRate

		value := m.pricer.Price(s0, k, t, sigma, side, r)
		out.OptionValues[deliveryDate.Format(time.DateOnly)] = value
		sumValue += value

		sumGreeks.Delta += m.pricer.Delta(s0, k, t, sigma, side, r)
		sumGreeks.Gamma += m.pricer.Gamma(s0, k, t, sigma, r)
		sumGreeks.Vega += m.pricer.Vega(s0, k, t, sigma, r)
		sumGreeks.Theta += m.pricer.Theta(s0, k, t, sigma, side, r)
		sumGreeks.DifferentialDelta += m.pricer.DifferentialDelta(s0, k, t, sigma, side, r)
	}

	fn := float64(n)
	out.TotalValue = sumValue / fn
	out.Greeks = Greeks{
		Delta:             sumGreeks.Delta / fn,
		Gamma:             sumGreeks.Gamma / fn,
		Vega:              sumGreeks.Vega / fn,
		Theta:             sumGreeks.Theta / fn,
		DifferentialDelta: sumGreeks.DifferentialDelta / fn,
	}

	if m.cfg.RunMonteCarlo {
		steps := int(snapshot.TimeToMaturity * 252)
		if steps < 1 {
			steps = 1
		}
		out.MCResults = m.simulator.Run(MCParams{
			ForwardSpread:  m.spreadAt(snapshot, 0),
			Volatility:     m.volAt(snapshot, 0),
			TimeToMaturity: snapshot.TimeToMaturity,
			Strike:         snapshot.Strike,
			Side:           side,
			RiskFreeRate:   m.cfg.RiskFreeRate,
			NumPaths:       m.cfg.MCPaths,
			NumSteps:       steps,
			Seed:           m.cfg.MCSeed,
		})
	}

	return out, nil
}

func (m *BachelierSpreadModel) spreadAt(snapshot *MarketSnapshot, i int) float64 {
	if i < len(snapshot.ForwardSpreads) {
		return snapshot.ForwardSpreads[i]
	}
	if len(snapshot.ForwardSpreads) > 0 {
		return snapshot.ForwardSpreads[0]
	}
	return 0.0
}

func (m *BachelierSpreadModel) volAt(snapshot *MarketSnapshot, i int) float64 {
	if i < len(snapshot.SpreadVolatilities) {
		return snapshot.SpreadVolatilities[i]
	}
	if snapshot.SpreadVolatility > 0 {
		return snapshot.SpreadVolatility
	}
	return 0.3
}
