package domain

import (
	"math"
	"math/rand"
	"sort"
)

// MCParams 蒙特卡洛模拟参数
type MCParams struct {
	ForwardSpread  float64
	Volatility     float64
	TimeToMaturity float64
	Strike         float64
	Side           OptionType
	RiskFreeRate   float64
	NumPaths       int
	NumSteps       int
	Seed           int64
}

// MCResults 蒙特卡洛模拟结果
type MCResults struct {
	Price               float64            `json:"price"`
	StandardError       float64            `json:"standard_error"`
	PayoffStd           float64            `json:"payoff_std"`
	Percentiles         map[string]float64 `json:"percentiles"`
	ExerciseProbability float64            `json:"exercise_probability"`
	NumPaths            int                `json:"num_paths"`
	NumSteps            int                `json:"num_steps"`
}

// MonteCarloSimulator 算术布朗运动下的价差期权蒙特卡洛模拟器。
// 相同种子产生相同结果。
type MonteCarloSimulator struct{}

// Run 按参数模拟并返回贴现后的估值统计
func (MonteCarloSimulator) Run(p MCParams) *MCResults {
	if p.NumPaths <= 0 {
		p.NumPaths = 10000
	}
	if p.NumSteps <= 0 {
		p.NumSteps = 1
	}

	rng := rand.New(rand.NewSource(p.Seed))
	dt := p.TimeToMaturity / float64(p.NumSteps)
	sqrtDt := math.Sqrt(dt)
	df := math.Exp(-p.RiskFreeRate * p.TimeToMaturity)

	payoffs := make([]float64, p.NumPaths)
	exercised := 0
	var sum, sumSq float64
	for i := 0; i < p.NumPaths; i++ {
		s := p.ForwardSpread
		for j := 0; j < p.NumSteps; j++ {
			s += p.Volatility * sqrtDt * rng.NormFloat64()
		}

		var payoff float64
		if p.Side == OptionTypeCall {
			payoff = math.Max(0, s-p.Strike)
		} else {
			payoff = math.Max(0, p.Strike-s)
		}
		if payoff > 0 {
			exercised++
		}

		payoffs[i] = payoff
		sum += payoff
		sumSq += payoff * payoff
	}

	n := float64(p.NumPaths)
	mean := sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	std := math.Sqrt(variance)

	sort.Float64s(payoffs)

	return &MCResults{
		Price:         df * mean,
		StandardError: df * std / math.Sqrt(n),
		PayoffStd:     std,
		Percentiles: map[string]float64{
			"p5":  df * percentile(payoffs, 5),
			"p25": df * percentile(payoffs, 25),
			"p50": df * percentile(payoffs, 50),
			"p75": df * percentile(payoffs, 75),
			"p95": df * percentile(payoffs, 95),
		},
		ExerciseProbability: float64(exercised) / n,
		NumPaths:            p.NumPaths,
		NumSteps:            p.NumSteps,
	}
}

// percentile 线性插值分位数，输入须已排序
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := pct / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
