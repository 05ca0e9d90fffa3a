package domain

import (
	"context"
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func TestBachelierATMPrice(t *testing.T) {
	var p BachelierPricer

	// 平值：price = σ√T·φ(0)
	want := 1.0 * math.Exp(-0.5*0*0) / math.Sqrt(2*math.Pi)
	if got := p.Price(0, 0, 1, 1, OptionTypeCall, 0); math.Abs(got-want) > eps {
		t.Errorf("ATM call = %v, want %v", got, want)
	}
	if got := p.Price(0, 0, 1, 1, OptionTypePut, 0); math.Abs(got-want) > eps {
		t.Errorf("ATM put = %v, want %v", got, want)
	}
}

func TestBachelierPutCallParity(t *testing.T) {
	var p BachelierPricer

	tests := []struct {
		s0, k, tm, sigma float64
	}{
		{1.2, 0.15, 0.5, 0.35},
		{-0.4, 0.15, 1.0, 0.40},
		{0.0, -0.2, 0.25, 0.20},
	}
	for _, tt := range tests {
		call := p.Price(tt.s0, tt.k, tt.tm, tt.sigma, OptionTypeCall, 0)
		put := p.Price(tt.s0, tt.k, tt.tm, tt.sigma, OptionTypePut, 0)
		// 零利率下 call - put = S0 - K
		if got, want := call-put, tt.s0-tt.k; math.Abs(got-want) > 1e-9 {
			t.Errorf("parity for S0=%v K=%v: call-put = %v, want %v", tt.s0, tt.k, got, want)
		}
	}
}

func TestBachelierExpiredOptionIntrinsic(t *testing.T) {
	var p BachelierPricer

	if got := p.Price(1.0, 0.15, 0, 0.35, OptionTypeCall, 0); math.Abs(got-0.85) > eps {
		t.Errorf("expired ITM call = %v, want 0.85", got)
	}
	if got := p.Price(1.0, 0.15, 0, 0.35, OptionTypePut, 0); got != 0 {
		t.Errorf("expired OTM put = %v, want 0", got)
	}
	if got := p.Price(0.1, 0.15, 0.5, 0, OptionTypePut, 0); math.Abs(got-0.05) > eps {
		t.Errorf("zero-vol ITM put = %v, want 0.05", got)
	}
}

func TestBachelierGreeks(t *testing.T) {
	var p BachelierPricer
	s0, k, tm, sigma := 0.5, 0.15, 1.0, 0.35

	delta := p.Delta(s0, k, tm, sigma, OptionTypeCall, 0)
	if delta <= 0.5 || delta >= 1 {
		t.Errorf("ITM call delta = %v, want in (0.5, 1)", delta)
	}

	putDelta := p.Delta(s0, k, tm, sigma, OptionTypePut, 0)
	if got, want := delta-putDelta, 1.0; math.Abs(got-want) > eps {
		t.Errorf("call delta - put delta = %v, want 1", got)
	}

	// 贴水 delta 是常规 delta 的相反数
	if got := p.DifferentialDelta(s0, k, tm, sigma, OptionTypeCall, 0); math.Abs(got+delta) > eps {
		t.Errorf("differential delta = %v, want %v", got, -delta)
	}

	if gamma := p.Gamma(s0, k, tm, sigma, 0); gamma <= 0 {
		t.Errorf("gamma = %v, want > 0", gamma)
	}
	if vega := p.Vega(s0, k, tm, sigma, 0); vega <= 0 {
		t.Errorf("vega = %v, want > 0", vega)
	}
	if theta := p.Theta(s0, k, tm, sigma, OptionTypeCall, 0); theta >= 0 {
		t.Errorf("theta = %v, want < 0", theta)
	}
}

func TestBachelierDegenerateGreeks(t *testing.T) {
	var p BachelierPricer

	if got := p.Delta(1.0, 0.15, 0, 0.35, OptionTypeCall, 0); got != 1.0 {
		t.Errorf("expired ITM call delta = %v, want 1", got)
	}
	if got := p.Delta(0.1, 0.15, 0, 0.35, OptionTypePut, 0); got != -1.0 {
		t.Errorf("expired ITM put delta = %v, want -1", got)
	}
	if got := p.Gamma(1.0, 0.15, 0, 0.35, 0); got != 0 {
		t.Errorf("expired gamma = %v, want 0", got)
	}
	if got := p.Vega(1.0, 0.15, 0, 0.35, 0); got != 0 {
		t.Errorf("expired vega = %v, want 0", got)
	}
}

func testSnapshot(spreads []float64, vols []float64) *MarketSnapshot {
	dates := make([]time.Time, len(spreads))
	for i := range dates {
		dates[i] = time.Date(2025, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC)
	}
	return &MarketSnapshot{
		DeliveryDates:      dates,
		TimeToMaturity:     0.5,
		ForwardSpreads:     spreads,
		Strike:             0.15,
		SpreadVolatilities: vols,
		OptionType:         OptionTypeVanillaSpread,
		NumOptions:         len(spreads),
	}
}

func TestBachelierSpreadModelAveragesAcrossDates(t *testing.T) {
	model := NewBachelierSpreadModel(BachelierModelConfig{})
	snapshot := testSnapshot([]float64{0.5, 0.7, 0.9}, []float64{0.35, 0.35, 0.35})

	out, err := model.Process(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(out.OptionValues) != 3 {
		t.Fatalf("got %d option values, want 3", len(out.OptionValues))
	}

	var p BachelierPricer
	var sum float64
	for i, s := range snapshot.ForwardSpreads {
		key := snapshot.DeliveryDates[i].Format(time.DateOnly)
		want := p.Price(s, 0.15, 0.5, 0.35, OptionTypeCall, 0)
		if got := out.OptionValues[key]; math.Abs(got-want) > eps {
			t.Errorf("OptionValues[%s] = %v, want %v", key, got, want)
		}
		sum += want
	}
	if got, want := out.TotalValue, sum/3; math.Abs(got-want) > eps {
		t.Errorf("TotalValue = %v, want mean %v", got, want)
	}
}

func TestBachelierSpreadModelVanillaSpreadPricesAsCall(t *testing.T) {
	model := NewBachelierSpreadModel(BachelierModelConfig{})
	snapshot := testSnapshot([]float64{2.0}, []float64{0.35})

	out, err := model.Process(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// 深度实值价差看涨：价值接近内在价值
	if out.TotalValue < 1.8 {
		t.Errorf("deep ITM spread value = %v, want near intrinsic 1.85", out.TotalValue)
	}
	if out.Greeks.Delta < 0.9 {
		t.Errorf("deep ITM delta = %v, want near 1", out.Greeks.Delta)
	}
}

func TestBachelierSpreadModelMonteCarloAttached(t *testing.T) {
	model := NewBachelierSpreadModel(BachelierModelConfig{RunMonteCarlo: true, MCPaths: 2000, MCSeed: 7})
	snapshot := testSnapshot([]float64{0.5}, []float64{0.35})

	out, err := model.Process(context.Background(), snapshot)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.MCResults == nil {
		t.Fatal("MCResults = nil, want populated")
	}

	// 蒙特卡洛价应落在解析价附近
	if diff := math.Abs(out.MCResults.Price - out.TotalValue); diff > 5*out.MCResults.StandardError+0.01 {
		t.Errorf("MC price %v too far from analytic %v (SE %v)", out.MCResults.Price, out.TotalValue, out.MCResults.StandardError)
	}
}

func TestBachelierSpreadModelEmptyDates(t *testing.T) {
	model := NewBachelierSpreadModel(BachelierModelConfig{})

	out, err := model.Process(context.Background(), &MarketSnapshot{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out.TotalValue != 0 || len(out.OptionValues) != 0 {
		t.Errorf("empty snapshot: TotalValue=%v values=%d, want zero output", out.TotalValue, len(out.OptionValues))
	}
}
