package domain

import (
	"math"
	"testing"
)

func TestForwardPriceExactHit(t *testing.T) {
	curve := ForwardCurve{"M01": 10.5, "M02": 10.7, "M03": 10.9}

	if got := curve.ForwardPrice("M02"); got != 10.7 {
		t.Errorf("ForwardPrice(M02) = %v, want 10.7", got)
	}
}

func TestForwardPriceNearestMonth(t *testing.T) {
	// M03 缺失，M02 比 M05 更近
	curve := ForwardCurve{"M02": 10.2, "M05": 10.5}

	if got := curve.ForwardPrice("M03"); got != 10.2 {
		t.Errorf("ForwardPrice(M03) = %v, want M02's 10.2", got)
	}
}

func TestForwardPriceNearestTieTakesLowerIndex(t *testing.T) {
	// M02 和 M04 与 M03 等距，取较小月份
	curve := ForwardCurve{"M02": 9.8, "M04": 11.3}

	if got := curve.ForwardPrice("M03"); got != 9.8 {
		t.Errorf("ForwardPrice(M03) = %v, want lower-index M02's 9.8", got)
	}
}

func TestForwardPriceSkipsInvalidValues(t *testing.T) {
	curve := ForwardCurve{"M01": 0, "M02": math.NaN(), "M03": 10.1}

	if got := curve.ForwardPrice("M01"); got != 10.1 {
		t.Errorf("ForwardPrice(M01) = %v, want 10.1 from only valid month", got)
	}
}

func TestForwardPriceEmptyCurveDefault(t *testing.T) {
	tests := []ForwardCurve{
		nil,
		{},
		{"M01": 0, "M02": 0},
		{"bogus": 12.0},
	}
	for i, curve := range tests {
		if got := curve.ForwardPrice("M01"); got != DefaultForwardPrice {
			t.Errorf("case %d: ForwardPrice = %v, want default %v", i, got, DefaultForwardPrice)
		}
	}
}

func TestMonthCode(t *testing.T) {
	tests := []struct {
		month int
		want  string
	}{
		{1, "M01"},
		{9, "M09"},
		{12, "M12"},
	}
	for _, tt := range tests {
		if got := MonthCode(tt.month); got != tt.want {
			t.Errorf("MonthCode(%d) = %s, want %s", tt.month, got, tt.want)
		}
	}
}
