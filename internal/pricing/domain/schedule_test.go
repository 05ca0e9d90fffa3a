package domain

import (
	"testing"
	"time"
)

func TestComputeDeliveryDatesMonthly(t *testing.T) {
	dates := ComputeDeliveryDates(time.January, 2025, 31, 3, FrequencyMonthly)

	want := []time.Time{
		time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
	if len(dates) != len(want) {
		t.Fatalf("got %d dates, want %d", len(dates), len(want))
	}
	for i := range want {
		if !dates[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i].Format(time.DateOnly), want[i].Format(time.DateOnly))
		}
	}
}

func TestComputeDeliveryDatesStrictlyIncreasing(t *testing.T) {
	dates := ComputeDeliveryDates(time.March, 2025, 15, 12, FrequencyMonthly)
	if len(dates) != 12 {
		t.Fatalf("got %d dates, want 12", len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			t.Errorf("dates[%d] %s not after dates[%d] %s", i, dates[i], i-1, dates[i-1])
		}
	}
}

func TestComputeDeliveryDatesLeapYearClamp(t *testing.T) {
	dates := ComputeDeliveryDates(time.February, 2024, 31, 1, FrequencySingle)
	if got := dates[0].Day(); got != 29 {
		t.Errorf("leap year Feb clamp = %d, want 29", got)
	}

	dates = ComputeDeliveryDates(time.February, 2025, 31, 1, FrequencySingle)
	if got := dates[0].Day(); got != 28 {
		t.Errorf("non-leap Feb clamp = %d, want 28", got)
	}
}

func TestComputeDeliveryDatesYearRollover(t *testing.T) {
	dates := ComputeDeliveryDates(time.November, 2025, 15, 4, FrequencyMonthly)

	want := []string{"2025-11-15", "2025-12-15", "2026-01-15", "2026-02-15"}
	for i, w := range want {
		if got := dates[i].Format(time.DateOnly); got != w {
			t.Errorf("dates[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestComputeDeliveryDatesQuarterly(t *testing.T) {
	dates := ComputeDeliveryDates(time.January, 2025, 1, 4, FrequencyQuarterly)

	want := []string{"2025-01-01", "2025-04-01", "2025-07-01", "2025-10-01"}
	for i, w := range want {
		if got := dates[i].Format(time.DateOnly); got != w {
			t.Errorf("dates[%d] = %s, want %s", i, got, w)
		}
	}
}

// 周频按 0.25 个月近似步进，前四期落在同一个月
func TestComputeDeliveryDatesWeeklyFractionalStep(t *testing.T) {
	dates := ComputeDeliveryDates(time.January, 2025, 10, 5, FrequencyWeekly)

	want := []string{"2025-01-10", "2025-01-10", "2025-01-10", "2025-01-10", "2025-02-10"}
	for i, w := range want {
		if got := dates[i].Format(time.DateOnly); got != w {
			t.Errorf("dates[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestComputeDeliveryDatesUnknownFrequencyDefaultsMonthly(t *testing.T) {
	got := ComputeDeliveryDates(time.January, 2025, 1, 3, Frequency("fortnightly-ish"))
	want := ComputeDeliveryDates(time.January, 2025, 1, 3, FrequencyMonthly)

	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %s, want monthly %s", i, got[i], want[i])
		}
	}
}

func TestDecisionDate(t *testing.T) {
	first := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		daysPrior int
		want      string
	}{
		{0, "2025-03-15"},
		{21, "2025-02-22"},
		{45, "2025-01-29"},
		{-5, "2025-03-15"},
	}
	for _, tt := range tests {
		if got := DecisionDate(first, tt.daysPrior).Format(time.DateOnly); got != tt.want {
			t.Errorf("DecisionDate(%d) = %s, want %s", tt.daysPrior, got, tt.want)
		}
	}
}

func TestParseMonth(t *testing.T) {
	tests := []struct {
		in   string
		want time.Month
	}{
		{"Jan", time.January},
		{"january", time.January},
		{"DEC", time.December},
		{"Sep", time.September},
		{"", time.January},
		{"notamonth", time.January},
	}
	for _, tt := range tests {
		if got := ParseMonth(tt.in); got != tt.want {
			t.Errorf("ParseMonth(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
