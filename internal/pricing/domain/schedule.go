package domain

import (
	"strings"
	"time"
)

// Frequency 交割频率
type Frequency string

const (
	FrequencySingle     Frequency = "single"
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyAnnual     Frequency = "annual"
)

// MonthStep 返回频率对应的月步长。
// weekly/biweekly 用分数月近似（0.25/0.5），长周期下相对真实 7 天周期
// 会产生漂移；保留该近似以兼容既有合约日程。
func (f Frequency) MonthStep() (float64, bool) {
	switch f {
	case FrequencySingle:
		return 0, true
	case FrequencyWeekly:
		return 0.25, true
	case FrequencyBiweekly:
		return 0.5, true
	case FrequencyMonthly:
		return 1, true
	case FrequencyQuarterly:
		return 3, true
	case FrequencySemiannual:
		return 6, true
	case FrequencyAnnual:
		return 12, true
	default:
		return 1, false
	}
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseMonth 解析月份名（"Jan"、"January"），失败时返回一月
func ParseMonth(name string) time.Month {
	key := strings.ToLower(strings.TrimSpace(name))
	if len(key) >= 3 {
		if m, ok := monthNames[key[:3]]; ok {
			return m
		}
	}
	return time.January
}

// ComputeDeliveryDates 按频率展开交割日序列。
// 未知频率按 monthly 处理；交割日超出当月天数时取月末；不会失败。
func ComputeDeliveryDates(firstMonth time.Month, firstYear, deliveryDay, numOptions int, frequency Frequency) []time.Time {
	if numOptions < 1 {
		numOptions = 1
	}

	step, _ := frequency.MonthStep()

	if frequency == FrequencySingle || numOptions == 1 {
		return []time.Time{clampedDate(firstYear, firstMonth, deliveryDay)}
	}

	dates := make([]time.Time, 0, numOptions)
	for i := 0; i < numOptions; i++ {
		monthNumber := int(firstMonth) + int(float64(i)*step)
		yearOffset := (monthNumber - 1) / 12
		targetMonth := time.Month(((monthNumber - 1) % 12) + 1)
		targetYear := firstYear + yearOffset

		dates = append(dates, clampedDate(targetYear, targetMonth, deliveryDay))
	}
	return dates
}

// DecisionDate 行权决策日 = 首个交割日往前 decisionDaysPrior 个日历日
func DecisionDate(firstDelivery time.Time, decisionDaysPrior int) time.Time {
	if decisionDaysPrior < 0 {
		decisionDaysPrior = 0
	}
	return firstDelivery.AddDate(0, 0, -decisionDaysPrior)
}

// LastDayOfMonth 返回指定年月的最后一天
func LastDayOfMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

func clampedDate(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	if last := LastDayOfMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
