package application

import (
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

// PriceSpreadOptionCommand 价差期权估值请求。
// 字段与对外 API 一一对应，缺省值在 ApplyDefaults 中补齐。
type PriceSpreadOptionCommand struct {
	PrimaryIndex   string `json:"primary_index" binding:"required"`
	SecondaryIndex string `json:"secondary_index" binding:"required"`

	OptionType string `json:"option_type"`
	// 旧版请求字段，option_type 非法时从这里推断方向
	CallPut string `json:"call_put,omitempty"`

	EvaluationDate string `json:"evaluation_date"`
	PricingDate    string `json:"pricing_date"`

	FirstDeliveryMonth string `json:"first_delivery_month"`
	FirstDeliveryYear  int    `json:"first_delivery_year"`
	DeliveryDay        int    `json:"delivery_day"`
	NumOptions         int    `json:"num_options"`
	Frequency          string `json:"frequency"`
	// 决策日提前天数，0 合法（决策日即首个交割日），缺省时为 21
	DecisionDaysPrior *int `json:"decision_days_prior"`

	PricingModel string `json:"pricing_model"`

	PrimaryDifferential   float64 `json:"primary_differential"`
	SecondaryDifferential float64 `json:"secondary_differential"`
	TotalCostPerOption    float64 `json:"total_cost_per_option"`
	CargoVolume           float64 `json:"cargo_volume"`
}

// 请求缺省值
const (
	DefaultDecisionDaysPrior = 21
	DefaultCargoVolume       = 3750000.0
)

// ApplyDefaults 补齐缺省字段并归一化期权类型，返回需要告警的归一化说明
func (c *PriceSpreadOptionCommand) ApplyDefaults(now time.Time) []string {
	var notes []string

	switch domain.OptionType(c.OptionType) {
	case domain.OptionTypeCall, domain.OptionTypePut, domain.OptionTypeVanillaSpread:
	default:
		coerced := string(domain.OptionTypeVanillaSpread)
		if c.CallPut == string(domain.OptionTypeCall) || c.CallPut == string(domain.OptionTypePut) {
			coerced = c.CallPut
		}
		if c.OptionType != "" {
			notes = append(notes, "option_type "+c.OptionType+" coerced to "+coerced)
		}
		c.OptionType = coerced
	}

	if c.PricingModel == "" {
		c.PricingModel = domain.ModelBachelier
	}
	if c.Frequency == "" {
		c.Frequency = string(domain.FrequencyMonthly)
	}
	if c.DecisionDaysPrior == nil {
		days := DefaultDecisionDaysPrior
		c.DecisionDaysPrior = &days
	}
	if c.CargoVolume <= 0 {
		c.CargoVolume = DefaultCargoVolume
	}
	if c.NumOptions < 1 {
		c.NumOptions = 1
	}
	if c.DeliveryDay < 1 {
		c.DeliveryDay = 1
	}
	if c.FirstDeliveryMonth == "" {
		c.FirstDeliveryMonth = "Jan"
	}
	if c.FirstDeliveryYear == 0 {
		c.FirstDeliveryYear = now.Year()
	}
	if c.EvaluationDate == "" {
		c.EvaluationDate = now.Format(time.DateOnly)
	}
	if c.PricingDate == "" {
		c.PricingDate = now.Format(time.DateOnly)
	}

	return notes
}

// ParseDate 解析 ISO-8601 日期，失败时回退到当前日期
func ParseDate(value string, now time.Time) (time.Time, bool) {
	d, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), false
	}
	return d, true
}
