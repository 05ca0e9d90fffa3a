package domain

import "time"

// 领域事件类型
const (
	EventTypeSpreadOptionPriced = "pricing.spread_option.priced"
	EventTypePricingFailed      = "pricing.spread_option.failed"
)

// SpreadOptionPricedEvent 估值完成事件，发布到消息队列供下游风控与报表消费
type SpreadOptionPricedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	Fingerprint    string    `json:"fingerprint"`
	PrimaryIndex   string    `json:"primary_index"`
	SecondaryIndex string    `json:"secondary_index"`
	OptionType     string    `json:"option_type"`
	PricingModel   string    `json:"pricing_model"`
	TotalValue     float64   `json:"total_value"`
	ContractValue  float64   `json:"contract_value"`
	Strike         float64   `json:"strike"`
	DataQuality    string    `json:"data_quality"`
	PricedAt       time.Time `json:"priced_at"`
}

// PricingFailedEvent 估值失败事件
type PricingFailedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	PrimaryIndex   string    `json:"primary_index"`
	SecondaryIndex string    `json:"secondary_index"`
	Reason         string    `json:"reason"`
	FailedAt       time.Time `json:"failed_at"`
}
