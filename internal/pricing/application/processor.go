// 包 application 价差期权估值的应用服务层
package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
	"github.com/wyfcoding/energyderivatives/pkg/metrics"
)

// OptionProcessor 价差期权估值编排器。
// 单次 Process 调用跑完整条流水线：行情、交割日程、远期价差、
// 波动率曲面、模型选择、定价与结果组装。无共享可变状态，可并发调用。
type OptionProcessor struct {
	gateway  domain.MarketDataGateway
	volModel domain.VolatilityModel
	factory  *domain.ModelFactory
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewOptionProcessor 创建估值编排器，metrics 可为 nil
func NewOptionProcessor(gateway domain.MarketDataGateway, factory *domain.ModelFactory, m *metrics.Metrics) *OptionProcessor {
	return &OptionProcessor{
		gateway:  gateway,
		volModel: *domain.NewVolatilityModel(),
		factory:  factory,
		metrics:  m,
		now:      time.Now,
	}
}

// Process 执行一次估值。snapshot 非空时跳过行情获取直接使用调用方数据。
func (p *OptionProcessor) Process(ctx context.Context, cmd PriceSpreadOptionCommand, snapshot *domain.MarketSnapshot) (*ValuationResult, error) {
	for _, note := range cmd.ApplyDefaults(p.now()) {
		logger.Warn(ctx, "Request normalized", "note", note)
	}

	logger.Info(ctx, "Processing spread option valuation",
		"primary_index", cmd.PrimaryIndex,
		"secondary_index", cmd.SecondaryIndex,
		"option_type", cmd.OptionType,
		"pricing_model", cmd.PricingModel)

	if snapshot == nil {
		snapshot = p.buildSnapshot(ctx, &cmd)
	}

	selection := p.factory.Create(cmd.PricingModel)
	if selection.FellBack {
		logger.Warn(ctx, "Pricing model fallback", "requested", cmd.PricingModel, "reason", selection.Reason)
		if p.metrics != nil {
			p.metrics.ModelFallbacksTotal.Inc()
		}
	}

	output, err := selection.Model.Process(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("pricing model %s: %w", selection.Model.Name(), err)
	}

	result := p.assembleResult(cmd, snapshot, output, selection.Model.Name())

	if p.metrics != nil {
		p.metrics.ValuationsTotal.Inc()
	}
	logger.Info(ctx, "Valuation completed",
		"total_value", result.TotalValue,
		"total_contract_value", result.TotalContractValue,
		"model", result.ModelUsed)

	return result, nil
}

// buildSnapshot 组装市场快照：行情、日程、远期价差与波动率曲面
func (p *OptionProcessor) buildSnapshot(ctx context.Context, cmd *PriceSpreadOptionCommand) *domain.MarketSnapshot {
	now := p.now()

	evaluationDate, ok := ParseDate(cmd.EvaluationDate, now)
	if !ok {
		logger.Warn(ctx, "Malformed evaluation_date, using current date", "value", cmd.EvaluationDate)
	}
	pricingDate, ok := ParseDate(cmd.PricingDate, now)
	if !ok {
		logger.Warn(ctx, "Malformed pricing_date, using current date", "value", cmd.PricingDate)
	}

	deliveryDates := domain.ComputeDeliveryDates(
		domain.ParseMonth(cmd.FirstDeliveryMonth),
		cmd.FirstDeliveryYear,
		cmd.DeliveryDay,
		cmd.NumOptions,
		domain.Frequency(cmd.Frequency),
	)
	decisionDate := domain.DecisionDate(deliveryDates[0], *cmd.DecisionDaysPrior)
	timeToMaturity := math.Max(0, decisionDate.Sub(pricingDate).Hours()/24) / 365.0

	snapshot := &domain.MarketSnapshot{
		EvaluationDate: evaluationDate,
		PricingDate:    pricingDate,
		DeliveryDates:  deliveryDates,
		DecisionDate:   decisionDate,
		TimeToMaturity: timeToMaturity,
		IndicesData:    make(map[string]domain.IndexData),
		ForwardCurves:  make(map[string]domain.ForwardCurve),
		DataQuality:    make(map[string]domain.DataQuality),
		OptionType:     domain.OptionType(cmd.OptionType).Normalize(),
		NumOptions:     cmd.NumOptions,
	}

	indices := []string{cmd.PrimaryIndex}
	if cmd.SecondaryIndex != "" && cmd.SecondaryIndex != cmd.PrimaryIndex {
		indices = append(indices, cmd.SecondaryIndex)
	}

	histories := make(map[string]domain.Series, len(indices))
	for _, index := range indices {
		data := p.gateway.FetchIndex(ctx, index, pricingDate)
		snapshot.IndicesData[index] = data.Spot
		snapshot.ForwardCurves[index] = data.Curve
		snapshot.DataQuality[index] = data.Quality
		histories[index] = data.History
	}

	p.computeForwardSpreads(snapshot, cmd)

	snapshot.Strike = computeStrike(cmd)

	p.buildVolatilities(ctx, snapshot, cmd, histories, indices)

	return snapshot
}

// computeForwardSpreads 为每个交割日计算远期价差。
// 合约月相对 evaluation_date 计数，M01 为当月。
func (p *OptionProcessor) computeForwardSpreads(snapshot *domain.MarketSnapshot, cmd *PriceSpreadOptionCommand) {
	primaryCurve := snapshot.ForwardCurves[cmd.PrimaryIndex]
	secondaryCurve := snapshot.ForwardCurves[cmd.SecondaryIndex]

	spreads := make([]float64, 0, len(snapshot.DeliveryDates))
	for _, deliveryDate := range snapshot.DeliveryDates {
		monthsAhead := (deliveryDate.Year()-snapshot.EvaluationDate.Year())*12 +
			int(deliveryDate.Month()) - int(snapshot.EvaluationDate.Month())
		code := domain.MonthCode(monthsAhead + 1)

		primaryPrice := primaryCurve.ForwardPrice(code)
		secondaryPrice := secondaryCurve.ForwardPrice(code)
		if primaryPrice == 0 {
			primaryPrice = 10.0
		}
		if secondaryPrice == 0 {
			secondaryPrice = 9.0
		}

		spreads = append(spreads, roundTo(primaryPrice-secondaryPrice, 4))
	}
	snapshot.ForwardSpreads = spreads
}

// buildVolatilities 构建波动率曲面并解析标题波动率。
// 曲面不可用时全部交割日使用保守默认值，流水线不中断。
func (p *OptionProcessor) buildVolatilities(ctx context.Context, snapshot *domain.MarketSnapshot, cmd *PriceSpreadOptionCommand, histories map[string]domain.Series, indices []string) {
	n := len(snapshot.DeliveryDates)

	// 保守默认：曲面失败时的兜底
	snapshot.SpreadVolatilities = make([]float64, n)
	for i := range snapshot.SpreadVolatilities {
		snapshot.SpreadVolatilities[i] = 0.35
	}

	basePrices := make(map[string]float64, len(indices)+1)
	for _, index := range indices {
		price := snapshot.IndicesData[index].Price
		if price == 0 {
			price = 10.0
		}
		basePrices[index] = price
	}

	spreadKey := ""
	if len(indices) > 1 {
		spreadKey = cmd.PrimaryIndex + "-" + cmd.SecondaryIndex
		spread := basePrices[cmd.PrimaryIndex] - basePrices[cmd.SecondaryIndex]
		if len(snapshot.ForwardSpreads) > 0 {
			spread = snapshot.ForwardSpreads[0]
		}
		basePrices[spreadKey] = spread
	}

	surface := p.volModel.BuildSurface(histories, indices, basePrices, snapshot.DeliveryDates[0], snapshot.TimeToMaturity)
	if len(surface) == 0 {
		logger.Error(ctx, "Volatility surface construction yielded nothing, using defaults",
			"indices", indices)
		if p.metrics != nil {
			p.metrics.VolatilityFailuresTotal.Inc()
		}
		snapshot.Volatilities = map[string][]domain.VolatilityPoint{}
		return
	}
	snapshot.Volatilities = surface

	if spreadKey == "" {
		return
	}

	smile := surface[spreadKey]
	atm := basePrices[spreadKey]
	point, ok := p.volModel.LookupSmile(smile, atm)
	if !ok {
		logger.Warn(ctx, "No volatility points for spread, keeping defaults", "spread_key", spreadKey)
		if p.metrics != nil {
			p.metrics.VolatilityFailuresTotal.Inc()
		}
		return
	}

	snapshot.SpreadVolatility = point.Volatility
	for i := range snapshot.SpreadVolatilities {
		snapshot.SpreadVolatilities[i] = point.Volatility
	}

	if point.PercentageVol > 0 {
		snapshot.PercentageVol = point.PercentageVol
	} else {
		snapshot.PercentageVol = roundTo(point.Volatility/math.Max(0.01, math.Abs(atm))*100, 2)
	}
}

// assembleResult 组装结果信封
func (p *OptionProcessor) assembleResult(cmd PriceSpreadOptionCommand, snapshot *domain.MarketSnapshot, output *domain.ModelOutput, modelUsed string) *ValuationResult {
	deliveryDates := make([]string, 0, len(snapshot.DeliveryDates))
	for _, d := range snapshot.DeliveryDates {
		deliveryDates = append(deliveryDates, d.Format(time.DateOnly))
	}

	quality := make(map[string]string, len(snapshot.DataQuality))
	for index, q := range snapshot.DataQuality {
		quality[index] = string(q)
	}

	spreadVol := snapshot.SpreadVolatility
	percentageVol := snapshot.PercentageVol
	volSource := "surface"
	if spreadVol == 0 {
		percentageVol = domain.DefaultPercentageVol
		volSource = "No volatility"
	}

	return &ValuationResult{
		TotalValue:         output.TotalValue,
		OptionValues:       output.OptionValues,
		PortfolioGreeks:    output.Greeks,
		MCResults:          output.MCResults,
		StrikePrice:        snapshot.Strike,
		TotalContractValue: output.TotalValue * cmd.CargoVolume * float64(cmd.NumOptions),
		SpreadVolatility:   spreadVol,
		PercentageVol:      percentageVol,
		VolatilitySource:   volSource,
		VolatilitySmiles:   snapshot.Volatilities,
		DataQuality:        quality,
		MarketContext: MarketContext{
			EvaluationDate: snapshot.EvaluationDate.Format(time.DateOnly),
			PricingDate:    snapshot.PricingDate.Format(time.DateOnly),
			PrimaryPrice:   snapshot.IndicesData[cmd.PrimaryIndex].Price,
			SecondaryPrice: snapshot.IndicesData[cmd.SecondaryIndex].Price,
			ForwardSpreads: snapshot.ForwardSpreads,
			DeliveryDates:  deliveryDates,
			DecisionDate:   snapshot.DecisionDate.Format(time.DateOnly),
			TimeToMaturity: snapshot.TimeToMaturity,
		},
		ConfigSummary: ConfigSummary{
			OptionType:     cmd.OptionType,
			PricingModel:   cmd.PricingModel,
			PrimaryIndex:   cmd.PrimaryIndex,
			SecondaryIndex: cmd.SecondaryIndex,
			CargoVolume:    cmd.CargoVolume,
			NumOptions:     cmd.NumOptions,
		},
		ModelUsed: modelUsed,
		PricedAt:  p.now().UTC(),
	}
}

// computeStrike K = secondary_differential - primary_differential + total_cost_per_option，
// 按 4 位小数精确舍入
func computeStrike(cmd *PriceSpreadOptionCommand) float64 {
	k := decimal.NewFromFloat(cmd.SecondaryDifferential).
		Sub(decimal.NewFromFloat(cmd.PrimaryDifferential)).
		Add(decimal.NewFromFloat(cmd.TotalCostPerOption))
	return k.Round(4).InexactFloat64()
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
