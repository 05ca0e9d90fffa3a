package marketdata

import (
	"context"
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
	"github.com/wyfcoding/energyderivatives/pkg/metrics"
)

// Gateway 行情网关，domain.MarketDataGateway 的默认实现。
// 数据源失败时一律降级为合成数据并打 fallback 标记，
// 只尝试一次，不重试；估值流程因此永不被行情问题阻断。
type Gateway struct {
	provider       DataFeedProvider
	metrics        *metrics.Metrics
	curveMonths    int
	historicalDays int
}

// NewGateway 创建行情网关，metrics 可为 nil
func NewGateway(provider DataFeedProvider, m *metrics.Metrics, curveMonths, historicalDays int) *Gateway {
	if curveMonths <= 0 {
		curveMonths = 12
	}
	if historicalDays <= 0 {
		historicalDays = 365
	}
	return &Gateway{provider: provider, metrics: m, curveMonths: curveMonths, historicalDays: historicalDays}
}

// FetchIndex 拉取指数的即期、远期曲线与历史序列。
// 任何一项失败都将该指数整体降级为合成数据。
func (g *Gateway) FetchIndex(ctx context.Context, ticker string, pricingDate time.Time) domain.IndexMarketData {
	defer logger.LogDuration(ctx, "Market data fetch completed", "ticker", ticker)()

	spot, errSpot := g.provider.FetchMarketData(ctx, ticker, pricingDate)
	curve, errCurve := g.provider.FetchForwardCurve(ctx, ticker, g.curveMonths, pricingDate)

	histStart := pricingDate.AddDate(0, 0, -g.historicalDays)
	history, errHist := g.provider.FetchSeries(ctx, ticker, histStart, pricingDate)

	if errSpot == nil && errCurve == nil {
		if errHist != nil {
			// 历史缺失不构成降级：波动率模型自有默认值
			logger.Warn(ctx, "No historical series for index, volatility will use defaults",
				"ticker", ticker, "error", errHist)
			history = nil
		}
		return domain.IndexMarketData{Spot: spot, Curve: curve, History: history, Quality: domain.DataQualityLive}
	}

	logger.Warn(ctx, "Market data provider failed, using synthetic fallback",
		"ticker", ticker,
		"spot_error", errString(errSpot),
		"curve_error", errString(errCurve))

	if g.metrics != nil {
		g.metrics.MarketDataFallbacksTotal.Inc()
	}

	return domain.IndexMarketData{
		Spot:    syntheticSpot(pricingDate),
		Curve:   syntheticCurve(g.curveMonths),
		History: nil,
		Quality: domain.DataQualityFallback,
	}
}

// syntheticSpot 合成即期行情，价格取兜底值
func syntheticSpot(pricingDate time.Time) domain.IndexData {
	return domain.IndexData{Price: domain.DefaultForwardPrice, LastUpdated: pricingDate}
}

// syntheticCurve 合成远期曲线，轻微升水的 contango 形态
func syntheticCurve(numMonths int) domain.ForwardCurve {
	curve := make(domain.ForwardCurve, numMonths)
	for i := 1; i <= numMonths; i++ {
		curve[domain.MonthCode(i)] = domain.DefaultForwardPrice + 0.1*float64(i)
	}
	return curve
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
