// 包 marketdata 行情数据接入层：数据源抽象、CSV 实现与带兜底的网关
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

var (
	// ErrAPIProviderNotImplemented API 数据源尚未接入
	ErrAPIProviderNotImplemented = errors.New("api data provider not yet implemented")
	// ErrSeriesNotFound 指定指数没有历史数据
	ErrSeriesNotFound = errors.New("no data found for ticker")
)

// DataFeedProvider 行情数据源接口
type DataFeedProvider interface {
	// FetchSeries 拉取区间内的历史价格序列，按日期升序
	FetchSeries(ctx context.Context, ticker string, start, end time.Time) (domain.Series, error)
	// FetchForwardCurve 拉取不晚于 curveDate 的最新远期曲线
	FetchForwardCurve(ctx context.Context, ticker string, numMonths int, curveDate time.Time) (domain.ForwardCurve, error)
	// FetchMarketData 拉取不晚于 asOf 的最新即期行情
	FetchMarketData(ctx context.Context, ticker string, asOf time.Time) (domain.IndexData, error)
}

// Config 数据源配置
type Config struct {
	Provider       string // csv / api
	DataFolder     string
	CurveMonths    int
	HistoricalDays int
}

// NewProvider 按配置创建数据源。
// 未知类型与未实现类型是硬错误，不做静默回退。
func NewProvider(cfg Config) (DataFeedProvider, error) {
	switch cfg.Provider {
	case "csv", "":
		return NewCSVProvider(cfg.DataFolder), nil
	case "api":
		return nil, ErrAPIProviderNotImplemented
	default:
		return nil, fmt.Errorf("unknown data provider type: %s", cfg.Provider)
	}
}
