// Package metrics 提供 Prometheus helper，包含服务的业务与 HTTP 指标
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 估值请求计数
	ValuationsTotal prometheus.Counter
	// 估值耗时
	ValuationDuration prometheus.Histogram
	// 市场数据降级计数（provider 失败改用合成数据）
	MarketDataFallbacksTotal prometheus.Counter
	// 定价模型回退计数（未知/未实现模型回退 Bachelier）
	ModelFallbacksTotal prometheus.Counter
	// 波动率曲面构建失败计数
	VolatilityFailuresTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ValuationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "valuations_total",
			Help:      "Total spread option valuations processed",
		}),
		ValuationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "valuation_duration_seconds",
			Help:      "Valuation pipeline duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		MarketDataFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "marketdata_fallbacks_total",
			Help:      "Total market data fetches that fell back to synthetic data",
		}),
		ModelFallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "model_fallbacks_total",
			Help:      "Total pricing model selections that fell back to the default model",
		}),
		VolatilityFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "energy",
			Subsystem: serviceName,
			Name:      "volatility_failures_total",
			Help:      "Total volatility surface constructions that failed and used defaults",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ValuationsTotal,
		m.ValuationDuration,
		m.MarketDataFallbacksTotal,
		m.ModelFallbacksTotal,
		m.VolatilityFailuresTotal,
	}

	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("failed to register collector: %w", err)
		}
	}
	return nil
}

// StartHTTPServer 启动指标 HTTP 服务
func StartHTTPServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	go func() {
		logger.Info(context.Background(), "Metrics HTTP server started", "addr", addr, "path", path)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error(context.Background(), "Metrics HTTP server error", "error", err)
		}
	}()
	return nil
}
