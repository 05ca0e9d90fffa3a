package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
	redisrepo "github.com/wyfcoding/energyderivatives/internal/pricing/infrastructure/persistence/redis"
	"github.com/wyfcoding/energyderivatives/pkg/logger"
	"github.com/wyfcoding/energyderivatives/pkg/metrics"
	"github.com/wyfcoding/energyderivatives/pkg/utils"
)

// PricingService 估值服务门面：编排器之上叠加结果缓存、留底与事件发布。
// 缓存、仓储与发布器都可为 nil，任何一项失败只告警，不影响估值结果返回。
type PricingService struct {
	processor *OptionProcessor
	cache     *redisrepo.ValuationCache
	repo      domain.ValuationRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewPricingService 创建估值服务
func NewPricingService(processor *OptionProcessor, cache *redisrepo.ValuationCache, repo domain.ValuationRepository, publisher domain.EventPublisher, m *metrics.Metrics) *PricingService {
	return &PricingService{
		processor: processor,
		cache:     cache,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
	}
}

// PriceSpreadOption 估值入口。
// 相同请求（按归一化后配置的指纹判定）在缓存 TTL 内直接命中。
func (s *PricingService) PriceSpreadOption(ctx context.Context, cmd PriceSpreadOptionCommand) (*ValuationResult, error) {
	if cmd.PrimaryIndex == "" {
		return nil, errors.New("primary_index is required")
	}
	if cmd.SecondaryIndex == "" {
		return nil, errors.New("secondary_index is required")
	}

	cmd.ApplyDefaults(time.Now())
	fingerprint := s.fingerprint(ctx, cmd)

	if s.cache != nil && fingerprint != "" {
		var cached ValuationResult
		err := s.cache.Load(ctx, fingerprint, &cached)
		if err == nil {
			logger.Info(ctx, "Valuation cache hit", "fingerprint", fingerprint)
			return &cached, nil
		}
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			logger.Warn(ctx, "Valuation cache read failed", "error", err)
		}
	}

	var stop func()
	if s.metrics != nil {
		timer := time.Now()
		stop = func() { s.metrics.ValuationDuration.Observe(time.Since(timer).Seconds()) }
	}

	result, err := s.processor.Process(ctx, cmd, nil)
	if stop != nil {
		stop()
	}
	if err != nil {
		s.publishFailure(ctx, cmd, err)
		return nil, err
	}
	result.Fingerprint = fingerprint

	if s.cache != nil && fingerprint != "" {
		if err := s.cache.Store(ctx, fingerprint, result); err != nil {
			logger.Warn(ctx, "Valuation cache write failed", "error", err)
		}
	}

	s.persist(ctx, cmd, result)
	s.publishPriced(ctx, cmd, result)

	return result, nil
}

// GetValuation 按指纹查询历史估值：先查缓存，再查留底库
func (s *PricingService) GetValuation(ctx context.Context, fingerprint string) (*ValuationResult, *domain.ValuationRecord, error) {
	if s.cache != nil {
		var cached ValuationResult
		err := s.cache.Load(ctx, fingerprint, &cached)
		if err == nil {
			return &cached, nil, nil
		}
		if !errors.Is(err, redisrepo.ErrCacheMiss) {
			logger.Warn(ctx, "Valuation cache read failed", "error", err)
		}
	}

	if s.repo == nil {
		return nil, nil, nil
	}
	record, err := s.repo.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, nil, err
	}
	return nil, record, nil
}

// InvalidateValuation 删除指纹对应的缓存结果，下一次相同请求重新计算
func (s *PricingService) InvalidateValuation(ctx context.Context, fingerprint string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx, fingerprint)
}

// ListRecentValuations 查询最近的估值留底
func (s *PricingService) ListRecentValuations(ctx context.Context, limit int) ([]*domain.ValuationRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *PricingService) fingerprint(ctx context.Context, cmd PriceSpreadOptionCommand) string {
	fp, err := utils.Fingerprint(cmd)
	if err != nil {
		logger.Warn(ctx, "Failed to fingerprint request, caching disabled for this call", "error", err)
		return ""
	}
	return fp
}

func (s *PricingService) persist(ctx context.Context, cmd PriceSpreadOptionCommand, result *ValuationResult) {
	if s.repo == nil {
		return
	}

	record := &domain.ValuationRecord{
		Fingerprint:      result.Fingerprint,
		PrimaryIndex:     cmd.PrimaryIndex,
		SecondaryIndex:   cmd.SecondaryIndex,
		OptionType:       cmd.OptionType,
		PricingModel:     result.ModelUsed,
		Strike:           decimal.NewFromFloat(result.StrikePrice),
		TotalValue:       decimal.NewFromFloat(result.TotalValue),
		ContractValue:    decimal.NewFromFloat(result.TotalContractValue),
		SpreadVolatility: result.SpreadVolatility,
		PercentageVol:    result.PercentageVol,
		DataQuality:      overallQuality(result.DataQuality),
		NumOptions:       cmd.NumOptions,
		PricedAt:         result.PricedAt,
	}
	if err := s.repo.Save(ctx, record); err != nil {
		logger.Warn(ctx, "Failed to persist valuation record", "fingerprint", result.Fingerprint, "error", err)
	}
}

func (s *PricingService) publishPriced(ctx context.Context, cmd PriceSpreadOptionCommand, result *ValuationResult) {
	if s.publisher == nil {
		return
	}

	event := domain.SpreadOptionPricedEvent{
		EventID:        uuid.NewString(),
		EventType:      domain.EventTypeSpreadOptionPriced,
		Fingerprint:    result.Fingerprint,
		PrimaryIndex:   cmd.PrimaryIndex,
		SecondaryIndex: cmd.SecondaryIndex,
		OptionType:     cmd.OptionType,
		PricingModel:   result.ModelUsed,
		TotalValue:     result.TotalValue,
		ContractValue:  result.TotalContractValue,
		Strike:         result.StrikePrice,
		DataQuality:    overallQuality(result.DataQuality),
		PricedAt:       result.PricedAt,
	}
	if err := s.publisher.Publish(ctx, result.Fingerprint, event); err != nil {
		logger.Warn(ctx, "Failed to publish pricing event", "fingerprint", result.Fingerprint, "error", err)
	}
}

func (s *PricingService) publishFailure(ctx context.Context, cmd PriceSpreadOptionCommand, cause error) {
	if s.publisher == nil {
		return
	}

	event := domain.PricingFailedEvent{
		EventID:        uuid.NewString(),
		EventType:      domain.EventTypePricingFailed,
		PrimaryIndex:   cmd.PrimaryIndex,
		SecondaryIndex: cmd.SecondaryIndex,
		Reason:         cause.Error(),
		FailedAt:       time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, cmd.PrimaryIndex+"-"+cmd.SecondaryIndex, event); err != nil {
		logger.Warn(ctx, "Failed to publish pricing failure event", "error", err)
	}
}

// overallQuality 任一指数降级则整体记为 fallback
func overallQuality(quality map[string]string) string {
	for _, q := range quality {
		if q == string(domain.DataQualityFallback) {
			return string(domain.DataQualityFallback)
		}
	}
	return string(domain.DataQualityLive)
}
