package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

type stubProvider struct {
	spot     domain.IndexData
	curve    domain.ForwardCurve
	series   domain.Series
	spotErr  error
	curveErr error
	histErr  error
}

func (s *stubProvider) FetchSeries(ctx context.Context, ticker string, start, end time.Time) (domain.Series, error) {
	return s.series, s.histErr
}

func (s *stubProvider) FetchForwardCurve(ctx context.Context, ticker string, numMonths int, curveDate time.Time) (domain.ForwardCurve, error) {
	return s.curve, s.curveErr
}

func (s *stubProvider) FetchMarketData(ctx context.Context, ticker string, asOf time.Time) (domain.IndexData, error) {
	return s.spot, s.spotErr
}

func TestGatewayLiveData(t *testing.T) {
	provider := &stubProvider{
		spot:   domain.IndexData{Price: 11.2},
		curve:  domain.ForwardCurve{"M01": 11.0, "M02": 11.1},
		series: domain.Series{{Price: 11.0}, {Price: 11.2}},
	}
	g := NewGateway(provider, nil, 12, 365)

	data := g.FetchIndex(context.Background(), "THE", time.Now())

	if data.Quality != domain.DataQualityLive {
		t.Errorf("Quality = %s, want live", data.Quality)
	}
	if data.Spot.Price != 11.2 {
		t.Errorf("Spot.Price = %v, want 11.2", data.Spot.Price)
	}
	if len(data.History) != 2 {
		t.Errorf("History len = %d, want 2", len(data.History))
	}
}

func TestGatewayFallbackOnProviderError(t *testing.T) {
	provider := &stubProvider{
		spotErr:  errors.New("connection refused"),
		curveErr: errors.New("connection refused"),
		histErr:  errors.New("connection refused"),
	}
	g := NewGateway(provider, nil, 12, 365)

	pricingDate := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	data := g.FetchIndex(context.Background(), "XYZ", pricingDate)

	if data.Quality != domain.DataQualityFallback {
		t.Errorf("Quality = %s, want fallback", data.Quality)
	}
	if data.Spot.Price != domain.DefaultForwardPrice {
		t.Errorf("Spot.Price = %v, want default %v", data.Spot.Price, domain.DefaultForwardPrice)
	}
	if len(data.History) != 0 {
		t.Errorf("fallback history len = %d, want 0", len(data.History))
	}

	// 合成曲线轻微升水
	if data.Curve["M01"] != 10.1 || data.Curve["M12"] != 11.2 {
		t.Errorf("synthetic curve M01=%v M12=%v, want 10.1 and 11.2", data.Curve["M01"], data.Curve["M12"])
	}
}

func TestGatewayHistoryFailureIsNotDegradation(t *testing.T) {
	provider := &stubProvider{
		spot:    domain.IndexData{Price: 11.2},
		curve:   domain.ForwardCurve{"M01": 11.0},
		histErr: errors.New("no history"),
	}
	g := NewGateway(provider, nil, 12, 365)

	data := g.FetchIndex(context.Background(), "THE", time.Now())

	if data.Quality != domain.DataQualityLive {
		t.Errorf("Quality = %s, want live despite missing history", data.Quality)
	}
	if data.History != nil {
		t.Errorf("History = %v, want nil", data.History)
	}
}
