package application

import (
	"context"
	"testing"

	"github.com/wyfcoding/energyderivatives/internal/pricing/domain"
)

type capturingPublisher struct {
	events []any
	keys   []string
}

func (p *capturingPublisher) Publish(ctx context.Context, key string, event any) error {
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return nil
}

func newTestService(publisher domain.EventPublisher) *PricingService {
	gateway := &fakeGateway{data: map[string]domain.IndexMarketData{
		"THE": liveIndex(10.5, 10.5),
		"TFU": liveIndex(9.8, 9.8),
	}}
	return NewPricingService(newTestProcessor(gateway), nil, nil, publisher, nil)
}

func TestPriceSpreadOptionRequiresIndices(t *testing.T) {
	s := newTestService(nil)

	if _, err := s.PriceSpreadOption(context.Background(), PriceSpreadOptionCommand{SecondaryIndex: "TFU"}); err == nil {
		t.Error("missing primary_index should fail")
	}
	if _, err := s.PriceSpreadOption(context.Background(), PriceSpreadOptionCommand{PrimaryIndex: "THE"}); err == nil {
		t.Error("missing secondary_index should fail")
	}
}

func TestPriceSpreadOptionSetsFingerprint(t *testing.T) {
	s := newTestService(nil)

	result, err := s.PriceSpreadOption(context.Background(), baseCommand())
	if err != nil {
		t.Fatalf("PriceSpreadOption: %v", err)
	}
	if result.Fingerprint == "" {
		t.Error("fingerprint should be set")
	}

	// 相同请求产生相同指纹
	again, err := s.PriceSpreadOption(context.Background(), baseCommand())
	if err != nil {
		t.Fatalf("PriceSpreadOption: %v", err)
	}
	if again.Fingerprint != result.Fingerprint {
		t.Errorf("fingerprints differ: %s vs %s", again.Fingerprint, result.Fingerprint)
	}

	cmd := baseCommand()
	cmd.NumOptions = 5
	other, err := s.PriceSpreadOption(context.Background(), cmd)
	if err != nil {
		t.Fatalf("PriceSpreadOption: %v", err)
	}
	if other.Fingerprint == result.Fingerprint {
		t.Error("different requests should have different fingerprints")
	}
}

func TestPriceSpreadOptionPublishesEvent(t *testing.T) {
	publisher := &capturingPublisher{}
	s := newTestService(publisher)

	result, err := s.PriceSpreadOption(context.Background(), baseCommand())
	if err != nil {
		t.Fatalf("PriceSpreadOption: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("got %d events, want 1", len(publisher.events))
	}
	event, ok := publisher.events[0].(domain.SpreadOptionPricedEvent)
	if !ok {
		t.Fatalf("event type %T, want SpreadOptionPricedEvent", publisher.events[0])
	}
	if event.EventType != domain.EventTypeSpreadOptionPriced {
		t.Errorf("EventType = %s, want %s", event.EventType, domain.EventTypeSpreadOptionPriced)
	}
	if event.Fingerprint != result.Fingerprint {
		t.Errorf("event fingerprint %s, want %s", event.Fingerprint, result.Fingerprint)
	}
	if publisher.keys[0] != result.Fingerprint {
		t.Errorf("partition key %s, want fingerprint", publisher.keys[0])
	}
}

func TestInvalidateValuationWithoutCache(t *testing.T) {
	s := newTestService(nil)

	if err := s.InvalidateValuation(context.Background(), "deadbeef"); err != nil {
		t.Errorf("InvalidateValuation with nil cache: %v", err)
	}
}

func TestOverallQuality(t *testing.T) {
	live := map[string]string{"THE": "live", "TFU": "live"}
	if got := overallQuality(live); got != "live" {
		t.Errorf("overallQuality = %s, want live", got)
	}

	degraded := map[string]string{"THE": "live", "XYZ": "fallback"}
	if got := overallQuality(degraded); got != "fallback" {
		t.Errorf("overallQuality = %s, want fallback", got)
	}
}
