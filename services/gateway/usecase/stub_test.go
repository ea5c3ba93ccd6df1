package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// fakeBroker implements gateway.BrokerGW with overridable behaviour and call
// recording, so usecase semantics are testable without a broker.
type fakeBroker struct {
	mu sync.Mutex

	publishFn         func(ctx context.Context, subject, msgID, source string, payload []byte) (string, uint64, error)
	getStreamInfoFn   func(ctx context.Context, name string) (*models.StreamInfo, error)
	createStreamFn    func(ctx context.Context, cfg models.StreamCreateConfig) error
	deleteStreamFn    func(ctx context.Context, name string) error
	listStreamsFn     func(ctx context.Context) ([]*models.StreamInfo, error)
	streamSubjectsFn  func(ctx context.Context, name string) (map[string]uint64, error)
	createConsumerFn  func(ctx context.Context, stream string, cfg models.ConsumerCreateConfig) (*models.ConsumerInfo, error)
	getConsumerInfoFn func(ctx context.Context, stream, name string) (*models.ConsumerInfo, error)
	listConsumersFn   func(ctx context.Context, stream string) ([]*models.ConsumerInfo, error)
	deleteConsumerFn  func(ctx context.Context, stream, name string) error
	fetchFn           func(ctx context.Context, stream, consumer string, max int, timeout time.Duration, ack bool) ([]*models.Message, error)
	consumeFn         func(ctx context.Context, stream, consumer string, handler func(*models.Message, func() error), onErr func(error)) (func(), error)

	getStreamInfoCalls  int
	createStreamCalls   []models.StreamCreateConfig
	createConsumerCalls []models.ConsumerCreateConfig
	deletedConsumers    []string
	fetchCalls          []fetchCall
}

type fetchCall struct {
	Stream   string
	Consumer string
	Max      int
	Timeout  time.Duration
	Ack      bool
}

func (f *fakeBroker) Publish(ctx context.Context, subject, msgID, source string, payload []byte) (string, uint64, error) {
	if f.publishFn != nil {
		return f.publishFn(ctx, subject, msgID, source, payload)
	}
	return "events", 1, nil
}

func (f *fakeBroker) GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error) {
	f.mu.Lock()
	f.getStreamInfoCalls++
	f.mu.Unlock()
	if f.getStreamInfoFn != nil {
		return f.getStreamInfoFn(ctx, name)
	}
	return &models.StreamInfo{Name: name}, nil
}

func (f *fakeBroker) CreateStream(ctx context.Context, cfg models.StreamCreateConfig) error {
	f.mu.Lock()
	f.createStreamCalls = append(f.createStreamCalls, cfg)
	f.mu.Unlock()
	if f.createStreamFn != nil {
		return f.createStreamFn(ctx, cfg)
	}
	return nil
}

func (f *fakeBroker) DeleteStream(ctx context.Context, name string) error {
	if f.deleteStreamFn != nil {
		return f.deleteStreamFn(ctx, name)
	}
	return nil
}

func (f *fakeBroker) ListStreams(ctx context.Context) ([]*models.StreamInfo, error) {
	if f.listStreamsFn != nil {
		return f.listStreamsFn(ctx)
	}
	return nil, nil
}

func (f *fakeBroker) StreamSubjects(ctx context.Context, name string) (map[string]uint64, error) {
	if f.streamSubjectsFn != nil {
		return f.streamSubjectsFn(ctx, name)
	}
	return nil, nil
}

func (f *fakeBroker) CreateConsumer(ctx context.Context, stream string, cfg models.ConsumerCreateConfig) (*models.ConsumerInfo, error) {
	f.mu.Lock()
	f.createConsumerCalls = append(f.createConsumerCalls, cfg)
	n := len(f.createConsumerCalls)
	f.mu.Unlock()
	if f.createConsumerFn != nil {
		return f.createConsumerFn(ctx, stream, cfg)
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("ephemeral-%d", n)
	}
	return &models.ConsumerInfo{
		Stream:  stream,
		Name:    name,
		Durable: cfg.Durable,
		Created: time.Now(),
		Config:  cfg,
	}, nil
}

func (f *fakeBroker) GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error) {
	if f.getConsumerInfoFn != nil {
		return f.getConsumerInfoFn(ctx, stream, name)
	}
	return nil, fmt.Errorf("consumer %q on %q: %w", name, stream, gateway.ErrNotFound)
}

func (f *fakeBroker) ListConsumers(ctx context.Context, stream string) ([]*models.ConsumerInfo, error) {
	if f.listConsumersFn != nil {
		return f.listConsumersFn(ctx, stream)
	}
	return nil, nil
}

func (f *fakeBroker) DeleteConsumer(ctx context.Context, stream, name string) error {
	f.mu.Lock()
	f.deletedConsumers = append(f.deletedConsumers, name)
	f.mu.Unlock()
	if f.deleteConsumerFn != nil {
		return f.deleteConsumerFn(ctx, stream, name)
	}
	return nil
}

func (f *fakeBroker) Fetch(ctx context.Context, stream, consumer string, max int, timeout time.Duration, ack bool) ([]*models.Message, error) {
	f.mu.Lock()
	f.fetchCalls = append(f.fetchCalls, fetchCall{Stream: stream, Consumer: consumer, Max: max, Timeout: timeout, Ack: ack})
	f.mu.Unlock()
	if f.fetchFn != nil {
		return f.fetchFn(ctx, stream, consumer, max, timeout, ack)
	}
	return nil, nil
}

func (f *fakeBroker) Consume(ctx context.Context, stream, consumer string, handler func(*models.Message, func() error), onErr func(error)) (func(), error) {
	if f.consumeFn != nil {
		return f.consumeFn(ctx, stream, consumer, handler, onErr)
	}
	return func() {}, nil
}

func newTestUC(gw gateway.BrokerGW) *GatewayUC {
	cfg := &models.Config{}
	cfg.Stream.DefaultPrefix = "events"
	return NewGatewayUC(cfg, gw)
}
