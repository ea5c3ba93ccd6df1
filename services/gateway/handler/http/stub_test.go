package http

import (
	"context"
	"errors"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

var errStub = errors.New("stub: not wired")

// stubUC implements gateway.GatewayUC with overridable behaviour per test
type stubUC struct {
	publishFn           func(ctx context.Context, subject string, req *models.PublishRequest) (*models.PublishResult, error)
	fetchByFilterFn     func(ctx context.Context, filter string, limit, timeout int) (*models.FetchResult, error)
	fetchFromConsumerFn func(ctx context.Context, stream, consumer string, limit, timeout int) (*models.FetchResult, error)
	listStreamsFn       func(ctx context.Context) ([]*models.StreamInfo, error)
	getStreamInfoFn     func(ctx context.Context, name string) (*models.StreamInfo, error)
	streamSubjectsFn    func(ctx context.Context, name string) (*models.SubjectDistribution, error)
	createConsumerFn    func(ctx context.Context, stream string, req *models.ConsumerCreateRequest) (*models.ConsumerInfo, error)
	listConsumersFn     func(ctx context.Context, stream string) ([]*models.ConsumerInfo, error)
	getConsumerInfoFn   func(ctx context.Context, stream, name string) (*models.ConsumerInfo, error)
	deleteConsumerFn    func(ctx context.Context, stream, name string) error
	consumerHealthFn    func(ctx context.Context, stream, name string) (*models.ConsumerHealth, error)
	peekMessagesFn      func(ctx context.Context, stream, name string, max int) (*models.PeekResult, error)
	resetConsumerFn     func(ctx context.Context, stream, name string, req *models.ResetRequest) (*models.ConsumerInfo, error)
	metricsHistoryFn    func(ctx context.Context, stream, name string) (*models.MetricsHistory, error)

	calls int
}

func (s *stubUC) PublishMessage(ctx context.Context, subject string, req *models.PublishRequest) (*models.PublishResult, error) {
	s.calls++
	if s.publishFn != nil {
		return s.publishFn(ctx, subject, req)
	}
	return nil, errStub
}

func (s *stubUC) FetchByFilter(ctx context.Context, filter string, limit, timeout int) (*models.FetchResult, error) {
	s.calls++
	if s.fetchByFilterFn != nil {
		return s.fetchByFilterFn(ctx, filter, limit, timeout)
	}
	return nil, errStub
}

func (s *stubUC) FetchFromConsumer(ctx context.Context, stream, consumer string, limit, timeout int) (*models.FetchResult, error) {
	s.calls++
	if s.fetchFromConsumerFn != nil {
		return s.fetchFromConsumerFn(ctx, stream, consumer, limit, timeout)
	}
	return nil, errStub
}

func (s *stubUC) ListStreams(ctx context.Context) ([]*models.StreamInfo, error) {
	s.calls++
	if s.listStreamsFn != nil {
		return s.listStreamsFn(ctx)
	}
	return nil, errStub
}

func (s *stubUC) GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error) {
	s.calls++
	if s.getStreamInfoFn != nil {
		return s.getStreamInfoFn(ctx, name)
	}
	return nil, errStub
}

func (s *stubUC) StreamSubjects(ctx context.Context, name string) (*models.SubjectDistribution, error) {
	s.calls++
	if s.streamSubjectsFn != nil {
		return s.streamSubjectsFn(ctx, name)
	}
	return nil, errStub
}

func (s *stubUC) CreateConsumer(ctx context.Context, stream string, req *models.ConsumerCreateRequest) (*models.ConsumerInfo, error) {
	s.calls++
	if s.createConsumerFn != nil {
		return s.createConsumerFn(ctx, stream, req)
	}
	return nil, errStub
}

func (s *stubUC) ListConsumers(ctx context.Context, stream string) ([]*models.ConsumerInfo, error) {
	s.calls++
	if s.listConsumersFn != nil {
		return s.listConsumersFn(ctx, stream)
	}
	return nil, errStub
}

func (s *stubUC) GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error) {
	s.calls++
	if s.getConsumerInfoFn != nil {
		return s.getConsumerInfoFn(ctx, stream, name)
	}
	return nil, errStub
}

func (s *stubUC) DeleteConsumer(ctx context.Context, stream, name string) error {
	s.calls++
	if s.deleteConsumerFn != nil {
		return s.deleteConsumerFn(ctx, stream, name)
	}
	return errStub
}

func (s *stubUC) ConsumerHealth(ctx context.Context, stream, name string) (*models.ConsumerHealth, error) {
	s.calls++
	if s.consumerHealthFn != nil {
		return s.consumerHealthFn(ctx, stream, name)
	}
	return nil, errStub
}

func (s *stubUC) PeekMessages(ctx context.Context, stream, name string, max int) (*models.PeekResult, error) {
	s.calls++
	if s.peekMessagesFn != nil {
		return s.peekMessagesFn(ctx, stream, name, max)
	}
	return nil, errStub
}

func (s *stubUC) ResetConsumer(ctx context.Context, stream, name string, req *models.ResetRequest) (*models.ConsumerInfo, error) {
	s.calls++
	if s.resetConsumerFn != nil {
		return s.resetConsumerFn(ctx, stream, name, req)
	}
	return nil, errStub
}

func (s *stubUC) MetricsHistory(ctx context.Context, stream, name string) (*models.MetricsHistory, error) {
	s.calls++
	if s.metricsHistoryFn != nil {
		return s.metricsHistoryFn(ctx, stream, name)
	}
	return nil, errStub
}

func (s *stubUC) Templates() []models.ConsumerTemplate {
	return []models.ConsumerTemplate{{Name: "real-time-processor"}}
}

func (s *stubUC) OpenFilterStream(context.Context, string) (*gateway.StreamSession, error) {
	return nil, errStub
}

func (s *stubUC) OpenConsumerStream(context.Context, string, string) (*gateway.StreamSession, error) {
	return nil, errStub
}
