package usecase

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// Health thresholds, evaluated in order: inactive, overloaded, lagging.
// The first failing predicate decides the status. The inactive window is the
// consumer's own inactive threshold; the fallback only covers consumers
// created outside the gateway with no threshold set.
const (
	healthInactiveFallback = time.Hour
	healthMaxAckPending    = 1000
	healthMaxLag           = 10_000
)

const previewMaxBytes = 100

// CreateConsumer validates the request, applies the gateway's defaults and
// creates the consumer. Recreating a durable with the identical configuration
// succeeds; a different configuration is a conflict.
func (uc *GatewayUC) CreateConsumer(ctx context.Context, stream string, req *models.ConsumerCreateRequest) (*models.ConsumerInfo, error) {
	if stream == "" {
		return nil, fmt.Errorf("stream is required: %w", gateway.ErrBadRequest)
	}
	cfg, err := uc.consumerConfig(req)
	if err != nil {
		return nil, err
	}

	info, err := uc.gw.CreateConsumer(ctx, stream, *cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("consumer created",
		logger.String("stream", stream),
		logger.String("consumer", info.Name),
		logger.Bool("durable", info.Durable))
	return info, nil
}

// consumerConfig turns an inbound request into a validated broker config
func (uc *GatewayUC) consumerConfig(req *models.ConsumerCreateRequest) (*models.ConsumerCreateConfig, error) {
	if req == nil {
		return nil, fmt.Errorf("request body is required: %w", gateway.ErrBadRequest)
	}
	if req.Durable && req.Name == "" {
		return nil, fmt.Errorf("durable consumers require a name: %w", gateway.ErrBadRequest)
	}

	deliver := req.DeliverPolicy
	if deliver == "" {
		deliver = models.DeliverAll
	}
	switch deliver {
	case models.DeliverAll, models.DeliverLast, models.DeliverNew:
		if req.OptStartSeq != 0 || req.OptStartTime != nil {
			return nil, fmt.Errorf("start sequence and start time only apply to %s and %s delivery: %w",
				models.DeliverByStartSeq, models.DeliverByStartTime, gateway.ErrBadRequest)
		}
	case models.DeliverByStartSeq:
		if req.OptStartSeq == 0 {
			return nil, fmt.Errorf("opt_start_seq is required for %s delivery: %w", models.DeliverByStartSeq, gateway.ErrBadRequest)
		}
	case models.DeliverByStartTime:
		if req.OptStartTime == nil {
			return nil, fmt.Errorf("opt_start_time is required for %s delivery: %w", models.DeliverByStartTime, gateway.ErrBadRequest)
		}
	default:
		return nil, fmt.Errorf("unknown deliver policy %q: %w", deliver, gateway.ErrBadRequest)
	}

	ack := req.AckPolicy
	if ack == "" {
		ack = models.AckExplicit
	}
	switch ack {
	case models.AckNone, models.AckExplicit, models.AckAll:
	default:
		return nil, fmt.Errorf("unknown ack policy %q: %w", ack, gateway.ErrBadRequest)
	}

	if req.AckWaitSeconds < 0 || req.MaxDeliver < 0 || req.InactiveSeconds < 0 || req.MaxAckPending < 0 {
		return nil, fmt.Errorf("durations and counts must not be negative: %w", gateway.ErrBadRequest)
	}

	inactive := time.Duration(req.InactiveSeconds) * time.Second
	if inactive == 0 {
		if req.Durable {
			inactive = models.DurableInactiveThreshold
		} else {
			inactive = models.EphemeralInactiveThreshold
		}
	}

	cfg := &models.ConsumerCreateConfig{
		Name:              req.Name,
		Description:       req.Description,
		Durable:           req.Durable,
		FilterSubject:     req.FilterSubject,
		DeliverPolicy:     deliver,
		OptStartSeq:       req.OptStartSeq,
		OptStartTime:      req.OptStartTime,
		AckPolicy:         ack,
		AckWait:           time.Duration(req.AckWaitSeconds) * time.Second,
		MaxDeliver:        req.MaxDeliver,
		InactiveThreshold: inactive,
		MaxAckPending:     req.MaxAckPending,
	}
	return cfg, nil
}

// ListConsumers lists consumers of a stream
func (uc *GatewayUC) ListConsumers(ctx context.Context, stream string) ([]*models.ConsumerInfo, error) {
	if stream == "" {
		return nil, fmt.Errorf("stream is required: %w", gateway.ErrBadRequest)
	}
	return uc.gw.ListConsumers(ctx, stream)
}

// GetConsumerInfo returns the current state of a named consumer
func (uc *GatewayUC) GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error) {
	if stream == "" || name == "" {
		return nil, fmt.Errorf("stream and consumer are required: %w", gateway.ErrBadRequest)
	}
	return uc.gw.GetConsumerInfo(ctx, stream, name)
}

// DeleteConsumer removes a named consumer
func (uc *GatewayUC) DeleteConsumer(ctx context.Context, stream, name string) error {
	if stream == "" || name == "" {
		return fmt.Errorf("stream and consumer are required: %w", gateway.ErrBadRequest)
	}
	if err := uc.gw.DeleteConsumer(ctx, stream, name); err != nil {
		return err
	}
	logger.Info("consumer deleted",
		logger.String("stream", stream),
		logger.String("consumer", name))
	return nil
}

// ConsumerHealth classifies a consumer's state. Predicates run in order and
// the first hit wins: no delivery within the consumer's inactive threshold is
// inactive, over a thousand unacknowledged messages is overloaded, more than
// ten thousand undelivered messages behind the stream head is lagging.
func (uc *GatewayUC) ConsumerHealth(ctx context.Context, stream, name string) (*models.ConsumerHealth, error) {
	info, err := uc.GetConsumerInfo(ctx, stream, name)
	if err != nil {
		return nil, err
	}

	h := &models.ConsumerHealth{Stream: stream, Name: name, Status: models.HealthHealthy, Healthy: true}

	// A consumer that has never delivered is measured from its creation time
	last := info.Created
	if info.State.LastDelivery != nil {
		last = *info.State.LastDelivery
	}

	inactiveAfter := info.Config.InactiveThreshold
	if inactiveAfter == 0 {
		inactiveAfter = healthInactiveFallback
	}

	switch {
	case time.Since(last) > inactiveAfter:
		h.Status = models.HealthInactive
		h.Healthy = false
		h.Issue = fmt.Sprintf("no delivery in %s", time.Since(last).Round(time.Second))
	case info.State.AckPending > healthMaxAckPending:
		h.Status = models.HealthOverloaded
		h.Healthy = false
		h.Issue = fmt.Sprintf("%d messages awaiting acknowledgement", info.State.AckPending)
	case info.State.Pending > healthMaxLag:
		h.Status = models.HealthLagging
		h.Healthy = false
		h.Issue = fmt.Sprintf("%d messages behind the stream head", info.State.Pending)
	}
	return h, nil
}

// PeekMessages inspects up to max pending messages without consuming them.
// The peek reads through a throwaway ephemeral positioned at the consumer's
// current cursor, so the consumer's own delivery state is untouched.
func (uc *GatewayUC) PeekMessages(ctx context.Context, stream, name string, max int) (*models.PeekResult, error) {
	info, err := uc.GetConsumerInfo(ctx, stream, name)
	if err != nil {
		return nil, err
	}
	if max == 0 {
		max = defaultFetchLimit
	}
	if max < 1 || max > maxFetchLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d: %w", maxFetchLimit, gateway.ErrBadRequest)
	}

	cfg := models.ConsumerCreateConfig{
		FilterSubject:     info.Config.FilterSubject,
		DeliverPolicy:     models.DeliverByStartSeq,
		OptStartSeq:       info.State.DeliveredStreamSeq + 1,
		AckPolicy:         models.AckNone,
		InactiveThreshold: 5 * time.Second,
	}
	peek, err := uc.gw.CreateConsumer(ctx, stream, cfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if delErr := uc.gw.DeleteConsumer(dctx, stream, peek.Name); delErr != nil {
			logger.Warn("failed to delete peek consumer",
				logger.String("stream", stream),
				logger.String("consumer", peek.Name),
				logger.Err(delErr))
		}
	}()

	msgs, err := uc.gw.Fetch(ctx, stream, peek.Name, max, 2*time.Second, false)
	if err != nil {
		return nil, err
	}

	previews := make([]*models.MessagePreview, 0, len(msgs))
	for _, m := range msgs {
		previews = append(previews, &models.MessagePreview{
			Sequence:  m.Sequence,
			Subject:   m.Subject,
			Timestamp: m.Timestamp,
			Size:      m.Size(),
			Preview:   previewPayload(m.Payload),
		})
	}

	return &models.PeekResult{
		Stream:   stream,
		Consumer: name,
		Count:    len(previews),
		Messages: previews,
	}, nil
}

// previewPayload renders the first hundred bytes of a payload as text,
// trimming a trailing partial rune. Non-text payloads get a size marker.
func previewPayload(p []byte) string {
	if len(p) == 0 {
		return ""
	}
	head := p
	if len(head) > previewMaxBytes {
		head = head[:previewMaxBytes]
		// Drop the tail bytes of a rune the cut sliced through
		for len(head) > 0 && !utf8.Valid(head) {
			head = head[:len(head)-1]
		}
	}
	if !utf8.Valid(head) {
		return fmt.Sprintf("[binary, %d bytes]", len(p))
	}
	return string(head)
}

// ResetConsumer repositions a consumer by recreating it with an adjusted
// start position: back to the beginning, at a stream sequence, or at a point
// in time. The rest of the configuration is preserved.
func (uc *GatewayUC) ResetConsumer(ctx context.Context, stream, name string, req *models.ResetRequest) (*models.ConsumerInfo, error) {
	info, err := uc.GetConsumerInfo(ctx, stream, name)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request body is required: %w", gateway.ErrBadRequest)
	}

	cfg := info.Config
	cfg.Name = name
	cfg.Durable = info.Durable
	switch req.Mode {
	case models.ResetModeBeginning:
		cfg.DeliverPolicy = models.DeliverAll
		cfg.OptStartSeq = 0
		cfg.OptStartTime = nil
	case models.ResetModeFromSequence:
		if req.Sequence == 0 {
			return nil, fmt.Errorf("sequence is required for %s: %w", models.ResetModeFromSequence, gateway.ErrBadRequest)
		}
		cfg.DeliverPolicy = models.DeliverByStartSeq
		cfg.OptStartSeq = req.Sequence
		cfg.OptStartTime = nil
	case models.ResetModeFromTime:
		if req.StartTime == nil {
			return nil, fmt.Errorf("start_time is required for %s: %w", models.ResetModeFromTime, gateway.ErrBadRequest)
		}
		cfg.DeliverPolicy = models.DeliverByStartTime
		cfg.OptStartSeq = 0
		cfg.OptStartTime = req.StartTime
	default:
		return nil, fmt.Errorf("unknown reset mode %q: %w", req.Mode, gateway.ErrBadRequest)
	}

	if err := uc.gw.DeleteConsumer(ctx, stream, name); err != nil {
		return nil, err
	}
	recreated, err := uc.gw.CreateConsumer(ctx, stream, cfg)
	if err != nil {
		// The old consumer is already gone; surface the failure rather than
		// pretend the reset happened.
		return nil, fmt.Errorf("consumer %q deleted but recreation failed: %w", name, err)
	}

	logger.Info("consumer reset",
		logger.String("stream", stream),
		logger.String("consumer", name),
		logger.String("mode", req.Mode))
	return recreated, nil
}

// MetricsHistory returns the metrics series for a consumer. The series
// currently holds a single live snapshot derived from broker state. Lag is
// the distance between the stream head and the consumer's delivery cursor,
// which for a filtered consumer can exceed its pending count.
func (uc *GatewayUC) MetricsHistory(ctx context.Context, stream, name string) (*models.MetricsHistory, error) {
	info, err := uc.GetConsumerInfo(ctx, stream, name)
	if err != nil {
		return nil, err
	}
	sinfo, err := uc.gw.GetStreamInfo(ctx, stream)
	if err != nil {
		return nil, err
	}

	var lag uint64
	if sinfo.LastSeq > info.State.DeliveredStreamSeq {
		lag = sinfo.LastSeq - info.State.DeliveredStreamSeq
	}

	var acked uint64
	if info.State.DeliveredConsumerSeq > uint64(info.State.AckPending) {
		acked = info.State.DeliveredConsumerSeq - uint64(info.State.AckPending)
	}

	snap := &models.ConsumerMetrics{
		Stream:       stream,
		Name:         name,
		Timestamp:    time.Now().UTC(),
		Lag:          lag,
		Acknowledged: acked,
		Redelivered:  info.State.Redelivered,
		Pending:      info.State.Pending,
		AckPending:   info.State.AckPending,
	}

	return &models.MetricsHistory{
		Stream:    stream,
		Name:      name,
		Snapshots: []*models.ConsumerMetrics{snap},
	}, nil
}
