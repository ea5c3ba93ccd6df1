package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// Fetch bounds. Both limits are per request; defaults apply when a client
// omits the parameter entirely (zero value).
const (
	defaultFetchLimit   = 10
	maxFetchLimit       = 100
	defaultFetchTimeout = 5
	maxFetchTimeout     = 30
)

// FetchByFilter returns up to limit of the most recent messages matching the
// subject filter. It reads through a throwaway ephemeral consumer positioned
// at lastSeq-limit+1, so the result is the tail of the stream at call time.
func (uc *GatewayUC) FetchByFilter(ctx context.Context, filter string, limit, timeoutSeconds int) (*models.FetchResult, error) {
	if filter == "" {
		return nil, fmt.Errorf("subject filter is required: %w", gateway.ErrBadRequest)
	}
	limit, timeout, err := fetchBounds(limit, timeoutSeconds)
	if err != nil {
		return nil, err
	}

	stream, err := uc.ResolveForPublish(ctx, filter)
	if err != nil {
		return nil, err
	}

	info, err := uc.gw.GetStreamInfo(ctx, stream)
	if err != nil {
		return nil, err
	}
	if info.Messages == 0 {
		return &models.FetchResult{Messages: []*models.Message{}, Stream: stream, Subject: filter}, nil
	}

	startSeq := uint64(1)
	if info.LastSeq > uint64(limit) {
		startSeq = info.LastSeq - uint64(limit) + 1
	}
	if startSeq < info.FirstSeq {
		startSeq = info.FirstSeq
	}

	// The five second inactivity threshold lets the broker reap the
	// ephemeral even when the deferred delete below never runs.
	cons, err := uc.gw.CreateConsumer(ctx, stream, models.ConsumerCreateConfig{
		FilterSubject:     filter,
		DeliverPolicy:     models.DeliverByStartSeq,
		OptStartSeq:       startSeq,
		AckPolicy:         models.AckNone,
		InactiveThreshold: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		// Deliberately detached from the request context: the cleanup must
		// run even when the client has gone away.
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if delErr := uc.gw.DeleteConsumer(dctx, stream, cons.Name); delErr != nil {
			logger.Warn("failed to delete ephemeral consumer",
				logger.String("stream", stream),
				logger.String("consumer", cons.Name),
				logger.Err(delErr))
		}
	}()

	msgs, err := uc.gw.Fetch(ctx, stream, cons.Name, limit, timeout, false)
	if err != nil {
		return nil, err
	}

	return &models.FetchResult{
		Messages: msgs,
		Count:    len(msgs),
		Stream:   stream,
		Subject:  filter,
	}, nil
}

// FetchFromConsumer pulls the next batch from an existing named consumer,
// advancing its cursor. Messages are acknowledged on collection unless the
// consumer's ack policy is none.
func (uc *GatewayUC) FetchFromConsumer(ctx context.Context, stream, consumer string, limit, timeoutSeconds int) (*models.FetchResult, error) {
	if stream == "" || consumer == "" {
		return nil, fmt.Errorf("stream and consumer are required: %w", gateway.ErrBadRequest)
	}
	limit, timeout, err := fetchBounds(limit, timeoutSeconds)
	if err != nil {
		return nil, err
	}

	info, err := uc.gw.GetConsumerInfo(ctx, stream, consumer)
	if err != nil {
		return nil, err
	}

	ack := info.Config.AckPolicy != models.AckNone
	msgs, err := uc.gw.Fetch(ctx, stream, consumer, limit, timeout, ack)
	if err != nil {
		return nil, err
	}

	return &models.FetchResult{
		Messages: msgs,
		Count:    len(msgs),
		Stream:   stream,
		Subject:  info.Config.FilterSubject,
	}, nil
}

// fetchBounds validates and defaults the limit and timeout parameters
func fetchBounds(limit, timeoutSeconds int) (int, time.Duration, error) {
	if limit == 0 {
		limit = defaultFetchLimit
	}
	if limit < 1 || limit > maxFetchLimit {
		return 0, 0, fmt.Errorf("limit must be between 1 and %d: %w", maxFetchLimit, gateway.ErrBadRequest)
	}
	if timeoutSeconds == 0 {
		timeoutSeconds = defaultFetchTimeout
	}
	if timeoutSeconds < 1 || timeoutSeconds > maxFetchTimeout {
		return 0, 0, fmt.Errorf("timeout must be between 1 and %d seconds: %w", maxFetchTimeout, gateway.ErrBadRequest)
	}
	return limit, time.Duration(timeoutSeconds) * time.Second, nil
}
