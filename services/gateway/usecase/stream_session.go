package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// sessionBuffer bounds the in-flight messages per session. A peer that stops
// reading stalls its own delivery; the broker keeps the backlog.
const sessionBuffer = 64

// OpenFilterStream starts a live session over a subject filter through a
// session-owned ephemeral consumer. Only messages published after the session
// opens are delivered.
func (uc *GatewayUC) OpenFilterStream(ctx context.Context, filter string) (*gateway.StreamSession, error) {
	if filter == "" {
		return nil, fmt.Errorf("subject filter is required: %w", gateway.ErrBadRequest)
	}

	stream, err := uc.ResolveForPublish(ctx, filter)
	if err != nil {
		return nil, err
	}

	cons, err := uc.gw.CreateConsumer(ctx, stream, models.ConsumerCreateConfig{
		FilterSubject:     filter,
		DeliverPolicy:     models.DeliverNew,
		AckPolicy:         models.AckNone,
		InactiveThreshold: models.EphemeralInactiveThreshold,
	})
	if err != nil {
		return nil, err
	}

	sess, err := uc.openSession(ctx, stream, cons, true, filter)
	if err != nil {
		uc.dropEphemeral(stream, cons.Name)
		return nil, err
	}
	return sess, nil
}

// OpenConsumerStream starts a live session bound to an existing named
// consumer, advancing its cursor as messages are acknowledged.
func (uc *GatewayUC) OpenConsumerStream(ctx context.Context, stream, name string) (*gateway.StreamSession, error) {
	if stream == "" || name == "" {
		return nil, fmt.Errorf("stream and consumer are required: %w", gateway.ErrBadRequest)
	}

	info, err := uc.gw.GetConsumerInfo(ctx, stream, name)
	if err != nil {
		return nil, err
	}

	return uc.openSession(ctx, stream, info, false, stream+"/"+name)
}

// openSession wires a broker consume operation into channel form. The close
// function is idempotent and releases the subscription plus, for ephemeral
// sessions, the consumer itself.
func (uc *GatewayUC) openSession(ctx context.Context, stream string, info *models.ConsumerInfo, ephemeral bool, label string) (*gateway.StreamSession, error) {
	items := make(chan gateway.StreamItem, sessionBuffer)
	errs := make(chan error, 1)
	done := make(chan struct{})

	needAck := info.Config.AckPolicy != models.AckNone

	stop, err := uc.gw.Consume(ctx, stream, info.Name,
		func(msg *models.Message, ack func() error) {
			item := gateway.StreamItem{Msg: msg}
			if needAck {
				item.Ack = ack
			}
			select {
			case items <- item:
			case <-done:
			}
		},
		func(err error) {
			select {
			case errs <- err:
			default:
			}
		})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	closeFn := func() {
		once.Do(func() {
			close(done)
			stop()
			if ephemeral {
				uc.dropEphemeral(stream, info.Name)
			}
			logger.Info("streaming session closed",
				logger.String("label", label),
				logger.Bool("ephemeral", ephemeral))
		})
	}

	logger.Info("streaming session opened",
		logger.String("label", label),
		logger.String("stream", stream),
		logger.String("consumer", info.Name),
		logger.Bool("ephemeral", ephemeral))

	return &gateway.StreamSession{
		Label:     label,
		Ephemeral: ephemeral,
		Items:     items,
		Errs:      errs,
		CloseFn:   closeFn,
	}, nil
}

// dropEphemeral deletes a session consumer outside any request context;
// inactivity reaping covers the case where the delete itself fails.
func (uc *GatewayUC) dropEphemeral(stream, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := uc.gw.DeleteConsumer(ctx, stream, name); err != nil {
		logger.Warn("failed to delete session consumer",
			logger.String("stream", stream),
			logger.String("consumer", name),
			logger.Err(err))
	}
}
