// Package broker adapts the shared NATS client to the gateway's broker
// capability set, translating between domain models and JetStream types and
// mapping broker error codes onto the gateway's error kinds.
package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/pkg/natsclient"
	"github.com/jetfront/jetfront/services/gateway"
)

// headerSource carries the optional publisher-supplied source tag
const headerSource = "X-Jetfront-Source"

// Broker implements gateway.BrokerGW on top of the process-wide NATS client
type Broker struct {
	client *natsclient.Client
}

// New creates a new broker adapter
func New(client *natsclient.Client) *Broker {
	return &Broker{client: client}
}

// Publish persists one record via JetStream publish-ack
func (b *Broker) Publish(ctx context.Context, subject, msgID, source string, payload []byte) (string, uint64, error) {
	msg := &nats.Msg{
		Subject: subject,
		Data:    payload,
		Header:  nats.Header{},
	}
	if msgID != "" {
		msg.Header.Set(nats.MsgIdHdr, msgID)
	}
	if source != "" {
		msg.Header.Set(headerSource, source)
	}

	ack, err := b.client.JetStream().PublishMsg(ctx, msg)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoStreamResponse) {
			return "", 0, fmt.Errorf("publish %q: %w", subject, gateway.ErrNoStream)
		}
		return "", 0, fmt.Errorf("failed to publish to %q: %w", subject, err)
	}

	return ack.Stream, ack.Sequence, nil
}

// GetStreamInfo returns configuration and state for one stream
func (b *Broker) GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error) {
	stream, err := b.client.JetStream().Stream(ctx, name)
	if err != nil {
		return nil, mapStreamErr(name, err)
	}

	info, err := stream.Info(ctx)
	if err != nil {
		return nil, mapStreamErr(name, err)
	}

	return toStreamInfo(info), nil
}

// CreateStream creates a stream with limits retention on file storage
func (b *Broker) CreateStream(ctx context.Context, cfg models.StreamCreateConfig) error {
	replicas := cfg.Replicas
	if replicas == 0 {
		replicas = 1
	}

	_, err := b.client.JetStream().CreateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Name,
		Subjects:  cfg.Subjects,
		Retention: jetstream.LimitsPolicy,
		Storage:   jetstream.FileStorage,
		MaxMsgs:   cfg.MaxMsgs,
		MaxBytes:  cfg.MaxBytes,
		MaxAge:    cfg.MaxAge,
		Replicas:  replicas,
	})
	if err != nil {
		if errors.Is(err, jetstream.ErrStreamNameAlreadyInUse) {
			return fmt.Errorf("stream %q: %w", cfg.Name, gateway.ErrConflict)
		}
		return fmt.Errorf("failed to create stream %q: %w", cfg.Name, err)
	}

	return nil
}

// DeleteStream removes a stream and all its consumers
func (b *Broker) DeleteStream(ctx context.Context, name string) error {
	if err := b.client.JetStream().DeleteStream(ctx, name); err != nil {
		return mapStreamErr(name, err)
	}
	return nil
}

// ListStreams returns info for every stream on the broker
func (b *Broker) ListStreams(ctx context.Context) ([]*models.StreamInfo, error) {
	var out []*models.StreamInfo

	lister := b.client.JetStream().ListStreams(ctx)
	for info := range lister.Info() {
		out = append(out, toStreamInfo(info))
	}
	if err := lister.Err(); err != nil {
		return nil, fmt.Errorf("failed to list streams: %w", err)
	}

	return out, nil
}

// StreamSubjects returns the per-subject message counts within a stream
func (b *Broker) StreamSubjects(ctx context.Context, name string) (map[string]uint64, error) {
	stream, err := b.client.JetStream().Stream(ctx, name)
	if err != nil {
		return nil, mapStreamErr(name, err)
	}

	info, err := stream.Info(ctx, jetstream.WithSubjectFilter(">"))
	if err != nil {
		return nil, mapStreamErr(name, err)
	}

	return info.State.Subjects, nil
}

// CreateConsumer creates a consumer; idempotent for identical configuration
func (b *Broker) CreateConsumer(ctx context.Context, stream string, cfg models.ConsumerCreateConfig) (*models.ConsumerInfo, error) {
	jsCfg, err := toConsumerConfig(cfg)
	if err != nil {
		return nil, err
	}

	consumer, err := b.client.JetStream().CreateConsumer(ctx, stream, jsCfg)
	if err != nil {
		switch {
		case errors.Is(err, jetstream.ErrStreamNotFound):
			return nil, fmt.Errorf("stream %q: %w", stream, gateway.ErrNotFound)
		case errors.Is(err, jetstream.ErrConsumerExists):
			return nil, fmt.Errorf("consumer %q on %q: %w", cfg.Name, stream, gateway.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create consumer on %q: %w", stream, err)
	}

	return toConsumerInfo(consumer.CachedInfo()), nil
}

// GetConsumerInfo returns the broker's current view of a consumer
func (b *Broker) GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error) {
	consumer, err := b.client.JetStream().Consumer(ctx, stream, name)
	if err != nil {
		return nil, mapConsumerErr(stream, name, err)
	}

	info, err := consumer.Info(ctx)
	if err != nil {
		return nil, mapConsumerErr(stream, name, err)
	}

	return toConsumerInfo(info), nil
}

// ListConsumers returns info for every consumer on a stream
func (b *Broker) ListConsumers(ctx context.Context, streamName string) ([]*models.ConsumerInfo, error) {
	stream, err := b.client.JetStream().Stream(ctx, streamName)
	if err != nil {
		return nil, mapStreamErr(streamName, err)
	}

	var out []*models.ConsumerInfo
	lister := stream.ListConsumers(ctx)
	for info := range lister.Info() {
		out = append(out, toConsumerInfo(info))
	}
	if err := lister.Err(); err != nil {
		return nil, fmt.Errorf("failed to list consumers on %q: %w", streamName, err)
	}

	return out, nil
}

// DeleteConsumer removes a consumer from a stream
func (b *Broker) DeleteConsumer(ctx context.Context, stream, name string) error {
	if err := b.client.JetStream().DeleteConsumer(ctx, stream, name); err != nil {
		return mapConsumerErr(stream, name, err)
	}
	return nil
}

// Fetch pulls up to max messages, acknowledging each one when ack is set.
// Timeout exhaustion is not an error; whatever arrived is returned.
func (b *Broker) Fetch(ctx context.Context, stream, name string, max int, timeout time.Duration, ack bool) ([]*models.Message, error) {
	consumer, err := b.client.JetStream().Consumer(ctx, stream, name)
	if err != nil {
		return nil, mapConsumerErr(stream, name, err)
	}

	batch, err := consumer.Fetch(max, jetstream.FetchMaxWait(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %q/%q: %w", stream, name, err)
	}

	var out []*models.Message
	for msg := range batch.Messages() {
		m, err := toMessage(msg)
		if err != nil {
			continue
		}
		if ack {
			if ackErr := msg.Ack(); ackErr != nil {
				// The message redelivers after ack-wait; still return it.
				out = append(out, m)
				continue
			}
		}
		out = append(out, m)
	}
	if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
		return out, fmt.Errorf("fetch from %q/%q: %w", stream, name, err)
	}

	return out, nil
}

// Consume delivers messages to the handler in broker order until stopped
func (b *Broker) Consume(ctx context.Context, stream, name string, handler func(msg *models.Message, ack func() error), onErr func(error)) (func(), error) {
	consumer, err := b.client.JetStream().Consumer(ctx, stream, name)
	if err != nil {
		return nil, mapConsumerErr(stream, name, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		m, err := toMessage(msg)
		if err != nil {
			return
		}
		handler(m, msg.Ack)
	}, jetstream.ConsumeErrHandler(func(_ jetstream.ConsumeContext, err error) {
		if onErr != nil {
			onErr(err)
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %q/%q: %w", stream, name, err)
	}

	return cc.Stop, nil
}

func mapStreamErr(name string, err error) error {
	if errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("stream %q: %w", name, gateway.ErrNotFound)
	}
	return fmt.Errorf("stream %q: %w", name, err)
}

func mapConsumerErr(stream, name string, err error) error {
	if errors.Is(err, jetstream.ErrConsumerNotFound) || errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("consumer %q on %q: %w", name, stream, gateway.ErrNotFound)
	}
	return fmt.Errorf("consumer %q on %q: %w", name, stream, err)
}

func toMessage(msg jetstream.Msg) (*models.Message, error) {
	meta, err := msg.Metadata()
	if err != nil {
		return nil, err
	}
	return &models.Message{
		Subject:   msg.Subject(),
		Sequence:  meta.Sequence.Stream,
		Timestamp: meta.Timestamp,
		Payload:   msg.Data(),
	}, nil
}

func toStreamInfo(info *jetstream.StreamInfo) *models.StreamInfo {
	return &models.StreamInfo{
		Name:      info.Config.Name,
		Subjects:  info.Config.Subjects,
		Created:   info.Created,
		Retention: info.Config.Retention.String(),
		Storage:   info.Config.Storage.String(),
		Replicas:  info.Config.Replicas,
		MaxMsgs:   info.Config.MaxMsgs,
		MaxBytes:  info.Config.MaxBytes,
		MaxAge:    info.Config.MaxAge,
		Messages:  info.State.Msgs,
		Bytes:     info.State.Bytes,
		FirstSeq:  info.State.FirstSeq,
		LastSeq:   info.State.LastSeq,
		Consumers: info.State.Consumers,
	}
}

func toConsumerConfig(cfg models.ConsumerCreateConfig) (jetstream.ConsumerConfig, error) {
	out := jetstream.ConsumerConfig{
		Description:       cfg.Description,
		FilterSubject:     cfg.FilterSubject,
		AckWait:           cfg.AckWait,
		MaxDeliver:        cfg.MaxDeliver,
		InactiveThreshold: cfg.InactiveThreshold,
		MaxAckPending:     cfg.MaxAckPending,
	}

	if cfg.Durable {
		out.Durable = cfg.Name
	} else {
		out.Name = cfg.Name
	}

	switch cfg.DeliverPolicy {
	case models.DeliverAll, "":
		out.DeliverPolicy = jetstream.DeliverAllPolicy
	case models.DeliverLast:
		out.DeliverPolicy = jetstream.DeliverLastPolicy
	case models.DeliverNew:
		out.DeliverPolicy = jetstream.DeliverNewPolicy
	case models.DeliverByStartSeq:
		out.DeliverPolicy = jetstream.DeliverByStartSequencePolicy
		out.OptStartSeq = cfg.OptStartSeq
	case models.DeliverByStartTime:
		out.DeliverPolicy = jetstream.DeliverByStartTimePolicy
		out.OptStartTime = cfg.OptStartTime
	default:
		return out, fmt.Errorf("unknown deliver policy %q: %w", cfg.DeliverPolicy, gateway.ErrBadRequest)
	}

	switch cfg.AckPolicy {
	case models.AckExplicit, "":
		out.AckPolicy = jetstream.AckExplicitPolicy
	case models.AckNone:
		out.AckPolicy = jetstream.AckNonePolicy
	case models.AckAll:
		out.AckPolicy = jetstream.AckAllPolicy
	default:
		return out, fmt.Errorf("unknown ack policy %q: %w", cfg.AckPolicy, gateway.ErrBadRequest)
	}

	return out, nil
}

func toConsumerInfo(info *jetstream.ConsumerInfo) *models.ConsumerInfo {
	out := &models.ConsumerInfo{
		Stream:  info.Stream,
		Name:    info.Name,
		Durable: info.Config.Durable != "",
		Created: info.Created,
		Config: models.ConsumerCreateConfig{
			Name:              info.Name,
			Description:       info.Config.Description,
			Durable:           info.Config.Durable != "",
			FilterSubject:     info.Config.FilterSubject,
			DeliverPolicy:     deliverPolicyName(info.Config.DeliverPolicy),
			OptStartSeq:       info.Config.OptStartSeq,
			OptStartTime:      info.Config.OptStartTime,
			AckPolicy:         ackPolicyName(info.Config.AckPolicy),
			AckWait:           info.Config.AckWait,
			MaxDeliver:        info.Config.MaxDeliver,
			InactiveThreshold: info.Config.InactiveThreshold,
			MaxAckPending:     info.Config.MaxAckPending,
		},
		State: models.ConsumerState{
			DeliveredConsumerSeq: info.Delivered.Consumer,
			DeliveredStreamSeq:   info.Delivered.Stream,
			AckPending:           info.NumAckPending,
			Redelivered:          info.NumRedelivered,
			Pending:              info.NumPending,
			Waiting:              info.NumWaiting,
			LastDelivery:         info.Delivered.Last,
		},
	}
	return out
}

func deliverPolicyName(p jetstream.DeliverPolicy) string {
	switch p {
	case jetstream.DeliverLastPolicy:
		return models.DeliverLast
	case jetstream.DeliverNewPolicy:
		return models.DeliverNew
	case jetstream.DeliverByStartSequencePolicy:
		return models.DeliverByStartSeq
	case jetstream.DeliverByStartTimePolicy:
		return models.DeliverByStartTime
	default:
		return models.DeliverAll
	}
}

func ackPolicyName(p jetstream.AckPolicy) string {
	switch p {
	case jetstream.AckNonePolicy:
		return models.AckNone
	case jetstream.AckAllPolicy:
		return models.AckAll
	default:
		return models.AckExplicit
	}
}
