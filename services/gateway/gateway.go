package gateway

import (
	"context"
	"time"

	"github.com/jetfront/jetfront/internal/pkg/models"
)

// BrokerGW is the outbound capability set over the JetStream broker.
// Implementations must be safe for concurrent use; all calls multiplex over
// the single process-wide connection.
type BrokerGW interface {
	// Publish persists one record and returns the storing stream and the
	// assigned sequence. The message id is carried as the broker's
	// deduplication header.
	Publish(ctx context.Context, subject, msgID, source string, payload []byte) (stream string, seq uint64, err error)

	GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error)
	CreateStream(ctx context.Context, cfg models.StreamCreateConfig) error
	DeleteStream(ctx context.Context, name string) error
	ListStreams(ctx context.Context) ([]*models.StreamInfo, error)
	StreamSubjects(ctx context.Context, name string) (map[string]uint64, error)

	// CreateConsumer is idempotent for an identical configuration and fails
	// with ErrConflict when a durable consumer of the same name exists with a
	// different one. An empty name yields a broker-assigned ephemeral.
	CreateConsumer(ctx context.Context, stream string, cfg models.ConsumerCreateConfig) (*models.ConsumerInfo, error)
	GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error)
	ListConsumers(ctx context.Context, stream string) ([]*models.ConsumerInfo, error)
	DeleteConsumer(ctx context.Context, stream, name string) error

	// Fetch pulls up to max messages, returning when the count is reached or
	// the timeout elapses, whichever first. When ack is set each delivered
	// message is acknowledged as it is collected.
	Fetch(ctx context.Context, stream, consumer string, max int, timeout time.Duration, ack bool) ([]*models.Message, error)

	// Consume delivers messages to the handler in broker order until the
	// returned stop function is called. The ack callback handed to the
	// handler acknowledges that single message. Broker-side failures during
	// the subscription are reported through onErr.
	Consume(ctx context.Context, stream, consumer string, handler func(msg *models.Message, ack func() error), onErr func(error)) (stop func(), err error)
}

// StreamItem is one message flowing through a live streaming session,
// paired with its acknowledgement callback (nil when the consumer does not
// require acks).
type StreamItem struct {
	Msg *models.Message
	Ack func() error
}

// StreamSession is a live feed of messages bound to one WebSocket peer.
type StreamSession struct {
	// Label is the human-readable filter or stream/consumer identifier,
	// echoed back in the subscribe acknowledgement.
	Label string

	// Ephemeral reports whether the session owns its consumer
	Ephemeral bool

	Items <-chan StreamItem
	Errs  <-chan error

	// CloseFn releases the broker-side consume operation and deletes the
	// session's ephemeral consumer, if any. Safe to call more than once.
	CloseFn func()
}

// Close releases the session's broker resources
func (s *StreamSession) Close() {
	if s.CloseFn != nil {
		s.CloseFn()
	}
}

// GatewayUC is the inbound operation surface used by the HTTP and WebSocket
// handlers.
type GatewayUC interface {
	PublishMessage(ctx context.Context, subject string, req *models.PublishRequest) (*models.PublishResult, error)

	FetchByFilter(ctx context.Context, filter string, limit, timeoutSeconds int) (*models.FetchResult, error)
	FetchFromConsumer(ctx context.Context, stream, consumer string, limit, timeoutSeconds int) (*models.FetchResult, error)

	ListStreams(ctx context.Context) ([]*models.StreamInfo, error)
	GetStreamInfo(ctx context.Context, name string) (*models.StreamInfo, error)
	StreamSubjects(ctx context.Context, name string) (*models.SubjectDistribution, error)

	CreateConsumer(ctx context.Context, stream string, req *models.ConsumerCreateRequest) (*models.ConsumerInfo, error)
	ListConsumers(ctx context.Context, stream string) ([]*models.ConsumerInfo, error)
	GetConsumerInfo(ctx context.Context, stream, name string) (*models.ConsumerInfo, error)
	DeleteConsumer(ctx context.Context, stream, name string) error
	ConsumerHealth(ctx context.Context, stream, name string) (*models.ConsumerHealth, error)
	PeekMessages(ctx context.Context, stream, name string, max int) (*models.PeekResult, error)
	ResetConsumer(ctx context.Context, stream, name string, req *models.ResetRequest) (*models.ConsumerInfo, error)
	MetricsHistory(ctx context.Context, stream, name string) (*models.MetricsHistory, error)
	Templates() []models.ConsumerTemplate

	OpenFilterStream(ctx context.Context, filter string) (*StreamSession, error)
	OpenConsumerStream(ctx context.Context, stream, name string) (*StreamSession, error)
}
