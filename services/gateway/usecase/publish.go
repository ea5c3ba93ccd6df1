package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// PublishMessage persists one record, auto-creating the covering stream on
// first publish. The assigned sequence in the result is durable once this
// returns: the broker's publish-ack semantics carry through unchanged.
func (uc *GatewayUC) PublishMessage(ctx context.Context, subject string, req *models.PublishRequest) (*models.PublishResult, error) {
	if subject == "" {
		return nil, fmt.Errorf("subject is required: %w", gateway.ErrBadRequest)
	}
	if req == nil || len(req.Data) == 0 {
		return nil, fmt.Errorf("data is required: %w", gateway.ErrBadRequest)
	}

	messageID := req.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	// Resolution creates the stream when no existing one covers the subject,
	// so the publish below cannot race stream creation with itself.
	if _, err := uc.ResolveForPublish(ctx, subject); err != nil {
		return nil, err
	}

	stream, seq, err := uc.gw.Publish(ctx, subject, messageID, req.Source, req.Data)
	if err != nil {
		logger.Error("publish failed",
			logger.String("subject", subject),
			logger.Err(err))
		return nil, err
	}

	return &models.PublishResult{
		Published: true,
		Stream:    stream,
		Sequence:  seq,
		Subject:   subject,
		MessageID: messageID,
	}, nil
}
