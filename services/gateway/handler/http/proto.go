package http

import (
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/pkg/wire"
	"github.com/jetfront/jetfront/internal/utils"
)

const protoContentType = "application/x-protobuf"

// maxProtoBody bounds binary publish bodies at 1 MiB
const maxProtoBody = 1 << 20

// PublishProto handles publishing one record whose body is the binary
// publish schema instead of JSON.
func (h *GatewayHandler) PublishProto(c echo.Context) error {
	subject := c.Param("subject")
	if subject == "" {
		return utils.BadRequestResponse(c, "Subject is required")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxProtoBody))
	if err != nil {
		return utils.BadRequestResponse(c, "Failed to read request body")
	}

	req, err := wire.UnmarshalPublishRequest(body)
	if err != nil {
		return utils.BadRequestResponse(c, "Malformed binary request body")
	}
	if len(req.Data) == 0 {
		return utils.BadRequestResponse(c, "Field data is required")
	}

	res, err := h.gatewayUC.PublishMessage(c.Request().Context(), subject, &models.PublishRequest{
		MessageID: req.MessageID,
		Source:    req.Source,
		Data:      req.Data,
	})
	if err != nil {
		logger.Error("Failed to publish binary message",
			logger.String("subject", subject),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return c.Blob(200, protoContentType, wire.MarshalPublishResponse(&wire.PublishResponse{
		Published: res.Published,
		Stream:    res.Stream,
		Sequence:  res.Sequence,
		Subject:   res.Subject,
	}))
}

// FetchProto handles a last-N fetch answered in the binary fetch schema
func (h *GatewayHandler) FetchProto(c echo.Context) error {
	filter := c.Param("subject")
	if filter == "" {
		return utils.BadRequestResponse(c, "Subject filter is required")
	}

	limit, timeout, err := fetchParams(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	res, err := h.gatewayUC.FetchByFilter(c.Request().Context(), filter, limit, timeout)
	if err != nil {
		logger.Error("Failed to fetch binary messages",
			logger.String("filter", filter),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	out := &wire.FetchResponse{
		Count:   int32(res.Count),
		Stream:  res.Stream,
		Subject: res.Subject,
	}
	for _, m := range res.Messages {
		out.Messages = append(out.Messages, &wire.DataFrame{
			Subject:        m.Subject,
			StreamSequence: m.Sequence,
			Timestamp:      m.Timestamp.UTC().Format(time.RFC3339Nano),
			Payload:        m.Payload,
			PayloadSize:    int64(m.Size()),
		})
	}

	return c.Blob(200, protoContentType, wire.MarshalFetchResponse(out))
}
