package http

import (
	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/utils"
)

// CreateConsumer handles consumer creation on a stream. The body is decoded
// strictly so a typoed option fails loudly instead of silently defaulting.
func (h *GatewayHandler) CreateConsumer(c echo.Context) error {
	stream := c.Param("stream")
	if stream == "" {
		return utils.BadRequestResponse(c, "Stream is required")
	}

	var req models.ConsumerCreateRequest
	if err := decodeStrict(c, &req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	info, err := h.gatewayUC.CreateConsumer(c.Request().Context(), stream, &req)
	if err != nil {
		logger.Error("Failed to create consumer",
			logger.String("stream", stream),
			logger.String("consumer", req.Name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumer created", info)
}

// ListConsumers handles listing consumers of one stream
func (h *GatewayHandler) ListConsumers(c echo.Context) error {
	stream := c.Param("stream")
	if stream == "" {
		return utils.BadRequestResponse(c, "Stream is required")
	}

	consumers, err := h.gatewayUC.ListConsumers(c.Request().Context(), stream)
	if err != nil {
		logger.Error("Failed to list consumers",
			logger.String("stream", stream),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumers listed", consumers)
}

// GetConsumer handles fetching one consumer's configuration and state
func (h *GatewayHandler) GetConsumer(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	info, err := h.gatewayUC.GetConsumerInfo(c.Request().Context(), stream, name)
	if err != nil {
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumer info", info)
}

// DeleteConsumer handles removing a consumer
func (h *GatewayHandler) DeleteConsumer(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	if err := h.gatewayUC.DeleteConsumer(c.Request().Context(), stream, name); err != nil {
		logger.Error("Failed to delete consumer",
			logger.String("stream", stream),
			logger.String("consumer", name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumer deleted", map[string]string{
		"stream":   stream,
		"consumer": name,
	})
}

// ConsumerHealth handles the derived health view of a consumer
func (h *GatewayHandler) ConsumerHealth(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	health, err := h.gatewayUC.ConsumerHealth(c.Request().Context(), stream, name)
	if err != nil {
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumer health", health)
}

// PeekMessages handles a non-acknowledging look at a consumer's pending messages
func (h *GatewayHandler) PeekMessages(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	limit, _, err := fetchParams(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	res, err := h.gatewayUC.PeekMessages(c.Request().Context(), stream, name, limit)
	if err != nil {
		logger.Error("Failed to peek messages",
			logger.String("stream", stream),
			logger.String("consumer", name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Messages peeked", res)
}

// ResetConsumer handles repositioning a consumer's cursor
func (h *GatewayHandler) ResetConsumer(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	var req models.ResetRequest
	if err := decodeStrict(c, &req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}

	info, err := h.gatewayUC.ResetConsumer(c.Request().Context(), stream, name, &req)
	if err != nil {
		logger.Error("Failed to reset consumer",
			logger.String("stream", stream),
			logger.String("consumer", name),
			logger.String("mode", req.Mode),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Consumer reset", info)
}

// MetricsHistory handles the metrics snapshot series of a consumer
func (h *GatewayHandler) MetricsHistory(c echo.Context) error {
	stream, name := c.Param("stream"), c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	history, err := h.gatewayUC.MetricsHistory(c.Request().Context(), stream, name)
	if err != nil {
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Metrics history", history)
}

// ConsumerTemplates handles the static template catalog
func (h *GatewayHandler) ConsumerTemplates(c echo.Context) error {
	return utils.SuccessResponse(c, 200, "Consumer templates", h.gatewayUC.Templates())
}
