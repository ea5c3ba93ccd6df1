package http

import (
	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/utils"
)

// ListStreams handles listing all streams on the broker
func (h *GatewayHandler) ListStreams(c echo.Context) error {
	streams, err := h.gatewayUC.ListStreams(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list streams", logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Streams listed", streams)
}

// GetStream handles fetching one stream's configuration and state
func (h *GatewayHandler) GetStream(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return utils.BadRequestResponse(c, "Stream name is required")
	}

	info, err := h.gatewayUC.GetStreamInfo(c.Request().Context(), name)
	if err != nil {
		logger.Error("Failed to get stream info",
			logger.String("stream", name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Stream info", info)
}

// StreamSubjects handles the per-subject message distribution of a stream
func (h *GatewayHandler) StreamSubjects(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return utils.BadRequestResponse(c, "Stream name is required")
	}

	dist, err := h.gatewayUC.StreamSubjects(c.Request().Context(), name)
	if err != nil {
		logger.Error("Failed to get subject distribution",
			logger.String("stream", name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Subject distribution", dist)
}
