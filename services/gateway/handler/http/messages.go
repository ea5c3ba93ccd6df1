// Package http implements the gateway's JSON HTTP handlers.
package http

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/utils"
)

const (
	defaultLimit   = 10
	maxLimit       = 100
	defaultTimeout = 5
	maxTimeout     = 30
)

// PublishMessage handles publishing one record to a subject
func (h *GatewayHandler) PublishMessage(c echo.Context) error {
	subject := c.Param("subject")
	if subject == "" {
		return utils.BadRequestResponse(c, "Subject is required")
	}

	var req models.PublishRequest
	if err := c.Bind(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body: "+err.Error())
	}
	if len(req.Data) == 0 {
		return utils.BadRequestResponse(c, "Field data is required")
	}

	res, err := h.gatewayUC.PublishMessage(c.Request().Context(), subject, &req)
	if err != nil {
		logger.Error("Failed to publish message",
			logger.String("subject", subject),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Message published", res)
}

// FetchMessages handles a last-N fetch over a subject filter
func (h *GatewayHandler) FetchMessages(c echo.Context) error {
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
		logger.Error("Failed to fetch messages",
			logger.String("filter", filter),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Messages fetched", toFetchView(res))
}

// FetchFromConsumer handles a next-N fetch through an existing consumer.
// The first path segment rides on the subject param but names a stream.
func (h *GatewayHandler) FetchFromConsumer(c echo.Context) error {
	stream := c.Param("subject")
	name := c.Param("name")
	if stream == "" || name == "" {
		return utils.BadRequestResponse(c, "Stream and consumer are required")
	}

	limit, timeout, err := fetchParams(c)
	if err != nil {
		return utils.BadRequestResponse(c, err.Error())
	}

	res, err := h.gatewayUC.FetchFromConsumer(c.Request().Context(), stream, name, limit, timeout)
	if err != nil {
		logger.Error("Failed to fetch from consumer",
			logger.String("stream", stream),
			logger.String("consumer", name),
			logger.ErrorField(err))
		return errorResponse(c, err)
	}

	return utils.SuccessResponse(c, 200, "Messages fetched", toFetchView(res))
}

// fetchParams parses and bounds the limit and timeout query parameters.
// An absent parameter takes its default; a present one must parse and sit
// inside the allowed range, zero included as a violation.
func fetchParams(c echo.Context) (int, int, error) {
	limit := defaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxLimit {
			return 0, 0, fmt.Errorf("limit must be an integer between 1 and %d", maxLimit)
		}
		limit = v
	}

	timeout := defaultTimeout
	if raw := c.QueryParam("timeout"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxTimeout {
			return 0, 0, fmt.Errorf("timeout must be an integer between 1 and %d seconds", maxTimeout)
		}
		timeout = v
	}

	return limit, timeout, nil
}

// decodeStrict decodes a JSON body rejecting unknown fields
func decodeStrict(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
