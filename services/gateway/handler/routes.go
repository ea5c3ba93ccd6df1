package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/health"
	"github.com/jetfront/jetfront/internal/pkg/middleware"
)

// RegisterRoutes registers all HTTP and WebSocket routes. Everything under
// /api and /ws sits behind the bearer authentication gate; /health is
// anonymous so probes work without credentials.
func (h *Handler) RegisterRoutes(e *echo.Echo, healthHandler *health.Handler) {
	e.GET("/health", healthHandler.Check)

	auth := middleware.BearerAuthMiddleware(h.cfg.JWT)

	api := e.Group("/api", auth)

	// The first segment of the consumer-fetch path names a stream, but echo
	// requires one param name per position so it rides on :subject.
	api.POST("/messages/:subject", h.gatewayHTTP.PublishMessage)
	api.GET("/messages/:subject", h.gatewayHTTP.FetchMessages)
	api.GET("/messages/:subject/consumer/:name", h.gatewayHTTP.FetchFromConsumer)

	api.GET("/streams", h.gatewayHTTP.ListStreams)
	api.GET("/streams/:name", h.gatewayHTTP.GetStream)
	api.GET("/streams/:name/subjects", h.gatewayHTTP.StreamSubjects)

	api.GET("/consumers/templates", h.gatewayHTTP.ConsumerTemplates)
	api.POST("/consumers/:stream", h.gatewayHTTP.CreateConsumer)
	api.GET("/consumers/:stream", h.gatewayHTTP.ListConsumers)
	api.GET("/consumers/:stream/:name", h.gatewayHTTP.GetConsumer)
	api.DELETE("/consumers/:stream/:name", h.gatewayHTTP.DeleteConsumer)
	api.GET("/consumers/:stream/:name/health", h.gatewayHTTP.ConsumerHealth)
	api.GET("/consumers/:stream/:name/messages", h.gatewayHTTP.PeekMessages)
	api.POST("/consumers/:stream/:name/reset", h.gatewayHTTP.ResetConsumer)
	api.GET("/consumers/:stream/:name/metrics/history", h.gatewayHTTP.MetricsHistory)

	api.POST("/proto/protobufmessages/:subject", h.gatewayHTTP.PublishProto)
	api.GET("/proto/protobufmessages/:subject", h.gatewayHTTP.FetchProto)

	ws := e.Group("/ws", auth)
	ws.GET("/websocketmessages/:subject", h.gatewayWS.StreamByFilter)
	ws.GET("/websocketmessages/:subject/consumer/:name", h.gatewayWS.StreamFromConsumer)
}
