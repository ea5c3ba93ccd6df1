// Package handler wires the gateway's HTTP and WebSocket surfaces onto the
// usecase layer.
package handler

import (
	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
	httpHandler "github.com/jetfront/jetfront/services/gateway/handler/http"
	wsHandler "github.com/jetfront/jetfront/services/gateway/handler/websocket"
)

// Handler combines all handlers for the gateway service
type Handler struct {
	gatewayHTTP *httpHandler.GatewayHandler
	gatewayWS   *wsHandler.StreamHandler
	cfg         *models.Config
}

// NewHandler creates a new combined handler
func NewHandler(gatewayUC gateway.GatewayUC, cfg *models.Config) *Handler {
	return &Handler{
		gatewayHTTP: httpHandler.NewGatewayHandler(gatewayUC),
		gatewayWS:   wsHandler.NewStreamHandler(gatewayUC, cfg.WS.KeepaliveInterval),
		cfg:         cfg,
	}
}
