// Package usecase implements the gateway's core operations: subject-to-stream
// resolution, publishing, one-shot fetches, consumer orchestration and live
// streaming sessions.
package usecase

import (
	"sync"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

// GatewayUC implements gateway.GatewayUC on top of the broker adapter
type GatewayUC struct {
	gw  gateway.BrokerGW
	cfg *models.Config

	// bindings memoizes subject → stream name for the process lifetime.
	// Writes are idempotent: all writers agree on the mapping.
	mu       sync.RWMutex
	bindings map[string]string
}

// NewGatewayUC creates a new gateway usecase
func NewGatewayUC(cfg *models.Config, gw gateway.BrokerGW) *GatewayUC {
	return &GatewayUC{
		gw:       gw,
		cfg:      cfg,
		bindings: make(map[string]string),
	}
}
