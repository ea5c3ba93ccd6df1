package health

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/pkg/natsclient"
)

// Status is the health endpoint response body
type Status struct {
	Status             string `json:"status"`
	App                string `json:"app"`
	Version            string `json:"version"`
	NATSConnected      bool   `json:"nats_connected"`
	JetStreamAvailable bool   `json:"jetstream_available"`
	NATSURL            string `json:"nats_url"`
}

// Handler serves the liveness endpoint. The route is anonymous and always
// answers 200; degraded broker connectivity shows up in the body, not the
// status code.
type Handler struct {
	client *natsclient.Client
	app    models.AppConfig
}

// NewHandler creates a new health handler
func NewHandler(client *natsclient.Client, app models.AppConfig) *Handler {
	return &Handler{client: client, app: app}
}

// Check reports process liveness and broker connectivity
func (h *Handler) Check(c echo.Context) error {
	connected := h.client != nil && h.client.IsConnected()
	jsAvailable := connected && h.client.JetStreamAvailable(c.Request().Context())

	status := "ok"
	if !connected {
		status = "degraded"
	}

	var brokerURL string
	if h.client != nil {
		brokerURL = redactURL(h.client.URL())
	}

	return c.JSON(http.StatusOK, Status{
		Status:             status,
		App:                h.app.Name,
		Version:            h.app.Version,
		NATSConnected:      connected,
		JetStreamAvailable: jsAvailable,
		NATSURL:            brokerURL,
	})
}

// redactURL strips credentials from a broker URL before exposing it
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.User != nil {
		u.User = nil
	}
	return u.String()
}
