package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/utils"
	"github.com/jetfront/jetfront/services/gateway"
)

// GatewayHandler handles HTTP requests for gateway operations
type GatewayHandler struct {
	gatewayUC gateway.GatewayUC
}

// NewGatewayHandler creates a new gateway HTTP handler
func NewGatewayHandler(gatewayUC gateway.GatewayUC) *GatewayHandler {
	return &GatewayHandler{gatewayUC: gatewayUC}
}

// errorResponse maps a gateway error kind onto its HTTP status. Anything
// outside the known kinds is a broker-side failure and surfaces as 500.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrBadRequest):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, gateway.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, gateway.ErrConflict):
		return utils.ConflictResponse(c, err.Error())
	default:
		return utils.InternalServerErrorResponse(c, err.Error())
	}
}

// messageView is the JSON rendering of one fetched message. JSON payloads
// come back under data; anything else is base64 under data_base64.
type messageView struct {
	Subject    string          `json:"subject"`
	Sequence   uint64          `json:"sequence"`
	Timestamp  time.Time       `json:"timestamp"`
	Size       int             `json:"size"`
	Data       json.RawMessage `json:"data,omitempty"`
	DataBase64 string          `json:"data_base64,omitempty"`
}

// fetchView is the JSON rendering of a fetch result
type fetchView struct {
	Messages []messageView `json:"messages"`
	Count    int           `json:"count"`
	Stream   string        `json:"stream"`
	Subject  string        `json:"subject,omitempty"`
}

func toFetchView(res *models.FetchResult) fetchView {
	out := fetchView{
		Messages: make([]messageView, 0, len(res.Messages)),
		Count:    res.Count,
		Stream:   res.Stream,
		Subject:  res.Subject,
	}
	for _, m := range res.Messages {
		v := messageView{
			Subject:   m.Subject,
			Sequence:  m.Sequence,
			Timestamp: m.Timestamp,
			Size:      m.Size(),
		}
		if json.Valid(m.Payload) {
			v.Data = json.RawMessage(m.Payload)
		} else {
			v.DataBase64 = base64.StdEncoding.EncodeToString(m.Payload)
		}
		out.Messages = append(out.Messages, v)
	}
	return out
}
