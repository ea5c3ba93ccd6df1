// Package websocket pushes live stream sessions to WebSocket peers as
// framed binary records.
package websocket

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/jetfront/jetfront/internal/pkg/logger"
	"github.com/jetfront/jetfront/internal/pkg/wire"
	"github.com/jetfront/jetfront/internal/utils"
	"github.com/jetfront/jetfront/services/gateway"
)

const writeTimeout = 10 * time.Second

// StreamHandler upgrades HTTP requests into live binary message streams
type StreamHandler struct {
	gatewayUC gateway.GatewayUC
	keepalive time.Duration

	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new WebSocket stream handler
func NewStreamHandler(gatewayUC gateway.GatewayUC, keepalive time.Duration) *StreamHandler {
	if keepalive <= 0 {
		keepalive = 30 * time.Second
	}
	return &StreamHandler{
		gatewayUC: gatewayUC,
		keepalive: keepalive,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The bearer gate has already run; origin checks add nothing
			// for token-authenticated programmatic clients.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// StreamByFilter streams messages matching a subject filter through a
// session-owned ephemeral consumer.
func (h *StreamHandler) StreamByFilter(c echo.Context) error {
	filter := c.Param("subject")

	// The session opens before the upgrade so resolution failures surface
	// as plain HTTP statuses on the handshake response.
	sess, err := h.gatewayUC.OpenFilterStream(c.Request().Context(), filter)
	if err != nil {
		return openError(c, err)
	}

	return h.serve(c, sess)
}

// StreamFromConsumer streams messages through an existing named consumer
func (h *StreamHandler) StreamFromConsumer(c echo.Context) error {
	stream := c.Param("subject")
	name := c.Param("name")

	sess, err := h.gatewayUC.OpenConsumerStream(c.Request().Context(), stream, name)
	if err != nil {
		return openError(c, err)
	}

	return h.serve(c, sess)
}

// openError maps a session-open failure onto a plain HTTP handshake response
func openError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gateway.ErrBadRequest):
		return utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, gateway.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	default:
		return utils.InternalServerErrorResponse(c, err.Error())
	}
}

// serve upgrades the connection and pumps the session until either side
// goes away. The select loop is the sole writer on the socket.
func (h *StreamHandler) serve(c echo.Context, sess *gateway.StreamSession) error {
	defer sess.Close()

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake failure response
		return nil
	}
	defer conn.Close()

	logger.Info("WebSocket stream connected",
		logger.String("label", sess.Label),
		logger.String("client_ip", c.RealIP()))

	if err := h.writeFrame(conn, &wire.Frame{Control: &wire.ControlFrame{
		Type:    wire.ControlSubscribeAck,
		Message: sess.Label,
	}}); err != nil {
		return nil
	}

	// Reads are discarded; the pump only needs to learn when the peer
	// closes or the connection dies.
	peerGone := make(chan struct{})
	go func() {
		defer close(peerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Keepalives only fill silence; the timer rearms after every data frame
	idle := time.NewTimer(h.keepalive)
	defer idle.Stop()

	for {
		select {
		case item := <-sess.Items:
			frame := &wire.Frame{Data: &wire.DataFrame{
				Subject:        item.Msg.Subject,
				StreamSequence: item.Msg.Sequence,
				Timestamp:      item.Msg.Timestamp.UTC().Format(time.RFC3339Nano),
				Payload:        item.Msg.Payload,
				PayloadSize:    int64(item.Msg.Size()),
			}}
			if err := h.writeFrame(conn, frame); err != nil {
				logger.Info("WebSocket peer write failed, closing stream",
					logger.String("label", sess.Label),
					logger.ErrorField(err))
				return nil
			}
			// Acknowledge only after the frame reached the socket; an
			// unacked message redelivers to the consumer's next reader.
			if item.Ack != nil {
				if err := item.Ack(); err != nil {
					logger.Warn("Failed to acknowledge streamed message",
						logger.String("label", sess.Label),
						logger.Uint64("sequence", item.Msg.Sequence),
						logger.ErrorField(err))
				}
			}
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(h.keepalive)

		case err := <-sess.Errs:
			logger.Error("Broker error on stream session",
				logger.String("label", sess.Label),
				logger.ErrorField(err))
			_ = h.writeFrame(conn, &wire.Frame{Control: &wire.ControlFrame{
				Type:    wire.ControlError,
				Message: err.Error(),
			}})
			return nil

		case <-idle.C:
			if err := h.writeFrame(conn, &wire.Frame{Control: &wire.ControlFrame{
				Type: wire.ControlKeepalive,
			}}); err != nil {
				return nil
			}
			idle.Reset(h.keepalive)

		case <-peerGone:
			logger.Info("WebSocket peer disconnected",
				logger.String("label", sess.Label))
			return nil

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func (h *StreamHandler) writeFrame(conn *websocket.Conn, f *wire.Frame) error {
	b, err := wire.MarshalFrame(f)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.BinaryMessage, b)
}
