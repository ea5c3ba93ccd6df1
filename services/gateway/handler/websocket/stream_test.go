package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/internal/pkg/wire"
	"github.com/jetfront/jetfront/services/gateway"
)

// streamUC stubs only the session-opening surface; the embedded interface
// panics on anything else, which no streaming path should reach.
type streamUC struct {
	gateway.GatewayUC

	openFilterFn   func(ctx context.Context, filter string) (*gateway.StreamSession, error)
	openConsumerFn func(ctx context.Context, stream, name string) (*gateway.StreamSession, error)
}

func (s *streamUC) OpenFilterStream(ctx context.Context, filter string) (*gateway.StreamSession, error) {
	return s.openFilterFn(ctx, filter)
}

func (s *streamUC) OpenConsumerStream(ctx context.Context, stream, name string) (*gateway.StreamSession, error) {
	return s.openConsumerFn(ctx, stream, name)
}

func newStreamServer(t *testing.T, uc gateway.GatewayUC, keepalive time.Duration) string {
	t.Helper()

	e := echo.New()
	h := NewStreamHandler(uc, keepalive)
	e.GET("/ws/websocketmessages/:subject", h.StreamByFilter)
	e.GET("/ws/websocketmessages/:subject/consumer/:name", h.StreamFromConsumer)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialStream(t *testing.T, url string) *gws.Conn {
	t.Helper()

	conn, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *gws.Conn, within time.Duration) *wire.Frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(within)))
	msgType, b, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, gws.BinaryMessage, msgType)

	f, err := wire.UnmarshalFrame(b)
	require.NoError(t, err)
	return f
}

func TestStreamByFilter_AckFirstThenData(t *testing.T) {
	items := make(chan gateway.StreamItem, 1)
	var acked atomic.Int32

	uc := &streamUC{
		openFilterFn: func(_ context.Context, filter string) (*gateway.StreamSession, error) {
			assert.Equal(t, "events.orders", filter)
			return &gateway.StreamSession{
				Label: filter,
				Items: items,
				Errs:  make(chan error),
			}, nil
		},
	}
	conn := dialStream(t, newStreamServer(t, uc, time.Minute)+"/ws/websocketmessages/events.orders")

	ack := readFrame(t, conn, 2*time.Second)
	require.NotNil(t, ack.Control)
	assert.Equal(t, wire.ControlSubscribeAck, ack.Control.Type)
	assert.Equal(t, "events.orders", ack.Control.Message)

	items <- gateway.StreamItem{
		Msg: &models.Message{
			Subject:   "events.orders",
			Sequence:  7,
			Timestamp: time.Now(),
			Payload:   []byte(`{"id":1}`),
		},
		Ack: func() error { acked.Add(1); return nil },
	}

	data := readFrame(t, conn, 2*time.Second)
	require.NotNil(t, data.Data)
	assert.Equal(t, "events.orders", data.Data.Subject)
	assert.Equal(t, uint64(7), data.Data.StreamSequence)
	assert.Equal(t, []byte(`{"id":1}`), data.Data.Payload)

	assert.Eventually(t, func() bool { return acked.Load() == 1 },
		time.Second, 10*time.Millisecond, "message must be acknowledged after the write")
}

func TestServe_KeepaliveOnlyWhenIdle(t *testing.T) {
	const keepalive = 250 * time.Millisecond

	items := make(chan gateway.StreamItem)
	uc := &streamUC{
		openFilterFn: func(_ context.Context, filter string) (*gateway.StreamSession, error) {
			return &gateway.StreamSession{Label: filter, Items: items, Errs: make(chan error)}, nil
		},
	}
	conn := dialStream(t, newStreamServer(t, uc, keepalive)+"/ws/websocketmessages/events.orders")
	readFrame(t, conn, 2*time.Second)

	// Steady traffic for longer than the keepalive window, each gap well
	// inside it. The timer rearms on every data frame, so no keepalive may
	// interleave.
	const sends = 8
	go func() {
		for i := 0; i < sends; i++ {
			items <- gateway.StreamItem{Msg: &models.Message{
				Subject:   "events.orders",
				Sequence:  uint64(i + 1),
				Timestamp: time.Now(),
				Payload:   []byte("x"),
			}}
			time.Sleep(keepalive / 5)
		}
	}()
	for i := 0; i < sends; i++ {
		f := readFrame(t, conn, 2*time.Second)
		require.NotNil(t, f.Data, "frame %d: busy streams must carry data only", i)
		assert.Equal(t, uint64(i+1), f.Data.StreamSequence)
	}

	// Silence brings the keepalive back
	f := readFrame(t, conn, 4*keepalive)
	require.NotNil(t, f.Control)
	assert.Equal(t, wire.ControlKeepalive, f.Control.Type)
}

func TestServe_BrokerErrorFrameThenClose(t *testing.T) {
	errs := make(chan error, 1)
	uc := &streamUC{
		openFilterFn: func(_ context.Context, filter string) (*gateway.StreamSession, error) {
			return &gateway.StreamSession{Label: filter, Items: make(chan gateway.StreamItem), Errs: errs}, nil
		},
	}
	conn := dialStream(t, newStreamServer(t, uc, time.Minute)+"/ws/websocketmessages/events.orders")
	readFrame(t, conn, 2*time.Second)

	errs <- errors.New("consumer was deleted")

	f := readFrame(t, conn, 2*time.Second)
	require.NotNil(t, f.Control)
	assert.Equal(t, wire.ControlError, f.Control.Type)
	assert.Contains(t, f.Control.Message, "consumer was deleted")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "the session ends after the error frame")
}

func TestStream_OpenFailuresAreHandshakeStatuses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "unknown consumer", err: gateway.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "bad filter", err: gateway.ErrBadRequest, wantCode: http.StatusBadRequest},
		{name: "broker down", err: errors.New("connection refused"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &streamUC{
				openConsumerFn: func(context.Context, string, string) (*gateway.StreamSession, error) {
					return nil, tt.err
				},
			}
			url := newStreamServer(t, uc, time.Minute) + "/ws/websocketmessages/events/consumer/worker"

			conn, resp, err := gws.DefaultDialer.Dial(url, nil)
			require.ErrorIs(t, err, gws.ErrBadHandshake)
			require.NotNil(t, resp)
			defer resp.Body.Close()
			assert.Nil(t, conn)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}
}
