package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetfront/jetfront/internal/pkg/models"
	"github.com/jetfront/jetfront/services/gateway"
)

func TestOpenFilterStream(t *testing.T) {
	var delivered func(*models.Message, func() error)
	stopped := false

	gw := &fakeBroker{
		consumeFn: func(_ context.Context, _, _ string, handler func(*models.Message, func() error), _ func(error)) (func(), error) {
			delivered = handler
			return func() { stopped = true }, nil
		},
	}
	uc := newTestUC(gw)

	sess, err := uc.OpenFilterStream(context.Background(), "events.>")
	require.NoError(t, err)
	require.True(t, sess.Ephemeral)
	assert.Equal(t, "events.>", sess.Label)

	// The session owns a fresh ephemeral: new messages only, no acks
	require.Len(t, gw.createConsumerCalls, 1)
	cons := gw.createConsumerCalls[0]
	assert.Equal(t, models.DeliverNew, cons.DeliverPolicy)
	assert.Equal(t, models.AckNone, cons.AckPolicy)
	assert.Equal(t, "events.>", cons.FilterSubject)
	assert.Equal(t, models.EphemeralInactiveThreshold, cons.InactiveThreshold)

	delivered(&models.Message{Subject: "events.a", Sequence: 1}, nil)
	select {
	case item := <-sess.Items:
		assert.Equal(t, "events.a", item.Msg.Subject)
		assert.Nil(t, item.Ack, "ack-none sessions carry no ack callback")
	case <-time.After(time.Second):
		t.Fatal("message did not reach the session channel")
	}

	sess.Close()
	assert.True(t, stopped, "close must stop the broker subscription")
	assert.Len(t, gw.deletedConsumers, 1, "close must delete the ephemeral consumer")

	// Close is idempotent
	sess.Close()
	assert.Len(t, gw.deletedConsumers, 1)
}

func TestOpenConsumerStream(t *testing.T) {
	t.Run("missing consumer", func(t *testing.T) {
		uc := newTestUC(&fakeBroker{})
		_, err := uc.OpenConsumerStream(context.Background(), "events", "nope")
		assert.ErrorIs(t, err, gateway.ErrNotFound)
	})

	t.Run("explicit ack consumer carries ack callback", func(t *testing.T) {
		var delivered func(*models.Message, func() error)
		gw := &fakeBroker{
			getConsumerInfoFn: func(_ context.Context, stream, name string) (*models.ConsumerInfo, error) {
				return &models.ConsumerInfo{
					Stream: stream,
					Name:   name,
					Config: models.ConsumerCreateConfig{AckPolicy: models.AckExplicit},
				}, nil
			},
			consumeFn: func(_ context.Context, _, _ string, handler func(*models.Message, func() error), _ func(error)) (func(), error) {
				delivered = handler
				return func() {}, nil
			},
		}
		uc := newTestUC(gw)

		sess, err := uc.OpenConsumerStream(context.Background(), "events", "worker")
		require.NoError(t, err)
		defer sess.Close()
		assert.False(t, sess.Ephemeral)
		assert.Equal(t, "events/worker", sess.Label)

		acked := false
		delivered(&models.Message{Subject: "events.a", Sequence: 1}, func() error {
			acked = true
			return nil
		})

		select {
		case item := <-sess.Items:
			require.NotNil(t, item.Ack)
			require.NoError(t, item.Ack())
			assert.True(t, acked)
		case <-time.After(time.Second):
			t.Fatal("message did not reach the session channel")
		}

		// A named consumer survives session close
		sess.Close()
		assert.Empty(t, gw.deletedConsumers)
	})
}

func TestStreamSession_BrokerErrorSurfaces(t *testing.T) {
	var reportErr func(error)
	gw := &fakeBroker{
		consumeFn: func(_ context.Context, _, _ string, _ func(*models.Message, func() error), onErr func(error)) (func(), error) {
			reportErr = onErr
			return func() {}, nil
		},
	}
	uc := newTestUC(gw)

	sess, err := uc.OpenFilterStream(context.Background(), "events.>")
	require.NoError(t, err)
	defer sess.Close()

	brokerErr := errors.New("consumer deleted")
	reportErr(brokerErr)

	select {
	case got := <-sess.Errs:
		assert.Equal(t, brokerErr, got)
	case <-time.After(time.Second):
		t.Fatal("broker error did not reach the session channel")
	}
}

func TestOpenFilterStream_ConsumeFailureCleansUp(t *testing.T) {
	gw := &fakeBroker{
		consumeFn: func(context.Context, string, string, func(*models.Message, func() error), func(error)) (func(), error) {
			return nil, errors.New("subscription rejected")
		},
	}
	uc := newTestUC(gw)

	_, err := uc.OpenFilterStream(context.Background(), "events.>")
	require.Error(t, err)
	assert.Len(t, gw.deletedConsumers, 1, "the orphaned ephemeral must be deleted")
}
