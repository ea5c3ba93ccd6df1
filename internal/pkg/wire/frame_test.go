package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalFrame_FixedEncoding(t *testing.T) {
	// Byte-exact vectors pin the field numbers to proto/gateway.proto;
	// any drift breaks decoders built from the schema file.
	t.Run("keepalive control frame", func(t *testing.T) {
		b, err := MarshalFrame(&Frame{Control: &ControlFrame{Type: ControlKeepalive}})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x12, 0x02, 0x08, 0x03}, b)
	})

	t.Run("minimal data frame", func(t *testing.T) {
		b, err := MarshalFrame(&Frame{Data: &DataFrame{Subject: "a", StreamSequence: 7}})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x0a, 0x05, 0x0a, 0x01, 0x61, 0x10, 0x07}, b)
	})
}

func TestFrameRoundTrip(t *testing.T) {
	t.Run("data frame", func(t *testing.T) {
		in := &Frame{Data: &DataFrame{
			Subject:        "events.orders",
			StreamSequence: 1042,
			Timestamp:      "2025-06-01T12:00:00.000000001Z",
			Payload:        []byte(`{"orderId":123}`),
			PayloadSize:    15,
		}}

		b, err := MarshalFrame(in)
		require.NoError(t, err)

		out, err := UnmarshalFrame(b)
		require.NoError(t, err)
		require.NotNil(t, out.Data)
		assert.Nil(t, out.Control)
		assert.Equal(t, in.Data, out.Data)
	})

	t.Run("error control frame", func(t *testing.T) {
		in := &Frame{Control: &ControlFrame{Type: ControlError, Message: "consumer deleted"}}

		b, err := MarshalFrame(in)
		require.NoError(t, err)

		out, err := UnmarshalFrame(b)
		require.NoError(t, err)
		require.NotNil(t, out.Control)
		assert.Equal(t, ControlError, out.Control.Type)
		assert.Equal(t, "consumer deleted", out.Control.Message)
	})

	t.Run("binary payload survives", func(t *testing.T) {
		payload := []byte{0x00, 0xff, 0x80, 0x01}
		in := &Frame{Data: &DataFrame{Subject: "x", Payload: payload}}

		b, err := MarshalFrame(in)
		require.NoError(t, err)

		out, err := UnmarshalFrame(b)
		require.NoError(t, err)
		assert.Equal(t, payload, out.Data.Payload)
	})
}

func TestMarshalFrame_VariantExclusivity(t *testing.T) {
	t.Run("both variants rejected", func(t *testing.T) {
		_, err := MarshalFrame(&Frame{
			Data:    &DataFrame{Subject: "a"},
			Control: &ControlFrame{Type: ControlKeepalive},
		})
		assert.Error(t, err)
	})

	t.Run("empty frame rejected", func(t *testing.T) {
		_, err := MarshalFrame(&Frame{})
		assert.Error(t, err)
	})
}

func TestUnmarshalFrame_Malformed(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
	}{
		{name: "truncated tag", b: []byte{0x80}},
		{name: "truncated length prefix", b: []byte{0x0a, 0x10, 0x01}},
		{name: "empty input", b: nil},
		{name: "no variant set", b: []byte{0x18, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalFrame(tt.b)
			assert.Error(t, err)
		})
	}
}

func TestUnmarshalFrame_SkipsUnknownFields(t *testing.T) {
	b, err := MarshalFrame(&Frame{Data: &DataFrame{Subject: "a", StreamSequence: 7}})
	require.NoError(t, err)

	// Trailing unknown varint field survives decoding
	b = append(b, 0x28, 0x01)

	out, err := UnmarshalFrame(b)
	require.NoError(t, err)
	assert.Equal(t, "a", out.Data.Subject)
	assert.Equal(t, uint64(7), out.Data.StreamSequence)
}

func TestControlTypeString(t *testing.T) {
	assert.Equal(t, "SUBSCRIBE_ACK", ControlSubscribeAck.String())
	assert.Equal(t, "ERROR", ControlError.String())
	assert.Equal(t, "KEEPALIVE", ControlKeepalive.String())
	assert.Equal(t, "CONTROL_TYPE_UNSPECIFIED", ControlUnspecified.String())
}
