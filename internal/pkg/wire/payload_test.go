package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishBodyRoundTrip(t *testing.T) {
	req := &PublishRequest{
		MessageID: "msg-1",
		Source:    "billing",
		Data:      []byte(`{"amount":99.99}`),
	}

	out, err := UnmarshalPublishRequest(MarshalPublishRequest(req))
	require.NoError(t, err)
	assert.Equal(t, req, out)

	resp := &PublishResponse{Published: true, Stream: "events", Sequence: 9, Subject: "events.orders"}
	rt, err := UnmarshalPublishResponse(MarshalPublishResponse(resp))
	require.NoError(t, err)
	assert.Equal(t, resp, rt)
}

func TestFetchResponseRoundTrip(t *testing.T) {
	in := &FetchResponse{
		Messages: []*DataFrame{
			{Subject: "events.a", StreamSequence: 1, Payload: []byte("one")},
			{Subject: "events.b", StreamSequence: 2, Payload: []byte("two")},
		},
		Count:   2,
		Stream:  "events",
		Subject: "events.>",
	}

	out, err := UnmarshalFetchResponse(MarshalFetchResponse(in))
	require.NoError(t, err)
	require.Len(t, out.Messages, 2)
	assert.Equal(t, in.Messages[0].Subject, out.Messages[0].Subject)
	assert.Equal(t, in.Messages[1].StreamSequence, out.Messages[1].StreamSequence)
	assert.Equal(t, in.Count, out.Count)
	assert.Equal(t, in.Stream, out.Stream)
}

func TestUnmarshalPublishRequest_Malformed(t *testing.T) {
	_, err := UnmarshalPublishRequest([]byte{0x0a, 0xff})
	assert.Error(t, err)
}
