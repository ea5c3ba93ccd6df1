package models

import (
	"encoding/json"
	"time"
)

// Message is one record read from a stream. The payload is carried as raw
// bytes at the core; handlers produce a typed view for JSON responses.
type Message struct {
	Subject   string
	Sequence  uint64
	Timestamp time.Time
	Payload   []byte
}

// Size returns the payload length in bytes
func (m *Message) Size() int {
	return len(m.Payload)
}

// PublishRequest is the JSON body accepted by the publish endpoint
type PublishRequest struct {
	MessageID string          `json:"message_id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// PublishResult describes a successfully persisted publish
type PublishResult struct {
	Published bool   `json:"published"`
	Stream    string `json:"stream"`
	Sequence  uint64 `json:"sequence"`
	Subject   string `json:"subject"`
	MessageID string `json:"message_id,omitempty"`
}

// FetchResult is the outcome of a fetch, via either an ephemeral consumer
// on a subject filter or an existing durable consumer.
type FetchResult struct {
	Messages []*Message
	Count    int
	Stream   string
	Subject  string
}
