package models

import "time"

// Deliver policies accepted on consumer creation
const (
	DeliverAll         = "all"
	DeliverLast        = "last"
	DeliverNew         = "new"
	DeliverByStartSeq  = "by_start_sequence"
	DeliverByStartTime = "by_start_time"
)

// Ack policies accepted on consumer creation
const (
	AckNone     = "none"
	AckExplicit = "explicit"
	AckAll      = "all"
)

// Inactivity defaults: durable consumers effectively never reap, ephemeral
// consumers reap after five minutes.
const (
	DurableInactiveThreshold   = 365 * 24 * time.Hour
	EphemeralInactiveThreshold = 5 * time.Minute
)

// ConsumerCreateRequest is the JSON body accepted by the consumer create
// endpoint. Unknown fields are rejected at bind time.
type ConsumerCreateRequest struct {
	Name            string     `json:"name,omitempty"`
	Description     string     `json:"description,omitempty"`
	Durable         bool       `json:"durable"`
	FilterSubject   string     `json:"filter_subject,omitempty"`
	DeliverPolicy   string     `json:"deliver_policy,omitempty"`
	OptStartSeq     uint64     `json:"opt_start_seq,omitempty"`
	OptStartTime    *time.Time `json:"opt_start_time,omitempty"`
	AckPolicy       string     `json:"ack_policy,omitempty"`
	AckWaitSeconds  int        `json:"ack_wait_seconds,omitempty"`
	MaxDeliver      int        `json:"max_deliver,omitempty"`
	InactiveSeconds int        `json:"inactive_threshold_seconds,omitempty"`
	MaxAckPending   int        `json:"max_ack_pending,omitempty"`
}

// ConsumerCreateConfig is the validated, defaulted form handed to the broker
type ConsumerCreateConfig struct {
	Name              string
	Description       string
	Durable           bool
	FilterSubject     string
	DeliverPolicy     string
	OptStartSeq       uint64
	OptStartTime      *time.Time
	AckPolicy         string
	AckWait           time.Duration
	MaxDeliver        int
	InactiveThreshold time.Duration
	MaxAckPending     int
}

// ConsumerInfo is the gateway's view of a broker consumer
type ConsumerInfo struct {
	Stream  string               `json:"stream"`
	Name    string               `json:"name"`
	Durable bool                 `json:"durable"`
	Created time.Time            `json:"created"`
	Config  ConsumerCreateConfig `json:"config"`
	State   ConsumerState        `json:"state"`
}

// ConsumerState is the broker's current delivery bookkeeping for a consumer
type ConsumerState struct {
	DeliveredConsumerSeq uint64     `json:"delivered_consumer_seq"`
	DeliveredStreamSeq   uint64     `json:"delivered_stream_seq"`
	AckPending           int        `json:"ack_pending"`
	Redelivered          int        `json:"redelivered"`
	Pending              uint64     `json:"pending"`
	Waiting              int        `json:"waiting"`
	LastDelivery         *time.Time `json:"last_delivery,omitempty"`
}

// Consumer health statuses, first failing predicate wins
const (
	HealthHealthy    = "healthy"
	HealthInactive   = "inactive"
	HealthOverloaded = "overloaded"
	HealthLagging    = "lagging"
)

// ConsumerHealth is the derived health view over a consumer's state
type ConsumerHealth struct {
	Stream  string `json:"stream"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Healthy bool   `json:"healthy"`
	Issue   string `json:"issue,omitempty"`
}

// ConsumerMetrics is one live metrics snapshot for a consumer
type ConsumerMetrics struct {
	Stream       string    `json:"stream"`
	Name         string    `json:"name"`
	Timestamp    time.Time `json:"timestamp"`
	Lag          uint64    `json:"lag"`
	Acknowledged uint64    `json:"acknowledged"`
	Redelivered  int       `json:"redelivered"`
	Pending      uint64    `json:"pending"`
	AckPending   int       `json:"ack_pending"`
}

// MetricsHistory wraps metrics snapshots. Currently a single live sample;
// the shape allows retaining a ring of snapshots without breaking clients.
type MetricsHistory struct {
	Stream    string             `json:"stream"`
	Name      string             `json:"name"`
	Snapshots []*ConsumerMetrics `json:"snapshots"`
}

// Reset modes accepted by the reset endpoint
const (
	ResetModeBeginning    = "reset"
	ResetModeFromSequence = "replay_from_sequence"
	ResetModeFromTime     = "replay_from_time"
)

// ResetRequest is the JSON body accepted by the reset endpoint
type ResetRequest struct {
	Mode      string     `json:"mode"`
	Sequence  uint64     `json:"sequence,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// MessagePreview is a truncated, non-acknowledged look at one pending message
type MessagePreview struct {
	Sequence  uint64    `json:"sequence"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Size      int       `json:"size"`
	Preview   string    `json:"preview"`
}

// PeekResult is the outcome of a non-acknowledging peek at a consumer
type PeekResult struct {
	Stream   string            `json:"stream"`
	Consumer string            `json:"consumer"`
	Count    int               `json:"count"`
	Messages []*MessagePreview `json:"messages"`
}

// ConsumerTemplate is one entry of the static consumer template catalog
type ConsumerTemplate struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	UseCase     string                `json:"use_case"`
	Request     ConsumerCreateRequest `json:"request"`
}
