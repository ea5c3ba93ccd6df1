package models

import "time"

// StreamInfo is the gateway's view of a broker stream: configuration plus
// current state counters.
type StreamInfo struct {
	Name      string    `json:"name"`
	Subjects  []string  `json:"subjects"`
	Created   time.Time `json:"created"`
	Retention string    `json:"retention"`
	Storage   string    `json:"storage"`
	Replicas  int       `json:"replicas"`

	MaxMsgs  int64         `json:"max_msgs"`
	MaxBytes int64         `json:"max_bytes"`
	MaxAge   time.Duration `json:"max_age"`

	Messages  uint64 `json:"messages"`
	Bytes     uint64 `json:"bytes"`
	FirstSeq  uint64 `json:"first_seq"`
	LastSeq   uint64 `json:"last_seq"`
	Consumers int    `json:"consumers"`
}

// StreamCreateConfig carries the parameters for stream creation
type StreamCreateConfig struct {
	Name     string
	Subjects []string
	MaxMsgs  int64
	MaxBytes int64
	MaxAge   time.Duration
	Replicas int
}

// SubjectDistribution reports per-subject message counts within one stream
type SubjectDistribution struct {
	Stream   string            `json:"stream"`
	Patterns []string          `json:"patterns"`
	Subjects map[string]uint64 `json:"subjects"`
	Total    uint64            `json:"total_messages"`
}
