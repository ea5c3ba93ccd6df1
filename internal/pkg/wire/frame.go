// Package wire implements the binary envelope defined in proto/gateway.proto.
// Messages are encoded directly with the protobuf wire format so any protobuf
// library can decode them from the schema file; the field numbers here must
// stay in lockstep with the .proto definitions.
package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ControlType enumerates the control frame variants
type ControlType int32

const (
	ControlUnspecified  ControlType = 0
	ControlSubscribeAck ControlType = 1
	ControlError        ControlType = 2
	ControlKeepalive    ControlType = 3
)

// String returns the schema name of the control type
func (t ControlType) String() string {
	switch t {
	case ControlSubscribeAck:
		return "SUBSCRIBE_ACK"
	case ControlError:
		return "ERROR"
	case ControlKeepalive:
		return "KEEPALIVE"
	default:
		return "CONTROL_TYPE_UNSPECIFIED"
	}
}

// DataFrame mirrors jetfront.v1.StreamMessage
type DataFrame struct {
	Subject        string
	StreamSequence uint64
	Timestamp      string
	Payload        []byte
	PayloadSize    int64
}

// ControlFrame mirrors jetfront.v1.StreamControl
type ControlFrame struct {
	Type    ControlType
	Message string
}

// Frame mirrors jetfront.v1.StreamFrame; exactly one variant is set
type Frame struct {
	Data    *DataFrame
	Control *ControlFrame
}

var errMalformed = errors.New("malformed frame")

// Field numbers from proto/gateway.proto
const (
	frameFieldMessage = 1
	frameFieldControl = 2

	msgFieldSubject   = 1
	msgFieldSequence  = 2
	msgFieldTimestamp = 3
	msgFieldPayload   = 4
	msgFieldSize      = 5

	ctrlFieldType    = 1
	ctrlFieldMessage = 2

	pubReqFieldMessageID = 1
	pubReqFieldSource    = 2
	pubReqFieldData      = 3

	pubRespFieldPublished = 1
	pubRespFieldStream    = 2
	pubRespFieldSequence  = 3
	pubRespFieldSubject   = 4

	fetchFieldMessages = 1
	fetchFieldCount    = 2
	fetchFieldStream   = 3
	fetchFieldSubject  = 4
)

// MarshalFrame encodes a stream frame
func MarshalFrame(f *Frame) ([]byte, error) {
	switch {
	case f.Data != nil && f.Control == nil:
		return protowire.AppendBytes(
			protowire.AppendTag(nil, frameFieldMessage, protowire.BytesType),
			appendDataFrame(nil, f.Data),
		), nil
	case f.Control != nil && f.Data == nil:
		return protowire.AppendBytes(
			protowire.AppendTag(nil, frameFieldControl, protowire.BytesType),
			appendControlFrame(nil, f.Control),
		), nil
	default:
		return nil, errors.New("frame must carry exactly one of data or control")
	}
}

// UnmarshalFrame decodes a stream frame
func UnmarshalFrame(b []byte) (*Frame, error) {
	f := &Frame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == frameFieldMessage && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errMalformed
			}
			data, err := unmarshalDataFrame(v)
			if err != nil {
				return nil, err
			}
			f.Data = data
			b = b[n:]
		case num == frameFieldControl && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errMalformed
			}
			ctrl, err := unmarshalControlFrame(v)
			if err != nil {
				return nil, err
			}
			f.Control = ctrl
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errMalformed
			}
			b = b[n:]
		}
	}
	if (f.Data == nil) == (f.Control == nil) {
		return nil, fmt.Errorf("frame must carry exactly one variant: %w", errMalformed)
	}
	return f, nil
}

func appendDataFrame(b []byte, m *DataFrame) []byte {
	if m.Subject != "" {
		b = protowire.AppendTag(b, msgFieldSubject, protowire.BytesType)
		b = protowire.AppendString(b, m.Subject)
	}
	if m.StreamSequence != 0 {
		b = protowire.AppendTag(b, msgFieldSequence, protowire.VarintType)
		b = protowire.AppendVarint(b, m.StreamSequence)
	}
	if m.Timestamp != "" {
		b = protowire.AppendTag(b, msgFieldTimestamp, protowire.BytesType)
		b = protowire.AppendString(b, m.Timestamp)
	}
	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, msgFieldPayload, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}
	if m.PayloadSize != 0 {
		b = protowire.AppendTag(b, msgFieldSize, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.PayloadSize))
	}
	return b
}

func unmarshalDataFrame(b []byte) (*DataFrame, error) {
	m := &DataFrame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == msgFieldSubject && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Subject = v
			b = b[n:]
		case num == msgFieldSequence && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.StreamSequence = v
			b = b[n:]
		case num == msgFieldTimestamp && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Timestamp = v
			b = b[n:]
		case num == msgFieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Payload = append([]byte(nil), v...)
			b = b[n:]
		case num == msgFieldSize && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.PayloadSize = int64(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errMalformed
			}
			b = b[n:]
		}
	}
	return m, nil
}

func appendControlFrame(b []byte, m *ControlFrame) []byte {
	if m.Type != ControlUnspecified {
		b = protowire.AppendTag(b, ctrlFieldType, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.Type))
	}
	if m.Message != "" {
		b = protowire.AppendTag(b, ctrlFieldMessage, protowire.BytesType)
		b = protowire.AppendString(b, m.Message)
	}
	return b
}

func unmarshalControlFrame(b []byte) (*ControlFrame, error) {
	m := &ControlFrame{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == ctrlFieldType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Type = ControlType(v)
			b = b[n:]
		case num == ctrlFieldMessage && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Message = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, errMalformed
			}
			b = b[n:]
		}
	}
	return m, nil
}
