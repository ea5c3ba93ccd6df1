package wire

import "google.golang.org/protobuf/encoding/protowire"

// PublishRequest mirrors jetfront.v1.PublishRequest
type PublishRequest struct {
	MessageID string
	Source    string
	Data      []byte
}

// PublishResponse mirrors jetfront.v1.PublishResponse
type PublishResponse struct {
	Published bool
	Stream    string
	Sequence  uint64
	Subject   string
}

// FetchResponse mirrors jetfront.v1.FetchResponse
type FetchResponse struct {
	Messages []*DataFrame
	Count    int32
	Stream   string
	Subject  string
}

// MarshalPublishRequest encodes a binary publish body
func MarshalPublishRequest(m *PublishRequest) []byte {
	var b []byte
	if m.MessageID != "" {
		b = protowire.AppendTag(b, pubReqFieldMessageID, protowire.BytesType)
		b = protowire.AppendString(b, m.MessageID)
	}
	if m.Source != "" {
		b = protowire.AppendTag(b, pubReqFieldSource, protowire.BytesType)
		b = protowire.AppendString(b, m.Source)
	}
	if len(m.Data) > 0 {
		b = protowire.AppendTag(b, pubReqFieldData, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Data)
	}
	return b
}

// UnmarshalPublishRequest decodes a binary publish body
func UnmarshalPublishRequest(b []byte) (*PublishRequest, error) {
	m := &PublishRequest{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == pubReqFieldMessageID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.MessageID = v
			b = b[n:]
		case num == pubReqFieldSource && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Source = v
			b = b[n:]
		case num == pubReqFieldData && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Data = append([]byte(nil), v...)
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

// MarshalPublishResponse encodes a binary publish acknowledgement
func MarshalPublishResponse(m *PublishResponse) []byte {
	var b []byte
	if m.Published {
		b = protowire.AppendTag(b, pubRespFieldPublished, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	if m.Stream != "" {
		b = protowire.AppendTag(b, pubRespFieldStream, protowire.BytesType)
		b = protowire.AppendString(b, m.Stream)
	}
	if m.Sequence != 0 {
		b = protowire.AppendTag(b, pubRespFieldSequence, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Sequence)
	}
	if m.Subject != "" {
		b = protowire.AppendTag(b, pubRespFieldSubject, protowire.BytesType)
		b = protowire.AppendString(b, m.Subject)
	}
	return b
}

// UnmarshalPublishResponse decodes a binary publish acknowledgement
func UnmarshalPublishResponse(b []byte) (*PublishResponse, error) {
	m := &PublishResponse{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == pubRespFieldPublished && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Published = v != 0
			b = b[n:]
		case num == pubRespFieldStream && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Stream = v
			b = b[n:]
		case num == pubRespFieldSequence && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Sequence = v
			b = b[n:]
		case num == pubRespFieldSubject && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Subject = v
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

// MarshalFetchResponse encodes a binary fetch result
func MarshalFetchResponse(m *FetchResponse) []byte {
	var b []byte
	for _, msg := range m.Messages {
		b = protowire.AppendTag(b, fetchFieldMessages, protowire.BytesType)
		b = protowire.AppendBytes(b, appendDataFrame(nil, msg))
	}
	if m.Count != 0 {
		b = protowire.AppendTag(b, fetchFieldCount, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(m.Count)))
	}
	if m.Stream != "" {
		b = protowire.AppendTag(b, fetchFieldStream, protowire.BytesType)
		b = protowire.AppendString(b, m.Stream)
	}
	if m.Subject != "" {
		b = protowire.AppendTag(b, fetchFieldSubject, protowire.BytesType)
		b = protowire.AppendString(b, m.Subject)
	}
	return b
}

// UnmarshalFetchResponse decodes a binary fetch result
func UnmarshalFetchResponse(b []byte) (*FetchResponse, error) {
	m := &FetchResponse{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, errMalformed
		}
		b = b[n:]

		switch {
		case num == fetchFieldMessages && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, errMalformed
			}
			msg, err := unmarshalDataFrame(v)
			if err != nil {
				return nil, err
			}
			m.Messages = append(m.Messages, msg)
			b = b[n:]
		case num == fetchFieldCount && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Count = int32(v)
			b = b[n:]
		case num == fetchFieldStream && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Stream = v
			b = b[n:]
		case num == fetchFieldSubject && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return nil, errMalformed
			}
			m.Subject = v
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
