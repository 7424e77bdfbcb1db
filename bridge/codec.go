package bridge

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// frameKind tags the closed set of shapes incoming wire data may take.
type frameKind int

const (
	frameUnrecognized frameKind = iota
	frameResponse
	frameEvent
)

// decoded is the tagged result of classifying one incoming frame. Exactly one
// of response/event is meaningful, selected by kind.
type decoded struct {
	kind     frameKind
	response Response
	event    Event
}

// encodeFrame serializes an outgoing envelope to UTF-8 JSON. It fails only
// for non-serializable payloads, which is a caller error.
func encodeFrame(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// decodeFrame parses and classifies incoming wire data. It accepts raw JSON
// text ([]byte, json.RawMessage, or string) as well as an already-parsed
// object, and never panics: anything that fails to parse or matches neither
// the Response nor the Event shape comes back as frameUnrecognized.
func decodeFrame(data any) decoded {
	var obj map[string]any

	switch d := data.(type) {
	case []byte:
		if err := sonic.Unmarshal(d, &obj); err != nil {
			return decoded{}
		}
	case json.RawMessage:
		if err := sonic.Unmarshal(d, &obj); err != nil {
			return decoded{}
		}
	case string:
		if err := sonic.UnmarshalString(d, &obj); err != nil {
			return decoded{}
		}
	case map[string]any:
		obj = d
	default:
		return decoded{}
	}

	if obj == nil {
		return decoded{}
	}

	// Response shape: string id + boolean success. The field sets of the two
	// shapes are disjoint, but validation stays defensive either way.
	if id, ok := obj["id"].(string); ok {
		if success, ok := obj["success"].(bool); ok {
			errMsg, _ := obj["error"].(string)
			return decoded{
				kind: frameResponse,
				response: Response{
					ID:      id,
					Success: success,
					Data:    obj["data"],
					Error:   errMsg,
				},
			}
		}
	}

	// Event shape: string event name.
	if name, ok := obj["event"].(string); ok {
		return decoded{
			kind:  frameEvent,
			event: Event{Event: name, Data: obj["data"]},
		}
	}

	return decoded{}
}

// DecodeData re-decodes a dynamically typed response payload into a concrete
// struct. Feature wrappers use it to turn the generic wire value into their
// typed result shapes.
func DecodeData(data any, out any) error {
	raw, err := sonic.Marshal(data)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(raw, out)
}
