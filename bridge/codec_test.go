package bridge

import (
	"encoding/json"
	"testing"
)

func TestDecodeFrameClassification(t *testing.T) {
	tests := []struct {
		name string
		data any
		want frameKind
	}{
		{"response", `{"id":"msg_1","success":true,"data":"v"}`, frameResponse},
		{"failed response", `{"id":"msg_1","success":false,"error":"denied"}`, frameResponse},
		{"response without data", `{"id":"msg_1","success":true}`, frameResponse},
		{"event", `{"event":"network.change","data":{"isConnected":false}}`, frameEvent},
		{"event without data", `{"event":"push.message"}`, frameEvent},
		{"non-string id", `{"id":42,"success":true}`, frameUnrecognized},
		{"non-bool success", `{"id":"msg_1","success":"yes"}`, frameUnrecognized},
		{"non-string event", `{"event":7}`, frameUnrecognized},
		{"empty object", `{}`, frameUnrecognized},
		{"null", `null`, frameUnrecognized},
		{"array", `[1,2,3]`, frameUnrecognized},
		{"scalar", `"hello"`, frameUnrecognized},
		{"malformed json", `{"id":"msg_1",`, frameUnrecognized},
		{"empty string", ``, frameUnrecognized},
		{"unsupported input type", 12, frameUnrecognized},
		{"nil input", nil, frameUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decodeFrame(tt.data)
			if d.kind != tt.want {
				t.Errorf("decodeFrame(%v) kind = %v, want %v", tt.data, d.kind, tt.want)
			}
		})
	}
}

func TestDecodeFrameInputForms(t *testing.T) {
	raw := `{"id":"msg_abc","success":true,"data":"payload"}`

	inputs := []any{
		raw,
		[]byte(raw),
		json.RawMessage(raw),
		map[string]any{"id": "msg_abc", "success": true, "data": "payload"},
	}

	for _, in := range inputs {
		d := decodeFrame(in)
		if d.kind != frameResponse {
			t.Fatalf("expected response for %T input, got %v", in, d.kind)
		}
		if d.response.ID != "msg_abc" || !d.response.Success {
			t.Errorf("bad response fields: %+v", d.response)
		}
		if d.response.Data != "payload" {
			t.Errorf("data = %v, want payload", d.response.Data)
		}
	}
}

func TestDecodeFrameResponseFields(t *testing.T) {
	d := decodeFrame(`{"id":"msg_1","success":false,"error":"camera unavailable"}`)
	if d.kind != frameResponse {
		t.Fatalf("expected response, got %v", d.kind)
	}
	if d.response.Error != "camera unavailable" {
		t.Errorf("error message = %q", d.response.Error)
	}
	if d.response.Data != nil {
		t.Errorf("data should be nil, got %v", d.response.Data)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	frame, err := encodeFrame(Request{ID: "msg_1", Type: "storage.set", Payload: map[string]any{"key": "k"}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var req Request
	if err := DecodeData(json.RawMessage(frame), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if req.ID != "msg_1" || req.Type != "storage.set" {
		t.Errorf("round trip mismatch: %+v", req)
	}
}

func TestDecodeDataIntoStruct(t *testing.T) {
	type position struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}

	var pos position
	err := DecodeData(map[string]any{"latitude": 40.7, "longitude": -74.0}, &pos)
	if err != nil {
		t.Fatalf("DecodeData failed: %v", err)
	}
	if pos.Latitude != 40.7 || pos.Longitude != -74.0 {
		t.Errorf("bad decode: %+v", pos)
	}
}
