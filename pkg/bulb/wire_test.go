package bulb

import (
	"encoding/json"
	"testing"
)

func TestEncodeCommand_Shape(t *testing.T) {
	payload, err := encodeCommand(Command{
		Name:   CmdSetBrightness,
		ID:     "abc12345",
		Params: map[string]any{"brightness": 75},
	})
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["command"] != "set_brightness" {
		t.Errorf("command field = %v", decoded["command"])
	}
	if decoded["id"] != "abc12345" {
		t.Errorf("id field = %v", decoded["id"])
	}
	params, ok := decoded["params"].(map[string]any)
	if !ok || params["brightness"] != float64(75) {
		t.Errorf("params field = %v", decoded["params"])
	}
}

func TestEncodeCommand_OmitsEmptyParams(t *testing.T) {
	payload, err := encodeCommand(Command{Name: CmdPing, ID: "x"})
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if _, present := decoded["params"]; present {
		t.Error("params should be omitted when empty")
	}
}

func TestEncodeCommand_EmptyName(t *testing.T) {
	if _, err := encodeCommand(Command{ID: "x"}); err == nil {
		t.Error("expected error for empty command name")
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := decodeResponse([]byte(`{"success":true,"data":{"power":true},"id":"abc"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.ID != "abc" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Data["power"] != true {
		t.Errorf("data not decoded: %+v", resp.Data)
	}
}

func TestDecodeResponse_Malformed(t *testing.T) {
	if _, err := decodeResponse([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestDecodeResponse_MissingID(t *testing.T) {
	if _, err := decodeResponse([]byte(`{"success":true}`)); err == nil {
		t.Error("expected error for reply without correlation id")
	}
}
