package bulb

import (
	"encoding/json"
	"fmt"
)

// Command names recognized by the bulb firmware.
const (
	CmdSetPower      = "set_power"
	CmdSetBrightness = "set_brightness"
	CmdSetColor      = "set_color"
	CmdGetStatus     = "get_status"
	CmdPing          = "ping"
)

// Command is a single request datagram. The correlation id ties the eventual
// reply back to this command across the unordered channel.
type Command struct {
	Name   string         `json:"command"`
	ID     string         `json:"id"`
	Params map[string]any `json:"params,omitempty"`
}

// Response is a single reply datagram. ID matches the originating command.
type Response struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
	ID      string         `json:"id"`
}

// encodeCommand serializes a command into a wire datagram.
func encodeCommand(cmd Command) ([]byte, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: empty command name", ErrValidation)
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode command %s: %w", cmd.Name, err)
	}
	return payload, nil
}

// decodeResponse parses a reply datagram. A datagram that is not valid JSON,
// or that carries no correlation id, is not a reply we can route.
func decodeResponse(payload []byte) (Response, error) {
	var resp Response
	if err := json.Unmarshal(payload, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.ID == "" {
		return Response{}, fmt.Errorf("decode response: missing correlation id")
	}
	return resp, nil
}
