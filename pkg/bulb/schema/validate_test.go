package schema

import (
	"encoding/json"
	"testing"
)

func TestValidateState_ValidPayloads(t *testing.T) {
	v := NewValidator()

	valid := []map[string]any{
		{"power": true},
		{"brightness": float64(100)},
		{"brightness": float64(0)},
		{"color": map[string]any{"r": float64(255), "g": float64(0), "b": float64(0)}},
		{
			"power":      false,
			"brightness": float64(50),
			"color":      map[string]any{"r": float64(10), "g": float64(20), "b": float64(30)},
		},
	}
	for _, payload := range valid {
		if err := v.ValidateState(payload); err != nil {
			t.Errorf("payload %v: expected valid, got %v", payload, err)
		}
	}
}

func TestValidateState_InvalidPayloads(t *testing.T) {
	v := NewValidator()

	invalid := []map[string]any{
		{},
		{"power": "on"},
		{"brightness": float64(101)},
		{"brightness": float64(-1)},
		{"color": map[string]any{"r": float64(256), "g": float64(0), "b": float64(0)}},
		{"color": map[string]any{"r": float64(0), "g": float64(0)}},
		{"color": map[string]any{"r": float64(0), "g": float64(0), "b": float64(0), "a": float64(1)}},
		{"hue": float64(120)},
	}
	for _, payload := range invalid {
		if err := v.ValidateState(payload); err == nil {
			t.Errorf("payload %v: expected validation error", payload)
		}
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	v := NewValidator()

	// Empty schema means no validation
	err := v.Validate(json.RawMessage(`{}`), map[string]any{"anything": "goes"})
	if err != nil {
		t.Errorf("empty schema should skip validation, got: %v", err)
	}
	if err := v.Validate(nil, map[string]any{"anything": "goes"}); err != nil {
		t.Errorf("nil schema should skip validation, got: %v", err)
	}
}

func TestValidate_CachesSchema(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateState(map[string]any{"power": true}); err != nil {
		t.Fatal(err)
	}
	if err := v.ValidateState(map[string]any{"power": false}); err != nil {
		t.Fatal(err)
	}

	v.mu.RLock()
	cacheSize := len(v.cache)
	v.mu.RUnlock()
	if cacheSize != 1 {
		t.Errorf("expected 1 cached schema, got %d", cacheSize)
	}
}
