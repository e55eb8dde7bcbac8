// Package schema validates composite bulb-state payloads against JSON Schema.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// StateSchema describes the settable bulb state accepted by the composite
// set-state surface: any subset of power, brightness and color.
const StateSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"power": {"type": "boolean"},
		"brightness": {"type": "number", "minimum": 0, "maximum": 100},
		"color": {
			"type": "object",
			"properties": {
				"r": {"type": "number", "minimum": 0, "maximum": 255},
				"g": {"type": "number", "minimum": 0, "maximum": 255},
				"b": {"type": "number", "minimum": 0, "maximum": 255}
			},
			"required": ["r", "g", "b"],
			"additionalProperties": false
		}
	},
	"additionalProperties": false,
	"minProperties": 1
}`

// Validator validates JSON payloads against JSON Schema documents.
// Compiled schemas are cached keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{cache: make(map[string]*jsonschema.Schema)}
}

// ValidateState validates a bulb state payload against StateSchema.
func (v *Validator) ValidateState(payload map[string]any) error {
	return v.Validate(json.RawMessage(StateSchema), payload)
}

// Validate validates payload against the given JSON Schema document.
// An empty or null schema means no validation.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload map[string]any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	return compiled.Validate(payload)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	// Double-check after acquiring write lock
	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("failed to add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}
