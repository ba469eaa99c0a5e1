package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pointSchema = &Schema{
	Name: "test-point",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"x": map[string]any{"type": "integer"},
			"y": map[string]any{"type": "integer"},
		},
		"required":             []string{"x", "y"},
		"additionalProperties": false,
	},
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"x":1,"y":2}`, false},
		{"missing field", `{"x":1}`, true},
		{"wrong type", `{"x":"1","y":2}`, true},
		{"extra field", `{"x":1,"y":2,"z":3}`, true},
		{"not json", `{"x":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(pointSchema, json.RawMessage(tt.raw))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var inv *ErrInvalidResponse
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, tt.raw, string(inv.Content))
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage(`not json`)))
}

func TestMockProvider_FallbackIsValidated(t *testing.T) {
	mock := NewMockProvider()
	mock.Fallback = func(Request) (json.RawMessage, error) {
		return json.RawMessage(`{"x":1}`), nil
	}

	_, err := mock.Generate(context.Background(), Request{Schema: pointSchema})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)

	mock.Fallback = func(Request) (json.RawMessage, error) {
		return json.RawMessage(`{"x":1,"y":2}`), nil
	}
	resp, err := mock.Generate(context.Background(), Request{Schema: pointSchema})
	require.NoError(t, err)
	assert.Equal(t, "mock", resp.Model)
	assert.Equal(t, 2, mock.CallCount())
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
}
