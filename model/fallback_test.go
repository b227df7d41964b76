package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/careerpilot/core"
)

func fastRetry(o *FallbackChainOptions) {
	o.MaxRetries = 1
	o.InitialInterval = time.Millisecond
}

func failingModel(name string, err error) *MockModel {
	return NewMockModel(name, func(context.Context, Request) (Response, error) {
		return Response{}, err
	})
}

func TestFallbackChain_PrimarySucceeds(t *testing.T) {
	primary := NewMockModel("primary", nil)
	fallback := NewMockModel("fallback", nil)

	chain, err := NewFallbackChain([]Model{primary, fallback}, fastRetry)
	require.NoError(t, err)

	resp, err := chain.Invoke(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hi", resp.Message.Content)
	assert.Equal(t, 1, primary.Calls())
	assert.Equal(t, 0, fallback.Calls())
}

func TestFallbackChain_FallsBackAfterRetries(t *testing.T) {
	primary := failingModel("primary", errors.New("unavailable"))
	fallback := NewMockModel("fallback", nil)

	chain, err := NewFallbackChain([]Model{primary, fallback}, fastRetry)
	require.NoError(t, err)

	resp, err := chain.Invoke(context.Background(), Request{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: hi", resp.Message.Content)
	// Initial attempt plus MaxRetries retries before moving on.
	assert.Equal(t, 2, primary.Calls())
	assert.Equal(t, 1, fallback.Calls())
}

func TestFallbackChain_AllBackendsFail(t *testing.T) {
	errA := errors.New("a down")
	errB := errors.New("b down")

	chain, err := NewFallbackChain([]Model{
		failingModel("a", errA),
		failingModel("b", errB),
	}, fastRetry)
	require.NoError(t, err)

	_, err = chain.Invoke(context.Background(), Request{})
	require.Error(t, err)

	var exhausted *BackendExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Len(t, exhausted.Errs, 2)
	assert.True(t, errors.Is(err, errA))
	assert.True(t, errors.Is(err, errB))
}

func TestNewFallbackChain_RequiresBackend(t *testing.T) {
	_, err := NewFallbackChain(nil)
	assert.Error(t, err)
}

func TestFallbackChain_Info(t *testing.T) {
	chain, err := NewFallbackChain([]Model{NewMockModel("primary", nil)})
	require.NoError(t, err)

	info := chain.Info()
	assert.Equal(t, "primary", info.Name)
	assert.Equal(t, "fallback(mock)", info.Provider)
}

// -------------------- Structured Invocation Tests --------------------

var colorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"color": map[string]any{"type": "string"},
	},
	"required": []string{"color"},
}

func TestInvokeStructured_DecodesForcedCall(t *testing.T) {
	var captured Request
	m := NewMockModel("structured", func(_ context.Context, req Request) (Response, error) {
		captured = req
		args, _ := json.Marshal(map[string]string{"color": "blue"})
		return Response{
			Message: core.NewAssistantMessage("", core.ToolCall{
				ID:        "call_1",
				Name:      "pick_color",
				Arguments: args,
			}),
		}, nil
	})

	var out struct {
		Color string `json:"color"`
	}
	err := InvokeStructured(context.Background(), m, Request{}, "pick_color", "Pick a color.", colorSchema, &out)
	require.NoError(t, err)
	assert.Equal(t, "blue", out.Color)

	// The schema is exposed as a single forced tool.
	require.Len(t, captured.Tools, 1)
	assert.Equal(t, "pick_color", captured.Tools[0].Name)
	assert.True(t, captured.ForceTool)
}

func TestInvokeStructured_MissingCall(t *testing.T) {
	m := NewMockModel("structured", func(context.Context, Request) (Response, error) {
		return Response{Message: core.NewAssistantMessage("plain text instead")}, nil
	})

	var out struct{}
	err := InvokeStructured(context.Background(), m, Request{}, "pick_color", "Pick a color.", colorSchema, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no \"pick_color\" call")
}

func TestInvokeStructured_BackendError(t *testing.T) {
	boom := errors.New("boom")
	m := failingModel("structured", boom)

	var out struct{}
	err := InvokeStructured(context.Background(), m, Request{}, "pick_color", "Pick a color.", colorSchema, &out)
	assert.True(t, errors.Is(err, boom))
}
