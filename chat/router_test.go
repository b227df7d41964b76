package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpilot/careerpilot/core"
	"github.com/careerpilot/careerpilot/model"
)

// routingModel answers every invocation with a forced "route" call carrying
// the given label.
func routingModel(label string) *model.MockModel {
	return model.NewMockModel("router-stub", func(_ context.Context, req model.Request) (model.Response, error) {
		args, _ := json.Marshal(map[string]string{"decided_node": label})
		return model.Response{
			Message: core.NewAssistantMessage("", core.ToolCall{
				ID:        "call_route",
				Name:      "route",
				Arguments: args,
			}),
			FinishReason: "tool_calls",
		}, nil
	})
}

func TestRouter_DecidesMentor(t *testing.T) {
	r := NewRouter(routingModel("mentor"))

	state, err := r.Node(context.Background(), State{
		Messages: []core.Message{core.NewUserMessage("What skills am I missing for a backend role?")},
	})
	require.NoError(t, err)
	assert.Equal(t, RouteMentor, state.Route)
}

func TestRouter_DecidesGeneric(t *testing.T) {
	r := NewRouter(routingModel("generic"))

	state, err := r.Node(context.Background(), State{
		Messages: []core.Message{core.NewUserMessage("hey there!")},
	})
	require.NoError(t, err)
	assert.Equal(t, RouteGeneric, state.Route)
}

func TestRouter_RejectsLabelOutsideEnumeration(t *testing.T) {
	r := NewRouter(routingModel("supervisor"))

	_, err := r.Node(context.Background(), State{
		Messages: []core.Message{core.NewUserMessage("hello")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoutingContract))
}

func TestRouter_BackendErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	m := model.NewMockModel("router-stub", func(context.Context, model.Request) (model.Response, error) {
		return model.Response{}, boom
	})
	r := NewRouter(m)

	_, err := r.Node(context.Background(), State{
		Messages: []core.Message{core.NewUserMessage("hello")},
	})
	assert.True(t, errors.Is(err, boom))
}

func TestRouter_UsesCustomPrompt(t *testing.T) {
	var captured model.Request
	m := model.NewMockModel("router-stub", func(_ context.Context, req model.Request) (model.Response, error) {
		captured = req
		args, _ := json.Marshal(map[string]string{"decided_node": "generic"})
		return model.Response{
			Message: core.NewAssistantMessage("", core.ToolCall{ID: "c1", Name: "route", Arguments: args}),
		}, nil
	})
	r := NewRouter(m, func(o *RouterOptions) { o.SystemPrompt = "custom routing rules" })

	_, err := r.Node(context.Background(), State{
		Messages: []core.Message{core.NewUserMessage("hello")},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom routing rules", captured.Instructions)
	assert.True(t, captured.ForceTool)
}
