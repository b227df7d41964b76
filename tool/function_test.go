package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queryParams = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"query": map[string]any{"type": "string"},
	},
	"required": []string{"query"},
}

func TestFunctionTool_Success(t *testing.T) {
	ft, err := NewFunctionTool("echo", "Echo the query.", queryParams,
		func(_ context.Context, args map[string]any) (string, error) {
			return args["query"].(string), nil
		})
	require.NoError(t, err)

	out, err := ft.Call(context.Background(), map[string]any{"query": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	ft, err := NewFunctionTool("echo", "Echo the query.", queryParams,
		func(context.Context, map[string]any) (string, error) { return "", nil })
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), map[string]any{"query": 42})
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionTool_MissingRequiredArgument(t *testing.T) {
	ft, err := NewFunctionTool("echo", "Echo the query.", queryParams,
		func(context.Context, map[string]any) (string, error) { return "", nil })
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), nil)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	ft, err := NewFunctionTool("flaky", "Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (string, error) {
			return "", errors.New("downstream unavailable")
		})
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), nil)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "downstream unavailable")
}

func TestFunctionTool_PreservesCustomToolError(t *testing.T) {
	custom := &ToolError{Tool: "flaky", Message: "rate limited", Code: "RATE_LIMITED"}
	ft, err := NewFunctionTool("flaky", "Always fails.",
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (string, error) {
			return "", custom
		})
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), nil)
	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
}

func TestNewFunctionTool_RejectsMalformedSchema(t *testing.T) {
	_, err := NewFunctionTool("bad", "Broken schema.",
		map[string]any{"type": "object", "properties": "not-a-map"},
		func(context.Context, map[string]any) (string, error) { return "", nil })
	assert.Error(t, err)
}

// -------------------- Registry Tests --------------------

func newNamedTool(t *testing.T, name string) Tool {
	t.Helper()
	ft, err := NewFunctionTool(name, "A tool named "+name,
		map[string]any{"type": "object", "properties": map[string]any{}},
		func(context.Context, map[string]any) (string, error) { return name, nil })
	require.NoError(t, err)
	return ft
}

func TestRegistry_GetAndLen(t *testing.T) {
	r, err := NewRegistry(newNamedTool(t, "alpha"), newNamedTool(t, "beta"))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())

	got, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_DuplicateNames(t *testing.T) {
	_, err := NewRegistry(newNamedTool(t, "alpha"), newNamedTool(t, "alpha"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestRegistry_DefinitionsPreserveOrder(t *testing.T) {
	r, err := NewRegistry(newNamedTool(t, "zeta"), newNamedTool(t, "alpha"))
	require.NoError(t, err)

	defs := r.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "zeta", defs[0].Name)
	assert.Equal(t, "alpha", defs[1].Name)
	assert.NotEmpty(t, defs[0].Description)
	assert.NotNil(t, defs[0].Parameters)
}
