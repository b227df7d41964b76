package model

import (
	"context"
	"encoding/json"
	"fmt"
)

// InvokeStructured performs a schema-constrained invocation: the schema is
// exposed to the backend as a single forced tool and the returned call
// arguments are decoded into out. This works uniformly across providers
// because every supported backend implements tool calling, while native
// structured-output APIs differ per vendor.
//
// The name should describe the decision being requested (it is visible to
// the model), e.g. "route".
func InvokeStructured(
	ctx context.Context,
	m Model,
	req Request,
	name, description string,
	schema map[string]any,
	out any,
) error {
	req.Tools = []ToolDefinition{{Name: name, Description: description, Parameters: schema}}
	req.ForceTool = true

	resp, err := m.Invoke(ctx, req)
	if err != nil {
		return err
	}

	for _, tc := range resp.Message.ToolCalls {
		if tc.Name != name {
			continue
		}
		if err := json.Unmarshal(tc.Arguments, out); err != nil {
			return fmt.Errorf("model: decode structured result %q: %w", name, err)
		}
		return nil
	}

	return fmt.Errorf("model: structured invoke: backend returned no %q call", name)
}
