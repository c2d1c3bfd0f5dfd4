package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode unmarshals MCP request arguments into a typed request struct via a
// JSON round trip, avoiding per-field type assertions on the raw map.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("unmarshal args: %w", err)
	}
	return out, nil
}
