package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dom-snapshot/internal/application/port/output"

	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*LangchainTool)(nil)

// LangchainTool exposes a tool to langchaingo agents, which pass a single
// string input.
type LangchainTool struct {
	tool output.ToolPort
}

func NewLangchainTool(tool output.ToolPort) *LangchainTool {
	return &LangchainTool{tool: tool}
}

func (l *LangchainTool) Name() string {
	return l.tool.Name().String()
}

func (l *LangchainTool) Description() string {
	schema, err := json.Marshal(l.tool.Parameters())
	if err != nil {
		return l.tool.Description()
	}
	return fmt.Sprintf("%s Input: a JSON object matching %s", l.tool.Description(), schema)
}

// Call accepts a JSON object, or a bare value for tools with exactly one
// required parameter.
func (l *LangchainTool) Call(ctx context.Context, input string) (string, error) {
	args := strings.TrimSpace(input)
	if args != "" && !strings.HasPrefix(args, "{") {
		wrapped, err := l.wrap(args)
		if err != nil {
			return "", err
		}
		args = wrapped
	}
	return l.tool.Execute(ctx, args)
}

func (l *LangchainTool) wrap(value string) (string, error) {
	required, _ := l.tool.Parameters()["required"].([]string)
	if len(required) != 1 {
		return "", fmt.Errorf("%s expects a JSON object", l.Name())
	}
	data, err := json.Marshal(map[string]string{required[0]: strings.Trim(value, `"`)})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LangchainTools adapts every registered tool.
func LangchainTools(registry output.ToolRegistry) []tools.Tool {
	all := registry.All()
	result := make([]tools.Tool, 0, len(all))
	for _, t := range all {
		result = append(result, NewLangchainTool(t))
	}
	return result
}
