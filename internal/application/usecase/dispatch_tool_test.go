package usecase

import (
	"context"
	"errors"
	"testing"

	"dom-snapshot/internal/application/service"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name entity.ToolName
	err  error
}

func (t *echoTool) Name() entity.ToolName              { return t.name }
func (t *echoTool) Description() string                { return "echo" }
func (t *echoTool) Parameters() map[string]interface{} { return map[string]interface{}{"type": "object"} }
func (t *echoTool) Execute(_ context.Context, args string) (string, error) {
	if t.err != nil {
		return "", t.err
	}
	return args, nil
}

func TestDispatchTool_Execute(t *testing.T) {
	registry := service.NewToolRegistry(&echoTool{name: "echo"}, &echoTool{name: "fail", err: errors.New("boom")})
	uc := NewDispatchToolUseCase(registry, logger.NewNop(), DefaultDispatchConfig())
	ctx := context.Background()

	out, err := uc.Execute(ctx, entity.ToolCall{ID: "1", Name: "echo", Arguments: `{"a":1}`})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	_, err = uc.Execute(ctx, entity.ToolCall{Name: "missing"})
	assert.ErrorIs(t, err, entity.ErrUnknownTool)

	_, err = uc.Execute(ctx, entity.ToolCall{Name: "fail"})
	assert.ErrorContains(t, err, "fail: boom")
}

func TestDispatchTool_Observe(t *testing.T) {
	registry := service.NewToolRegistry(&echoTool{name: "echo"})
	uc := NewDispatchToolUseCase(registry, logger.NewNop(), DispatchConfig{MaxObservationLen: 4})
	ctx := context.Background()

	assert.Equal(t, "abcd\n... (truncated)", uc.Observe(ctx, entity.ToolCall{Name: "echo", Arguments: "abcdef"}))
	assert.Equal(t, "abc", uc.Observe(ctx, entity.ToolCall{Name: "echo", Arguments: "abc"}))
	assert.Contains(t, uc.Observe(ctx, entity.ToolCall{Name: "nope"}), "Error: unknown tool")
}

func TestTruncateObservation_RuneBoundary(t *testing.T) {
	assert.Equal(t, "a\n... (truncated)", truncateObservation("aжb", 2))
	assert.Equal(t, "aжb", truncateObservation("aжb", 0))
}
