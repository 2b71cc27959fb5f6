package input

import (
	"context"

	"dom-snapshot/internal/domain/entity"
)

type ToolDispatcher interface {
	Execute(ctx context.Context, tc entity.ToolCall) (string, error)
	Observe(ctx context.Context, tc entity.ToolCall) string
}
