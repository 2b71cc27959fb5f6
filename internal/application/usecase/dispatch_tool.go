package usecase

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
)

var _ input.ToolDispatcher = (*DispatchToolUseCase)(nil)

type DispatchToolUseCase struct {
	tools  output.ToolRegistry
	logger output.LoggerPort
	config DispatchConfig
}

type DispatchConfig struct {
	// MaxObservationLen caps Observe output in bytes; 0 disables the cap.
	MaxObservationLen int
}

func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{MaxObservationLen: 0}
}

func NewDispatchToolUseCase(tools output.ToolRegistry, logger output.LoggerPort, config DispatchConfig) *DispatchToolUseCase {
	return &DispatchToolUseCase{
		tools:  tools,
		logger: logger,
		config: config,
	}
}

// Execute runs one tool call and returns its raw result.
func (uc *DispatchToolUseCase) Execute(ctx context.Context, tc entity.ToolCall) (string, error) {
	tool, ok := uc.tools.Get(entity.ToolName(tc.Name))
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		return "", fmt.Errorf("%w: %s", entity.ErrUnknownTool, tc.Name)
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "callID", tc.ID)
	start := time.Now()

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err, "duration", time.Since(start))
		return "", fmt.Errorf("%s: %w", tc.Name, err)
	}

	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result), "duration", time.Since(start))
	return result, nil
}

// Observe runs a tool call for a model conversation: failures become an
// "Error: ..." observation and long results are truncated.
func (uc *DispatchToolUseCase) Observe(ctx context.Context, tc entity.ToolCall) string {
	result, err := uc.Execute(ctx, tc)
	if err != nil {
		return "Error: " + err.Error()
	}
	return truncateObservation(result, uc.config.MaxObservationLen)
}

func truncateObservation(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}
