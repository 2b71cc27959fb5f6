// Package mcpapi exposes the tool registry as a Model Context Protocol server.
package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Name      string
	Version   string
	Transport string
	Port      int
}

type Server struct {
	cfg        Config
	mcp        *mcpserver.MCPServer
	dispatcher input.ToolDispatcher
	logger     output.LoggerPort
}

func NewServer(cfg Config, tools output.ToolRegistry, dispatcher input.ToolDispatcher, logger output.LoggerPort) (*Server, error) {
	if cfg.Name == "" {
		cfg.Name = "dom-snapshot"
	}
	if cfg.Version == "" {
		cfg.Version = "1.0.0"
	}

	s := &Server{
		cfg:        cfg,
		mcp:        mcpserver.NewMCPServer(cfg.Name, cfg.Version, mcpserver.WithToolCapabilities(false)),
		dispatcher: dispatcher,
		logger:     logger.WithField("component", "mcp"),
	}

	for _, def := range tools.Definitions() {
		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			return nil, fmt.Errorf("encode %s schema: %w", def.Name, err)
		}
		s.mcp.AddTool(mcp.NewToolWithRawSchema(def.Name.String(), def.Description, schema), s.handler(def.Name))
	}
	return s, nil
}

// Serve blocks until ctx is cancelled or the transport fails.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Transport {
	case TransportStdio, "":
		s.logger.Info("MCP server on stdio")
		return mcpserver.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
	case TransportHTTP, "streamable-http":
		addr := fmt.Sprintf(":%d", s.cfg.Port)
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		errChan := make(chan error, 1)
		go func() {
			s.logger.Info("MCP server listening", "addr", addr)
			errChan <- httpServer.Start(addr)
		}()
		select {
		case err := <-errChan:
			return err
		case <-ctx.Done():
			return httpServer.Shutdown(context.Background())
		}
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or http)", s.cfg.Transport)
	}
}

func (s *Server) handler(name entity.ToolName) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := s.dispatcher.Execute(ctx, entity.ToolCall{
			Name:      name.String(),
			Arguments: string(args),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}
