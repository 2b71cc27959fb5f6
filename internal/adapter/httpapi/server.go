// Package httpapi serves extraction and the tool registry over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"dom-snapshot/internal/adapter/tool"
	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/sashabaranov/go-openai"
)

const maxBodyBytes = 10 << 20

type Config struct {
	Addr string
	// AccessLog enables httplog request logging.
	AccessLog bool
	// JSONLogs switches access logs from console to JSON.
	JSONLogs bool
}

type Server struct {
	cfg        Config
	extractor  input.HTMLExtractor
	tools      output.ToolRegistry
	dispatcher input.ToolDispatcher
	logger     output.LoggerPort
	router     chi.Router
}

func NewServer(cfg Config, extractor input.HTMLExtractor, tools output.ToolRegistry, dispatcher input.ToolDispatcher, logger output.LoggerPort) *Server {
	s := &Server{
		cfg:        cfg,
		extractor:  extractor,
		tools:      tools,
		dispatcher: dispatcher,
		logger:     logger.WithField("component", "http"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if s.cfg.AccessLog {
		accessLog := httplog.NewLogger("dom-snapshot", httplog.Options{
			JSON:    s.cfg.JSONLogs,
			Concise: true,
		})
		r.Use(httplog.RequestLogger(accessLog))
	}
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/snapshot", s.handleSnapshot)
		r.Get("/tools", s.handleListTools)
		r.Post("/tools/{name}", s.handleCallTool)
		r.Post("/openai/tool_calls", s.handleOpenAIToolCalls)
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type snapshotRequest struct {
	HTML  string `json:"html"`
	Start int    `json:"start"`
}

type snapshotResponse struct {
	Result    *entity.ExtractionResult `json:"result"`
	Annotated string                   `json:"annotated_html"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var req snapshotRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.HTML == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: html is empty", entity.ErrNoDocument))
		return
	}

	res, annotated, err := s.extractor.ExtractHTML(r.Context(), req.HTML, req.Start)
	if err != nil {
		s.logger.Error("Snapshot failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Result: res, Annotated: annotated})
}

type langchainTool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleListTools lists the registry as plain definitions, chat completion
// tools (?format=openai) or langchaingo name/description pairs (?format=langchain).
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	switch format := r.URL.Query().Get("format"); format {
	case "", "plain":
		writeJSON(w, http.StatusOK, map[string]any{"tools": s.tools.Definitions()})
	case "openai":
		writeJSON(w, http.StatusOK, map[string]any{"tools": tool.ToOpenAITools(s.tools)})
	case "langchain":
		lc := tool.LangchainTools(s.tools)
		out := make([]langchainTool, 0, len(lc))
		for _, t := range lc {
			out = append(out, langchainTool{Name: t.Name(), Description: t.Description()})
		}
		writeJSON(w, http.StatusOK, map[string]any{"tools": out})
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown tools format %q", format))
	}
}

type toolCallsRequest struct {
	ToolCalls []openai.ToolCall `json:"tool_calls"`
}

type toolCallsResponse struct {
	Messages []openai.ChatCompletionMessage `json:"messages"`
}

// handleOpenAIToolCalls answers the tool_calls of an assistant message with
// the tool messages to append to the conversation.
func (s *Server) handleOpenAIToolCalls(w http.ResponseWriter, r *http.Request) {
	var req toolCallsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	resp := toolCallsResponse{Messages: make([]openai.ChatCompletionMessage, 0, len(req.ToolCalls))}
	for _, call := range req.ToolCalls {
		resp.Messages = append(resp.Messages, tool.ExecuteToolCall(r.Context(), s.dispatcher, call))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.dispatcher.Execute(r.Context(), entity.ToolCall{
		ID:        chimw.GetReqID(r.Context()),
		Name:      name,
		Arguments: string(body),
	})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrUnknownTool):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidURL),
		errors.Is(err, entity.ErrInvalidIdentifier),
		errors.Is(err, entity.ErrInvalidArguments),
		errors.Is(err, entity.ErrNoDocument):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
