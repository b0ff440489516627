// Package mcp exposes a funchain engine as a Model Context Protocol server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/internal/presentation/graph"
	"github.com/aretw0/funchain/internal/validator"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	chainURI = "funchain://chain"
	graphURI = "funchain://graph"
)

// ChainView is the shape returned by get_chain and the chain resource.
type ChainView struct {
	Entry   string                `json:"entry" jsonschema_description:"Node evaluation starts from"`
	Initial domain.Value          `json:"initial" jsonschema_description:"Default initial value; NaN and infinities are strings"`
	Nodes   []domain.FunctionNode `json:"nodes" jsonschema_description:"Function nodes in authoring order"`
}

// EvaluateArgs are the arguments of evaluate_chain.
type EvaluateArgs struct {
	Initial *float64 `json:"initial,omitempty"`
}

// SetEquationArgs are the arguments of set_equation.
type SetEquationArgs struct {
	NodeID   string `json:"node_id"`
	Equation string `json:"equation"`
}

// ValidationView is returned by validate_chain.
type ValidationView struct {
	Valid  bool     `json:"valid" jsonschema_description:"False when any error-severity issue was found"`
	Issues []string `json:"issues" jsonschema_description:"Every finding, errors and warnings"`
}

// Engine is what the MCP server needs from the core.
type Engine interface {
	ports.ChainEngine
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	check     func() *validator.Report
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger. It must not write to stdout when serving on stdio.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithValidator enables the validate_chain tool.
func WithValidator(check func() *validator.Report) Option {
	return func(s *Server) {
		s.check = check
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("funchain-mcp", strings.TrimSpace(funchain.Version)),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: evaluate_chain
	evaluateTool := mcp.NewTool("evaluate_chain",
		mcp.WithDescription("Feed an initial value through the function chain and return every intermediate value and the final result."),
		mcp.WithNumber("initial", mcp.Description("Initial value of x (optional, defaults to the chain's initial value)")),
	)
	s.mcpServer.AddTool(evaluateTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: set_equation
	setTool := mcp.NewTool("set_equation",
		mcp.WithDescription("Replace the equation of one node. Allowed characters: digits, x, + - * / ^ and spaces."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("ID of the node to edit")),
		mcp.WithString("equation", mcp.Required(), mcp.Description("New equation over x, e.g. 2*x+4")),
		mcp.WithOutputSchema[domain.FunctionNode](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetEquation))

	// TOOL: get_chain
	getTool := mcp.NewTool("get_chain",
		mcp.WithDescription("Get the chain definition: entry node, default initial value and nodes."),
		mcp.WithOutputSchema[ChainView](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetChain))

	if s.check != nil {
		validateTool := mcp.NewTool("validate_chain",
			mcp.WithDescription("Statically check the chain for malformed equations, missing links and cycles."),
			mcp.WithOutputSchema[ValidationView](),
		)
		s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))
	}
}

// Handler methods for structured tools

func (s *Server) handleEvaluate(ctx context.Context, _ mcp.CallToolRequest, args EvaluateArgs) (*domain.Result, error) {
	initial := s.engine.InitialValue()
	if args.Initial != nil {
		initial = *args.Initial
	}
	res := s.engine.Evaluate(ctx, initial)
	s.logger.Debug("MCP evaluate_chain", "run_id", res.RunID, "status", res.Status, "final", res.Final)
	return res, nil
}

func (s *Server) handleSetEquation(_ context.Context, _ mcp.CallToolRequest, args SetEquationArgs) (domain.FunctionNode, error) {
	if args.NodeID == "" {
		return domain.FunctionNode{}, errors.New("node_id is required")
	}
	if err := s.engine.SetEquation(args.NodeID, args.Equation); err != nil {
		s.logger.Warn("MCP set_equation rejected", "node_id", args.NodeID, "error", err)
		return domain.FunctionNode{}, fmt.Errorf("set_equation failed: %w", err)
	}
	for _, n := range s.engine.Inspect() {
		if n.ID == args.NodeID {
			return n, nil
		}
	}
	return domain.FunctionNode{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, args.NodeID)
}

func (s *Server) handleGetChain(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (ChainView, error) {
	return s.chainView(), nil
}

func (s *Server) handleValidate(_ context.Context, _ mcp.CallToolRequest, _ map[string]any) (ValidationView, error) {
	report := s.check()
	view := ValidationView{Valid: report.Err() == nil, Issues: []string{}}
	for _, issue := range report.Issues {
		view.Issues = append(view.Issues, issue.String())
	}
	return view, nil
}

func (s *Server) chainView() ChainView {
	return ChainView{
		Entry:   s.engine.EntryNode(),
		Initial: domain.Value(s.engine.InitialValue()),
		Nodes:   s.engine.Inspect(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: funchain://chain
	s.mcpServer.AddResource(mcp.NewResource(chainURI, "Current Chain Definition",
		mcp.WithMIMEType("application/json"),
	), s.readChain)

	// EXPOSE: funchain://graph
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Chain as a Mermaid flowchart",
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readChain(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.chainView())
	if err != nil {
		return nil, fmt.Errorf("failed to encode chain: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      chainURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readGraph(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      graphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.engine.Inspect(), s.engine.EntryNode(), nil),
		},
	}, nil
}
