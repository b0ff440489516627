// Package http exposes a funchain engine over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/funchain"
	"github.com/aretw0/funchain/internal/presentation/graph"
	"github.com/aretw0/funchain/pkg/domain"
	"github.com/aretw0/funchain/pkg/expr"
	"github.com/aretw0/funchain/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the chain engine.
type Server struct {
	Engine  ports.ChainEngine
	Store   ports.ResultStore
	Streams *StreamManager
	Bus     ports.EventBus

	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithResultStore keeps every run so it can be fetched from /runs/{id}.
func WithResultStore(store ports.ResultStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithEventBus relays run events through bus, so that /events on every replica sharing
// the bus streams every run. Without it events stay in this process.
func WithEventBus(bus ports.EventBus) Option {
	return func(s *Server) {
		s.Bus = bus
	}
}

// WithMetrics exposes the gatherer on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.ChainEngine, opts ...Option) http.Handler {
	server := &Server{
		Engine: engine,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}
	server.Streams = NewStreamManager(server.logger)

	r := chi.NewRouter()

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/chain", server.GetChain)
	r.Get("/chain/{id}", server.GetNode)
	r.Put("/chain/{id}/equation", server.SetEquation)
	r.Get("/evaluate", server.EvaluateQuery)
	r.Post("/evaluate", server.Evaluate)
	r.Get("/runs", server.ListRuns)
	r.Get("/runs/{id}", server.GetRun)
	r.Get("/graph", server.GetGraph)
	r.Get("/events", server.SubscribeEvents)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>funchain API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, InfoResponse{
		App:        "funchain-http",
		Version:    strings.TrimSpace(funchain.Version),
		APIVersion: apiVersion,
		Name:       s.Engine.ChainName(),
		Entry:      s.Engine.EntryNode(),
		Nodes:      len(s.Engine.Inspect()),
	})
}

// GetChain handles the GET /chain request.
func (s *Server) GetChain(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, ChainResponse{
		Entry:   s.Engine.EntryNode(),
		Initial: domain.Value(s.Engine.InitialValue()),
		Nodes:   s.Engine.Inspect(),
	})
}

// GetNode handles the GET /chain/{id} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindNodeID(w, r)
	if !ok {
		return
	}
	node, found := s.findNode(id)
	if !found {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id))
		return
	}
	s.writeJSON(w, http.StatusOK, node)
}

// SetEquation handles the PUT /chain/{id}/equation request.
func (s *Server) SetEquation(w http.ResponseWriter, r *http.Request) {
	id, ok := s.bindNodeID(w, r)
	if !ok {
		return
	}

	var body SetEquationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Equation == nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body: expected {\"equation\": string}"))
		return
	}

	if err := s.Engine.SetEquation(id, *body.Equation); err != nil {
		switch {
		case errors.Is(err, domain.ErrNodeNotFound):
			s.writeError(w, http.StatusNotFound, err)
		case errors.Is(err, expr.ErrInvalidCharacter):
			s.logger.Warn("SetEquation: equation rejected", "node_id", id, "error", err)
			s.writeError(w, http.StatusBadRequest, err)
		default:
			s.logger.Error("SetEquation failed", "node_id", id, "error", err)
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	node, _ := s.findNode(id)
	s.writeJSON(w, http.StatusOK, node)
}

// EvaluateQuery handles the GET /evaluate request.
func (s *Server) EvaluateQuery(w http.ResponseWriter, r *http.Request) {
	initial, ok := s.bindInitial(w, r)
	if !ok {
		return
	}
	s.evaluate(w, r, initial)
}

// Evaluate handles the POST /evaluate request. An empty body uses the chain default.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	initial := s.Engine.InitialValue()
	if body.Initial != nil {
		initial = *body.Initial
	}
	s.evaluate(w, r, initial)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, initial float64) {
	res := s.Engine.Evaluate(r.Context(), initial)

	if s.Store != nil {
		if err := s.Store.Save(r.Context(), res); err != nil {
			s.logger.Error("Evaluate: failed to store result", "run_id", res.RunID, "error", err)
		}
	}

	if payload, err := json.Marshal(res); err == nil {
		s.publish(r.Context(), payload)
	}

	s.writeJSON(w, http.StatusOK, res)
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids := []string{}
	if s.Store != nil {
		stored, err := s.Store.List(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		ids = append(ids, stored...)
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true}); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}

	if s.Store == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrRunNotFound, id))
		return
	}

	res, err := s.Store.Load(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetGraph handles the GET /graph request. With ?initial the chain is evaluated and the
// trace is overlaid.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if r.URL.Query().Has("initial") {
		initial, ok := s.bindInitial(w, r)
		if !ok {
			return
		}
		overlay = graph.OverlayFromResult(s.Engine.Evaluate(r.Context(), initial))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.Engine.Inspect(), s.Engine.EntryNode(), overlay))
}

// SubscribeEvents handles the GET /events request (SSE). Every evaluation served by this
// handler is pushed as a "run" event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel, err := s.subscribe(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: run\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) publish(ctx context.Context, payload []byte) {
	if s.Bus == nil {
		s.Streams.Broadcast(string(payload))
		return
	}
	if err := s.Bus.Publish(ctx, payload); err != nil {
		s.logger.Error("Evaluate: failed to publish run", "error", err)
	}
}

func (s *Server) subscribe(ctx context.Context) (<-chan string, func(), error) {
	if s.Bus == nil {
		ch, cancel := s.Streams.Subscribe()
		return ch, cancel, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	payloads, err := s.Bus.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	ch := make(chan string)
	go func() {
		defer close(ch)
		for p := range payloads {
			select {
			case ch <- string(p):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, cancel, nil
}

func (s *Server) bindNodeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return "", false
	}
	return id, true
}

// bindInitial reads the optional ?initial query parameter, defaulting to the chain's value.
func (s *Server) bindInitial(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var initial *float64
	if err := runtime.BindQueryParameter("form", true, false, "initial", r.URL.Query(), &initial); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter initial: %w", err))
		return 0, false
	}
	if initial == nil {
		return s.Engine.InitialValue(), true
	}
	return *initial, true
}

func (s *Server) findNode(id string) (domain.FunctionNode, bool) {
	for _, n := range s.Engine.Inspect() {
		if n.ID == id {
			return n, true
		}
	}
	return domain.FunctionNode{}, false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var verr *expr.ValidationError
	if errors.As(err, &verr) {
		resp.Column = verr.Col
	}
	s.writeJSON(w, status, resp)
}
