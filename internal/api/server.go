// Package api is the HTTP boundary: JSON routes under /api/v1 and the
// market-data websocket. Handlers decode, call one service and map the
// error kind to a status code.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"quant_trader/internal/errs"
	"quant_trader/internal/market"
	"quant_trader/internal/models"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const maxBodyBytes = 1 << 20

// AgentService is the agent CRUD surface the routes need.
type AgentService interface {
	Create(ctx context.Context, agent models.Agent) (models.Agent, error)
	Update(ctx context.Context, id string, agent models.Agent) (models.Agent, error)
	Get(id string) (models.Agent, error)
	Status(id string) (models.AgentStatusView, error)
	List() []models.Agent
	Delete(id string) error
}

// Analyzer turns a prompt into an analysis, returning the rendered prompt too.
type Analyzer interface {
	AnalyzeWithPrompt(ctx context.Context, p models.QuantitativePrompt) (string, *models.AnalysisResult, error)
}

// Trader is the trade dispatcher surface.
type Trader interface {
	Execute(ctx context.Context, mode string, params map[string]any) (*models.TradeResult, error)
	Status(ctx context.Context, tradeID string) (*models.TradeStatus, error)
	MarketData(ctx context.Context, mode, symbol string) (*models.MarketSnapshot, error)
	Venue(mode string) (market.Venue, error)
}

type Options struct {
	Version           string
	CORSAllowedOrigin string
	StreamInterval    time.Duration
}

type Server struct {
	router   *mux.Router
	handler  http.Handler
	agents   AgentService
	analyzer Analyzer
	trader   Trader
	upgrader websocket.Upgrader
	opts     Options
}

func NewServer(agents AgentService, analyzer Analyzer, trader Trader, opts Options) *Server {
	if opts.CORSAllowedOrigin == "" {
		opts.CORSAllowedOrigin = "*"
	}
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = time.Second
	}
	s := &Server{
		router:   mux.NewRouter(),
		agents:   agents,
		analyzer: analyzer,
		trader:   trader,
		opts:     opts,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.setupRoutes()
	// CORS wraps the router so preflights are answered even where no route
	// accepts OPTIONS.
	s.handler = corsMiddleware(opts.CORSAllowedOrigin, logMiddleware(recoverMiddleware(s.router)))
	return s
}

func (s *Server) setupRoutes() {
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Agent routes
	api.HandleFunc("/agents/create", s.handleCreateAgent).Methods(http.MethodPost)
	api.HandleFunc("/agents", s.handleListAgents).Methods(http.MethodGet)
	api.HandleFunc("/agents/", s.handleListAgents).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", s.handleGetAgent).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", s.handleUpdateAgent).Methods(http.MethodPut)
	api.HandleFunc("/agents/{id}", s.handleDeleteAgent).Methods(http.MethodDelete)
	api.HandleFunc("/agents/{id}/status", s.handleAgentStatus).Methods(http.MethodGet)

	// Analysis routes
	api.HandleFunc("/ai/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/ai/health", s.handleAIHealth).Methods(http.MethodGet)
	api.HandleFunc("/prompts/generate", s.handleGeneratePrompt).Methods(http.MethodPost)
	api.HandleFunc("/prompts/templates/{mode}", s.handlePromptTemplate).Methods(http.MethodGet)

	// Trading routes
	api.HandleFunc("/trading/trade/{mode}", s.handleExecuteTrade).Methods(http.MethodPost)
	api.HandleFunc("/trading/trade/{trade_id:.+}", s.handleTradeStatus).Methods(http.MethodGet)
	api.HandleFunc("/trading/market-data/{mode}", s.handleMarketData).Methods(http.MethodGet)

	// WebSocket routes
	api.HandleFunc("/trading/ws/market-data/{mode}", s.handleMarketStream).Methods(http.MethodGet)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type healthResponse struct {
		Status    string `json:"status"`
		Version   string `json:"version"`
		Agents    int    `json:"agents"`
		Timestamp string `json:"timestamp"`
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Version:   s.opts.Version,
		Agents:    len(s.agents.List()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeError(w, status, err.Error())
}

// decodeJSON reads a single JSON value from the body into out.
func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.Validation("request body too large")
		}
		return errs.Validation("invalid JSON body: %v", err)
	}
	return nil
}
