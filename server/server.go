package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/pokerodds/advisor"
	"github.com/lazharichir/pokerodds/cache"
	"github.com/lazharichir/pokerodds/events"
	"github.com/lazharichir/pokerodds/odds"
	"github.com/lazharichir/pokerodds/server/api"
	"github.com/lazharichir/pokerodds/server/connection"
	serverevents "github.com/lazharichir/pokerodds/server/events"
	"github.com/lazharichir/pokerodds/server/handlers"
)

const (
	pingPeriod     = 10 * time.Second
	maxMessageSize = 64 << 10
	maxStoredRuns  = 1000
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server serves the odds API over HTTP and streams runs over websockets
type Server struct {
	calc       *odds.Calculator
	advice     advisor.Config
	store      *events.InMemoryEventStore
	connMgr    *connection.Manager
	runner     *handlers.Runner
	cmdRouter  *handlers.CommandRouter
	dispatcher *serverevents.Dispatcher
	logger     *slog.Logger
	router     chi.Router
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Option configures a Server.
type Option func(*Server)

// WithAdvisorConfig sets the playing style behind /api/advise.
func WithAdvisorConfig(cfg advisor.Config) Option {
	return func(s *Server) {
		s.advice = cfg
	}
}

// NewServer creates a server around a calculator. resultCache may be nil.
func NewServer(calc *odds.Calculator, resultCache cache.ResultCache, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		calc:    calc,
		advice:  advisor.DefaultConfig(),
		store:   events.NewInMemoryEventStore(maxStoredRuns),
		connMgr: connection.NewManager(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatcher = serverevents.NewDispatcher(s.connMgr, logger)
	s.runner = handlers.NewRunner(calc, resultCache, s.publish, logger)
	s.cmdRouter = handlers.NewCommandRouter(s.runner, s.connMgr, s.store)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/ws", s.handleWebSocket)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/equity", s.handleEquity)
		r.Post("/outs", s.handleOuts)
		r.Post("/showdown", s.handleShowdown)
		r.Post("/advise", s.handleAdvise)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}/events", s.handleRunEvents)
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// publish records an event and pushes it to subscribed clients
func (s *Server) publish(event events.Event) {
	if err := s.store.Append(event); err != nil {
		s.logger.Error("failed to store event", "event", event.EventName(), "error", err)
	}
	s.dispatcher.HandleEvent(event)
}

// Start serves on addr until ctx is done, then cancels active runs and
// shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		s.runner.CancelAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.runner.Wait()
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if api.IsInputError(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed", "path", r.URL.Path, "requestId", middleware.GetReqID(r.Context()), "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", api.ErrBadRequest, err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	cfg := s.calc.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":                 true,
		"ranker":             fmt.Sprintf("%T", cfg.Ranker),
		"exactnessThreshold": cfg.ExactnessThreshold,
		"trials":             cfg.Trials,
		"workers":            cfg.Workers,
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req api.EvaluateRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := api.Evaluate(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEquity runs a calculation synchronously. A client that goes away
// cancels the run.
func (s *Server) handleEquity(w http.ResponseWriter, r *http.Request) {
	var req api.EquityRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := s.runner.Run(r.Context(), uuid.NewString(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOuts(w http.ResponseWriter, r *http.Request) {
	var req api.OutsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := api.Outs(req, s.calc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleShowdown(w http.ResponseWriter, r *http.Request) {
	var req api.ShowdownRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := api.Showdown(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	var req api.AdviseRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := api.Advise(r.Context(), req, s.calc, s.advice, s.logger)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRuns lists the stored run IDs, oldest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"runs": s.store.Runs()})
}

func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	stored, err := s.store.LoadEvents(runID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(stored) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown run " + runID})
		return
	}

	out := make([]serverevents.EventEnvelope, 0, len(stored))
	for _, e := range stored {
		payload, err := json.Marshal(e)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, serverevents.EventEnvelope{Name: e.EventName(), Payload: payload})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("error upgrading to websocket", "error", err)
		return
	}

	// Create a new client with a unique ID
	client := connection.NewClient(uuid.NewString(), conn)
	s.logger.Info("client connected", "remote", r.RemoteAddr, "clientId", client.ID)

	// Register with connection manager
	s.connMgr.Register(client)

	// Handle reading and writing in separate goroutines
	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads commands from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		// Runs started by a client die with its connection.
		for _, runID := range s.connMgr.ClientRuns(client.ID) {
			_ = s.runner.Cancel(runID)
		}
		s.connMgr.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed", "clientId", client.ID, "error", err)
			}
			break
		}

		// Process the message through the command router
		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			s.logger.Debug("command rejected", "clientId", client.ID, "error", err)
			s.dispatcher.Reject(client.ID, err)
		}
	}
}

// writePump sends queued messages and keepalive pings to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			if !ok {
				// Channel closed
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("error writing message", "clientId", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingPeriod)); err != nil {
				return
			}
		}
	}
}
