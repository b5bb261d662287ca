// Package api exposes the screening and approval-reconciliation engine over
// REST/JSON, plus a websocket stream of verdict events for operator
// dashboards. Grounded on the teacher's internal/api/server.go router/CORS
// shape (gorilla/mux, a `r.Use` CORS middleware, one HandleFunc per
// endpoint) and internal/handlers/hitl.go's decision-recording handler
// shape, adapted from escrow/HITL governance to risk-screening verticals.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oceanic/riskscreen/internal/events"
	"github.com/oceanic/riskscreen/internal/metrics"
	"github.com/oceanic/riskscreen/internal/middleware"
	"github.com/oceanic/riskscreen/internal/models"
	"github.com/oceanic/riskscreen/internal/orchestrator"
	"github.com/oceanic/riskscreen/internal/registry"
)

// Orchestrator is the subset of orchestrator.Orchestrator the API depends
// on. Declared locally (rather than imported as a concrete type) so tests
// substitute a fake without a live adapter/store stack, matching the
// narrow-interface pattern used throughout internal/orchestrator.
type Orchestrator interface {
	Screen(ctx context.Context, req orchestrator.ScreeningRequest) (models.OperationVerdict, error)
}

// Reconciler is the subset of reconciliation.Reconciler the API depends on.
type Reconciler interface {
	Reconcile(ctx context.Context, operationID string) (models.OperationVerdict, bool, error)
}

// ApprovalStore is the subset of store.Store the approval endpoint needs to
// persist incoming approvals before triggering reconciliation.
type ApprovalStore interface {
	AppendApprovals(ctx context.Context, approvals []models.ApprovalRecord) error
}

// Server wires the screening orchestrator, the approval reconciler, the
// check registry (for the introspection endpoint), the event bus (for the
// websocket stream) and metrics into one HTTP surface.
type Server struct {
	orchestrator Orchestrator
	reconciler   Reconciler
	approvals    ApprovalStore
	registry     *registry.Registry
	bus          *events.EventBus
	metrics      *metrics.Metrics
	rateLimiter  *middleware.RateLimiter
	corsOrigins  []string
}

// New wires a Server from its dependencies.
func New(
	orch Orchestrator,
	reconciler Reconciler,
	approvals ApprovalStore,
	reg *registry.Registry,
	bus *events.EventBus,
	m *metrics.Metrics,
	rl *middleware.RateLimiter,
	corsOrigins []string,
) *Server {
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	return &Server{
		orchestrator: orch, reconciler: reconciler, approvals: approvals,
		registry: reg, bus: bus, metrics: m, rateLimiter: rl, corsOrigins: corsOrigins,
	}
}

// Router builds the mux.Router with every route and middleware attached.
// Kept separate from Start so tests can exercise the handler chain with
// httptest without binding a real socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(s.cors)
	r.Use(middleware.Recover)
	r.Use(middleware.RequestLogging)
	if s.rateLimiter != nil {
		r.Use(s.rateLimiter.Middleware)
	}

	r.HandleFunc("/healthz", s.handleHealth).Methods("GET", "OPTIONS")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/api/v1/screen/sts-bunkering", s.handleScreen("sts_bunkering")).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/screen/purchase", s.handleScreen("purchase")).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/screen/second-hand-disposal", s.handleScreen("second_hand_disposal")).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/screen/warehousing", s.handleScreen("warehousing")).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/screen/voyage", s.handleScreen("voyage")).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/v1/approvals", s.handleApproval).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/checks", s.handleListChecks).Methods("GET")
	r.HandleFunc("/api/v1/stream/verdicts", s.handleVerdictStream)

	return r
}

// Start binds and serves the router on addr, matching the teacher's
// "log then ListenAndServe" shape.
func (s *Server) Start(addr string) error {
	slog.Info("api: listening", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

// cors mirrors the teacher's permissive dev-mode CORS middleware. When
// exactly one origin is configured it is the allowed origin; with none or
// with several configured, every origin is allowed ("*").
func (s *Server) cors(next http.Handler) http.Handler {
	origin := "*"
	if len(s.corsOrigins) == 1 {
		origin = s.corsOrigins[0]
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Operator-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}

// handleListChecks exposes the check descriptor catalog for operator
// tooling (spec §4.C: the registry is the only place vertical inclusion is
// expressed, so it is worth introspecting directly).
func (s *Server) handleListChecks(w http.ResponseWriter, r *http.Request) {
	data, err := s.registry.ExportDescriptors()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
