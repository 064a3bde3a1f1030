package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/ingest/alpha"
	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/planner"
	"github.com/claude/liftcoach/internal/storage"
)

// historyWindow is how many recent sessions per exercise feed the planner.
const historyWindow = 10

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	alpha     *alpha.Provider
	planner   *planner.Planner
	catalog   *catalog.Catalog
	inventory loading.Inventory
	log       *slog.Logger
	apiKey    string
	userID    int
	router    chi.Router
}

// New creates a new Server with all routes configured. userID is the row
// all reads and writes are scoped to; main resolves it through
// storage.GetOrCreateUser before the server accepts traffic.
func New(db *storage.DB, alphaProvider *alpha.Provider, pl *planner.Planner, cat *catalog.Catalog, inv loading.Inventory, apiKey string, userID int, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		alpha:     alphaProvider,
		planner:   pl,
		catalog:   cat,
		inventory: inv,
		log:       log,
		apiKey:    apiKey,
		userID:    userID,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/alpha", s.handleAlphaIngest)
		r.Post("/session", s.handleLogSession)
	})

	// Coaching endpoints (no auth — tsnet handles access)
	s.router.Post("/api/v1/plan", s.handlePlan)
	s.router.Get("/api/v1/stall/{exercise}", s.handleCheckStall)
	s.router.Get("/api/v1/substitute/{exercise}", s.handleSubstitute)
	s.router.Get("/api/v1/estimate", s.handleEstimate)
	s.router.Get("/api/v1/history/{exercise}", s.handleHistory)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/logged", s.handleLoggedExercises)

	// Profile endpoints
	s.router.Get("/api/v1/equipment", s.handleGetEquipment)
	s.router.Put("/api/v1/equipment", s.handlePutEquipment)
	s.router.Get("/api/v1/pain", s.handleGetPainFlags)
	s.router.Post("/api/v1/pain", s.handlePostPainFlag)
	s.router.Get("/api/v1/templates", s.handleListTemplates)
	s.router.Get("/api/v1/templates/{name}", s.handleGetTemplate)
	s.router.Put("/api/v1/templates/{name}", s.handlePutTemplate)
}
