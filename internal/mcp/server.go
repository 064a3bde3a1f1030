package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/liftcoach/internal/catalog"
	"github.com/claude/liftcoach/internal/loading"
	"github.com/claude/liftcoach/internal/planner"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
// The catalog, planner, and inventory are local in both transport modes;
// only the session data behind ds may live on a remote server.
func New(ds DataSource, cat *catalog.Catalog, pl *planner.Planner, inv loading.Inventory, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftCoach strength training coach. Plan the next workout, check for stalled lifts, find exercise substitutions, and estimate one-rep maxes. All data is scoped to the authenticated lifter."),
	)

	h := &handlers{ds: ds, cat: cat, planner: pl, inventory: inv, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolPlanNextSession, Handler: h.planNextSession},
		server.ServerTool{Tool: toolCheckStall, Handler: h.checkStall},
		server.ServerTool{Tool: toolFindSubstitute, Handler: h.findSubstitute},
		server.ServerTool{Tool: toolEstimate1RM, Handler: h.estimate1RM},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resTrainingStatus, Handler: h.trainingStatus},
		server.ServerResource{Resource: resPlateInventory, Handler: h.plateInventory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	cat       *catalog.Catalog
	planner   *planner.Planner
	inventory loading.Inventory
	log       *slog.Logger
}
