package cli

import (
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/commands"
	"github.com/felixgeelhaar/nightshift/internal/hobby/application/queries"
	"github.com/felixgeelhaar/nightshift/internal/hobby/domain"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	PlanRewriteHandler  *commands.PlanRewriteHandler
	ApplyRewriteHandler *commands.ApplyRewriteHandler

	// Query Handlers
	ListRewriteRunsHandler *queries.ListRewriteRunsHandler

	// DefaultHours are the configured hobby hours before flag overrides.
	DefaultHours domain.HobbyHours
}

// NewApp creates a new CLI application with the given handlers.
func NewApp(
	planRewriteHandler *commands.PlanRewriteHandler,
	applyRewriteHandler *commands.ApplyRewriteHandler,
	listRewriteRunsHandler *queries.ListRewriteRunsHandler,
	defaultHours domain.HobbyHours,
) *App {
	return &App{
		PlanRewriteHandler:     planRewriteHandler,
		ApplyRewriteHandler:    applyRewriteHandler,
		ListRewriteRunsHandler: listRewriteRunsHandler,
		DefaultHours:           defaultHours,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
