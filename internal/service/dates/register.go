package dates

import (
	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
)

// Registrar ties the dates service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the dates service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the dates routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Post("/dates", s.handleRequest)
	r.Get("/dates", s.handleList)
	r.Post("/dates/{id}/respond", s.handleRespond)
	r.Post("/dates/{id}/seen", s.handleMarkSeen)
}
