package blocks

import (
	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
)

// Registrar ties the blocks service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the blocks service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the blocks routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Post("/blocks", s.handleBlock)
	r.Delete("/blocks", s.handleUnblock)
	r.Get("/blocks", s.handleList)
}
