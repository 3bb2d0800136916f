package engage

import (
	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
)

// Registrar ties the engage service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the engage service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the engage routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Post("/likes", s.handleLike)
	r.Get("/likes", s.handleListLikers)
	r.Get("/likes/count", s.handleLikedCount)
}
