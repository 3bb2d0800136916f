package wallet

import (
	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
)

// Registrar ties the wallet service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the wallet service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the wallet routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Post("/wallet/credit", s.handleCredit)
	r.Post("/wallet/premium", s.handlePremium)
}
