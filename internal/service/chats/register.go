package chats

import (
	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
)

// Registrar ties the chats service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chats service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the chats routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Get("/chats", s.handleList)
	r.Post("/chats/{id}/reopen", s.handleReopen)
	r.Post("/chats/{id}/message-summary", s.handleMessageSummary)
}
