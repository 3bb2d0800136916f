// Package admin exposes the limit-config row to the administrator
// configuration surface. The engine itself never reads it directly; quota
// decisions consume snapshots through the limits provider.
package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/app"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/limits"
	"github.com/pulsedate/backend/internal/server"
)

// Service reads and writes tier limit values.
type Service struct {
	appCtx *app.AppContext
}

// NewService creates the admin service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

func (s *Service) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	server.RespondJSON(w, http.StatusOK, s.appCtx.Limits.Snapshot(r.Context()))
}

func (s *Service) handlePutLimits(w http.ResponseWriter, r *http.Request) {
	var l limits.Limits
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}
	if l.FreeDailyLikeCount < 0 || l.FreeDailyDateCount < 0 ||
		l.PremiumDailyLikeCount < 0 || l.PremiumDailyDateCount < 0 {
		server.RespondError(w, svcErr.InvalidArgument("limits must be non-negative"))
		return
	}

	if err := s.appCtx.Limits.Update(r.Context(), l); err != nil {
		s.appCtx.Logger.Error("limit update failed", "err", err)
		server.RespondError(w, err)
		return
	}
	server.RespondJSON(w, http.StatusOK, l)
}

// Registrar ties the admin service into the HTTP server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the admin service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the admin routes to the router
func (reg *Registrar) Register(r chi.Router) {
	s := NewService(reg.appCtx)
	r.Get("/admin/limits", s.handleGetLimits)
	r.Put("/admin/limits", s.handlePutLimits)
}
