package wallet

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/server"
)

// CreditBody is the body of POST /wallet/credit.
type CreditBody struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// CreditView is the success body of a credit.
type CreditView struct {
	NewBalance int64 `json:"new_balance"`
}

func (s *Service) handleCredit(w http.ResponseWriter, r *http.Request) {
	var body CreditBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	userID, err := parseUserID(body.UserID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	newBalance, err := s.Credit(r.Context(), userID, body.Amount)
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("Credit failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, CreditView{NewBalance: newBalance})
}

// PremiumBody is the body of POST /wallet/premium.
type PremiumBody struct {
	UserID string `json:"user_id"`
	Days   int    `json:"days"`
}

// PremiumView is the success body of a premium activation.
type PremiumView struct {
	PremiumUntil time.Time `json:"premium_until"`
}

func (s *Service) handlePremium(w http.ResponseWriter, r *http.Request) {
	var body PremiumBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	userID, err := parseUserID(body.UserID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	until, err := s.ActivatePremium(r.Context(), userID, body.Days)
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("ActivatePremium failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, PremiumView{PremiumUntil: until})
}

func parseUserID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("user_id must be a valid uint64")
	}
	return id, nil
}
