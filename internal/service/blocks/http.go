package blocks

import (
	"encoding/json"
	"net/http"
	"strconv"

	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/server"
)

// BlockBody is the body of POST /blocks and DELETE /blocks.
type BlockBody struct {
	ActorUserID   string `json:"actor_user_id"`
	BlockedUserID string `json:"blocked_user_id"`
}

func (s *Service) handleBlock(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, err := decodePair(r)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	if err := s.Block(r.Context(), actorID, targetID); err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("BlockUser failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}
	server.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Service) handleUnblock(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, err := decodePair(r)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	if err := s.Unblock(r.Context(), actorID, targetID); err != nil {
		s.appCtx.Logger.Error("UnblockUser failed", "err", err)
		server.RespondError(w, err)
		return
	}
	server.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// BlockedIDsResponse is the body of GET /blocks.
type BlockedIDsResponse struct {
	BlockedUserIDs []string `json:"blocked_user_ids"`
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r.URL.Query().Get("user_id"), "user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	ids, err := s.BlockedIDs(r.Context(), userID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	resp := BlockedIDsResponse{BlockedUserIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		resp.BlockedUserIDs = append(resp.BlockedUserIDs, strconv.FormatUint(id, 10))
	}
	server.RespondJSON(w, http.StatusOK, resp)
}

func decodePair(r *http.Request) (uint64, uint64, error) {
	var body BlockBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return 0, 0, svcErr.InvalidArgument("invalid request body")
	}
	actorID, err := parseUserID(body.ActorUserID, "actor_user_id")
	if err != nil {
		return 0, 0, err
	}
	targetID, err := parseUserID(body.BlockedUserID, "blocked_user_id")
	if err != nil {
		return 0, 0, err
	}
	return actorID, targetID, nil
}

func parseUserID(raw, field string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("%s must be a valid uint64", field)
	}
	return id, nil
}
