package engage

import (
	"encoding/json"
	"net/http"
	"strconv"

	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/server"
)

// LikeRequest is the body of POST /likes. User ids travel as decimal
// strings on the wire.
type LikeRequest struct {
	ActorUserID     string `json:"actor_user_id"`
	RecipientUserID string `json:"recipient_user_id"`
}

// LikeResponse is the body of a successful like.
type LikeResponse struct {
	Mutual         bool   `json:"mutual"`
	ChatID         string `json:"chat_id,omitempty"`
	DailyLikeCount int    `json:"daily_like_count"`
}

func (s *Service) handleLike(w http.ResponseWriter, r *http.Request) {
	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	actorID, err := parseUserID(req.ActorUserID, "actor_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}
	recipientID, err := parseUserID(req.RecipientUserID, "recipient_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	res, err := s.Like(r.Context(), actorID, recipientID)
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("Like failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, LikeResponse{
		Mutual:         res.Mutual,
		ChatID:         res.ChatID,
		DailyLikeCount: res.DailyLikeCount,
	})
}

// LikedCountResponse is the body of GET /likes/count.
type LikedCountResponse struct {
	Count uint64 `json:"count"`
}

func (s *Service) handleLikedCount(w http.ResponseWriter, r *http.Request) {
	recipientID, err := parseUserID(r.URL.Query().Get("recipient_user_id"), "recipient_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	count, err := s.LikedCount(r.Context(), recipientID)
	if err != nil {
		s.appCtx.Logger.Error("LikedCount failed", "err", err)
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, LikedCountResponse{Count: uint64(count)})
}

// ListLikersResponse is the body of GET /likes.
type ListLikersResponse struct {
	Likers              []Liker `json:"likers"`
	NextPaginationToken *string `json:"next_pagination_token,omitempty"`
}

func (s *Service) handleListLikers(w http.ResponseWriter, r *http.Request) {
	recipientID, err := parseUserID(r.URL.Query().Get("recipient_user_id"), "recipient_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	var token *string
	if t := r.URL.Query().Get("pagination_token"); t != "" {
		token = &t
	}

	likers, nextToken, err := s.ListLikers(r.Context(), recipientID, token, 20)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, ListLikersResponse{
		Likers:              likers,
		NextPaginationToken: nextToken,
	})
}

func parseUserID(raw, field string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("%s must be a valid uint64", field)
	}
	return id, nil
}
