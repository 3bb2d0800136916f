package chats

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsedate/backend/internal/db"
	svcErr "github.com/pulsedate/backend/internal/errors"
	"github.com/pulsedate/backend/internal/server"
)

// ReopenBody is the body of POST /chats/{id}/reopen.
type ReopenBody struct {
	UserID string `json:"user_id"`
}

// ReopenView is the success body of a reopen.
type ReopenView struct {
	NewBalance  int64     `json:"new_balance"`
	ReopenUntil time.Time `json:"reopen_until"`
}

func (s *Service) handleReopen(w http.ResponseWriter, r *http.Request) {
	var body ReopenBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	userID, err := parseUserID(body.UserID, "user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	res, err := s.Reopen(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("ReopenChat failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, ReopenView{
		NewBalance:  res.NewBalance,
		ReopenUntil: res.ReopenUntil,
	})
}

// ThreadView is the JSON shape of a chat thread.
type ThreadView struct {
	ID              string     `json:"id"`
	Users           []string   `json:"users"`
	IsUnlocked      bool       `json:"is_unlocked"`
	DateAt          *time.Time `json:"date_at,omitempty"`
	ReopenUntil     *time.Time `json:"reopen_until,omitempty"`
	LastMessageText *string    `json:"last_message_text,omitempty"`
	LastMessageFrom *string    `json:"last_message_from,omitempty"`
	LastMessageAt   *time.Time `json:"last_message_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toView(c *db.ChatThread) ThreadView {
	v := ThreadView{
		ID: c.ID,
		Users: []string{
			strconv.FormatUint(c.UserAID, 10),
			strconv.FormatUint(c.UserBID, 10),
		},
		IsUnlocked:      c.IsUnlocked,
		DateAt:          c.DateAt,
		ReopenUntil:     c.ReopenUntil,
		LastMessageText: c.LastMessageText,
		LastMessageAt:   c.LastMessageAt,
		CreatedAt:       c.CreatedAt,
	}
	if c.LastMessageFrom != nil {
		from := strconv.FormatUint(*c.LastMessageFrom, 10)
		v.LastMessageFrom = &from
	}
	return v
}

// ListResponse is the body of GET /chats.
type ListResponse struct {
	Threads []ThreadView `json:"threads"`
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r.URL.Query().Get("user_id"), "user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	threads, err := s.ListForUser(r.Context(), userID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	resp := ListResponse{Threads: make([]ThreadView, 0, len(threads))}
	for i := range threads {
		resp.Threads = append(resp.Threads, toView(&threads[i]))
	}
	server.RespondJSON(w, http.StatusOK, resp)
}

// MessageSummaryBody is the body of POST /chats/{id}/message-summary,
// written by the external message transport.
type MessageSummaryBody struct {
	FromUserID string    `json:"from_user_id"`
	Text       string    `json:"text"`
	At         time.Time `json:"at"`
}

func (s *Service) handleMessageSummary(w http.ResponseWriter, r *http.Request) {
	var body MessageSummaryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	fromID, err := parseUserID(body.FromUserID, "from_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	at := body.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if err := s.SetLastMessage(r.Context(), chi.URLParam(r, "id"), fromID, body.Text, at); err != nil {
		server.RespondError(w, err)
		return
	}
	server.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func parseUserID(raw, field string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("%s must be a valid uint64", field)
	}
	return id, nil
}
