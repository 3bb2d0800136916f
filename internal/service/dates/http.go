package dates

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

// RequestBody is the body of POST /dates.
type RequestBody struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Place      string `json:"place"`
}

// RequestView is the JSON shape of a date request.
type RequestView struct {
	ID           string     `json:"id"`
	FromUserID   string     `json:"from_user_id"`
	ToUserID     string     `json:"to_user_id"`
	Date         string     `json:"date"`
	Time         string     `json:"time"`
	Place        string     `json:"place"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	SeenBySender bool       `json:"seen_by_sender"`
}

func toView(r *db.DateRequest) RequestView {
	return RequestView{
		ID:           r.ID,
		FromUserID:   strconv.FormatUint(r.FromUserID, 10),
		ToUserID:     strconv.FormatUint(r.ToUserID, 10),
		Date:         r.Date,
		Time:         r.Time,
		Place:        r.Place,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
		RespondedAt:  r.RespondedAt,
		SeenBySender: r.SeenBySender,
	}
}

func (s *Service) handleRequest(w http.ResponseWriter, r *http.Request) {
	var body RequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	fromID, err := parseUserID(body.FromUserID, "from_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}
	toID, err := parseUserID(body.ToUserID, "to_user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	req, err := s.Request(r.Context(), fromID, toID, body.Date, body.Time, body.Place)
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("RequestDate failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusCreated, toView(req))
}

// RespondBody is the body of POST /dates/{id}/respond.
type RespondBody struct {
	Decision string `json:"decision"` // accepted | declined
}

// RespondView is the success body of a resolution.
type RespondView struct {
	Status string `json:"status"`
	ChatID string `json:"chat_id,omitempty"`
}

func (s *Service) handleRespond(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body RespondBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		server.RespondError(w, svcErr.InvalidArgument("invalid request body"))
		return
	}

	var accept bool
	switch body.Decision {
	case string(db.StatusAccepted):
		accept = true
	case string(db.StatusDeclined):
		accept = false
	default:
		server.RespondError(w, svcErr.InvalidArgument("decision must be accepted or declined"))
		return
	}

	res, err := s.Respond(r.Context(), id, accept)
	if err != nil {
		if !svcErr.IsBusiness(err) && !svcErr.IsInvalid(err) {
			s.appCtx.Logger.Error("RespondToDate failed", "err", err)
		}
		server.RespondError(w, err)
		return
	}

	server.RespondJSON(w, http.StatusOK, RespondView{
		Status: string(res.Status),
		ChatID: res.ChatID,
	})
}

func (s *Service) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	if err := s.MarkSeen(r.Context(), chi.URLParam(r, "id")); err != nil {
		server.RespondError(w, err)
		return
	}
	server.RespondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// ListResponse is the body of GET /dates.
type ListResponse struct {
	Requests []RequestView `json:"requests"`
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r.URL.Query().Get("user_id"), "user_id")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	box := Box(r.URL.Query().Get("box"))
	if box == "" {
		box = BoxReceived
	}

	reqs, err := s.List(r.Context(), userID, box)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	resp := ListResponse{Requests: make([]RequestView, 0, len(reqs))}
	for i := range reqs {
		resp.Requests = append(resp.Requests, toView(&reqs[i]))
	}
	server.RespondJSON(w, http.StatusOK, resp)
}

func parseUserID(raw, field string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument("%s must be a valid uint64", field)
	}
	return id, nil
}
