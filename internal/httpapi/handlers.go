package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dmitrijs2005/logboard/internal/auth"
	"github.com/dmitrijs2005/logboard/internal/common"
	"github.com/dmitrijs2005/logboard/internal/models"
	"github.com/dmitrijs2005/logboard/internal/session"
	"github.com/go-chi/chi/v5"
)

type createSessionRequest struct {
	User string `json:"user"`
}

type createSessionResponse struct {
	Token string       `json:"token"`
	View  session.View `json:"view"`
}

type userRequest struct {
	User string `json:"user"`
}

// filterRequest changes only the fields that are present. Date takes
// "YYYY-MM-DD", "today", or "" / "off" to drop the date filter.
type filterRequest struct {
	Date     *string `json:"date"`
	Keyword  *string `json:"keyword"`
	OpenOnly *bool   `json:"open_only"`
}

type editorRequest struct {
	HTML     string `json:"html"`
	Category string `json:"category,omitempty"`
}

type replyRequest struct {
	HTML string `json:"html"`
}

// apply runs actions against the request's session in order, stopping at
// the first failure, and writes the resulting view or error.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, actions ...session.Action) {
	h := handleFrom(r.Context())
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, a := range actions {
		if err := h.ctrl.Dispatch(r.Context(), a); err != nil {
			writeError(w, err, h.ctrl.State().Status)
			return
		}
	}
	writeJSON(w, http.StatusOK, h.ctrl.View())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	user, err := models.ParseUser(req.User)
	if err != nil {
		writeError(w, err, "")
		return
	}

	ctrl, err := s.registry.Create(r.Context(), user)
	if err != nil {
		s.log.Error(r.Context(), "session start failed", "error", err)
		writeError(w, err, "")
		return
	}

	token, err := auth.GenerateToken(ctrl.ID(), string(user), s.secret, s.ttl)
	if err != nil {
		s.log.Error(r.Context(), "token signing failed", "error", err)
		writeError(w, err, "")
		return
	}

	s.log.Info(r.Context(), "session started", "session", ctrl.ID(), "user", user)
	writeJSON(w, http.StatusCreated, createSessionResponse{Token: token, View: ctrl.View()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r)
}

func (s *Server) handleSelectUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	user, err := models.ParseUser(req.User)
	if err != nil {
		writeError(w, err, "")
		return
	}
	s.apply(w, r, session.SelectUser{User: user})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	var actions []session.Action
	if req.Date != nil {
		a, err := s.dateAction(r, *req.Date)
		if err != nil {
			writeError(w, err, "")
			return
		}
		actions = append(actions, a)
	}
	if req.Keyword != nil {
		actions = append(actions, session.SetKeyword{Keyword: *req.Keyword})
	}
	if req.OpenOnly != nil {
		actions = append(actions, session.SetOpenOnly{On: *req.OpenOnly})
	}
	s.apply(w, r, actions...)
}

func (s *Server) dateAction(r *http.Request, raw string) (session.Action, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "", "off":
		return session.ClearDateFilter{}, nil
	case "today":
		return session.SetDateFilter{Date: handleFrom(r.Context()).ctrl.Today()}, nil
	default:
		d, err := parseDate(v)
		if err != nil {
			return nil, err
		}
		return session.SetDateFilter{Date: d}, nil
	}
}

func parseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: date %q: want YYYY-MM-DD", errBadRequest, s)
	}
	return d, nil
}

func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	var req editorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}

	actions := []session.Action{session.EditDraft{HTML: req.HTML}}
	if req.Category != "" {
		cat, err := models.ParseCategory(req.Category)
		if err != nil {
			writeError(w, err, "")
			return
		}
		actions = append(actions, session.SelectCategory{Category: cat})
	}
	s.apply(w, r, actions...)
}

func (s *Server) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.SubmitDraft{})
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.ClearDraft{})
}

func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", errBadRequest, raw)
	}
	return i, nil
}

func (s *Server) handleCloseEntry(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	s.apply(w, r, session.CloseEntry{Index: i})
}

func (s *Server) handleOpenReply(w http.ResponseWriter, r *http.Request) {
	i, err := indexParam(r)
	if err != nil {
		writeError(w, err, "")
		return
	}
	s.apply(w, r, session.OpenReply{Index: i})
}

func (s *Server) handleEditReply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	s.apply(w, r, session.EditReply{HTML: req.HTML})
}

func (s *Server) handleSendReply(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.SendReply{})
}

func (s *Server) handleCancelReply(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.CancelReply{})
}

// handleDelete clears the board, or only the given ?date=YYYY-MM-DD.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	pass := r.Header.Get(common.AdminPassphraseHeaderName)

	q := r.URL.Query()
	if !q.Has("date") {
		s.apply(w, r, session.DeleteAll{Passphrase: pass})
		return
	}

	d, err := parseDate(q.Get("date"))
	if err != nil {
		writeError(w, err, "")
		return
	}
	s.apply(w, r, session.DeleteByDate{Passphrase: pass, Date: d})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.Reload{})
}
