package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/quickchat/chat-server-go/internal/errors"
	"github.com/quickchat/chat-server-go/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
	rateLimit      func(http.Handler) http.Handler
}

// NewSessionHandler builds the API handler. rateLimit guards the mutation
// endpoints only; polling reads are left unthrottled. Pass nil to disable.
func NewSessionHandler(sessionService *service.SessionService, rateLimit func(http.Handler) http.Handler) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		rateLimit:      rateLimit,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		if h.rateLimit != nil {
			r.Use(h.rateLimit)
		}
		r.Post("/sessions/create", h.CreateSession)
		r.Post("/sessions/join", h.JoinSession)
		r.Post("/messages/send", h.SendMessage)
	})

	r.Get("/sessions/{code}", h.GetSessionSummary)
	r.Get("/messages/{code}", h.GetMessages)

	return r
}

// POST /api/sessions/create
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"userName"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.sessionService.Create(r.Context(), req.UserName)
	if err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("failed to create session")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /api/sessions/join
func (h *SessionHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		UserName string `json:"userName"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.sessionService.Join(r.Context(), req.Code, req.UserName)
	if err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("failed to join session")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// POST /api/messages/send
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code    string `json:"code"`
		UserID  string `json:"userId"`
		Message string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.sessionService.PostMessage(r.Context(), req.Code, req.UserID, req.Message); err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("failed to post message")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GET /api/messages/{code}?since=T
func (h *SessionHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var since *int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, apperrors.InvalidInput("since", "must be an integer timestamp"))
			return
		}
		since = &ts
	}

	result, err := h.sessionService.ListMessages(r.Context(), code, since)
	if err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("failed to list messages")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GET /api/sessions/{code}
func (h *SessionHandler) GetSessionSummary(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	result, err := h.sessionService.GetSummary(r.Context(), code)
	if err != nil {
		if !apperrors.IsAppError(err) {
			log.Error().Err(err).Msg("failed to get session summary")
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
