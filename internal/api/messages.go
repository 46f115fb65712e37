package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ─────────────────────────────────────────────
// TYPES
// ─────────────────────────────────────────────

type messageRequest struct {
	To   string `json:"to"` // recipient email
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// HANDLERS
// ─────────────────────────────────────────────

// handleListConversations returns the caller's threads with their unread
// count so the client can badge the inbox.
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	s.respond(w, http.StatusOK, map[string]any{
		"conversations": s.store.ConversationsFor(user.Email),
		"unread":        s.store.UnreadCount(user.Email),
	})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	convoID := chi.URLParam(r, "id")

	if !s.isMember(convoID, user.Email) {
		s.respondErr(w, http.StatusForbidden, "not a member of this conversation")
		return
	}
	s.respond(w, http.StatusOK, s.store.MessagesByConversation(convoID))
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	convoID := chi.URLParam(r, "id")

	if !s.isMember(convoID, user.Email) {
		s.respondErr(w, http.StatusForbidden, "not a member of this conversation")
		return
	}
	if err := s.store.MarkRead(convoID, user.Email); err != nil {
		s.respondErr(w, storeErrStatus(err), err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleSendMessage delivers a direct message, creating the 1:1 thread on
// first contact.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)

	var req messageRequest
	if err := decode(r, &req); err != nil {
		s.respondErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondErr(w, http.StatusBadRequest, "message text is required")
		return
	}
	if _, err := s.store.UserByEmail(req.To); err != nil {
		s.respondErr(w, http.StatusBadRequest, "recipient is not a registered user")
		return
	}

	msg, err := s.store.SendMessage(user.Email, req.To, req.Text)
	if err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not send message")
		return
	}
	s.respond(w, http.StatusCreated, msg)
}

// ─────────────────────────────────────────────
// HELPERS
// ─────────────────────────────────────────────

func (s *Server) isMember(convoID, email string) bool {
	for _, c := range s.store.ListConversations() {
		if c.ID != convoID {
			continue
		}
		for _, m := range c.Members {
			if strings.EqualFold(m, email) {
				return true
			}
		}
	}
	return false
}
