package api

import "net/http"

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	s.respond(w, http.StatusOK, s.store.NotificationsFor(user.Email))
}

func (s *Server) handleMarkNotificationsSeen(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r)
	if err := s.store.MarkNotificationsSeen(user.Email); err != nil {
		s.respondErr(w, http.StatusInternalServerError, "could not update notifications")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "seen"})
}
