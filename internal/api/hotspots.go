package api

import "net/http"

// handleListHotspots returns the map annotations, optionally filtered by
// category. Public — the risk map is the one screen shown before login.
func (s *Server) handleListHotspots(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		s.respond(w, http.StatusOK, s.store.HotspotsByCategory(category))
		return
	}
	s.respond(w, http.StatusOK, s.store.ListHotspots())
}
