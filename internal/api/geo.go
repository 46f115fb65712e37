package api

import (
	"net/http"
	"strconv"

	"github.com/safepaws-ai/safepaws-backend/internal/geo"
)

// Thin proxies over the geo client so browser clients never talk to
// Nominatim/OSRM directly (their usage policies require a server-side
// User-Agent and rate control point).

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geo == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "geo services are not configured")
		return
	}
	place := r.URL.Query().Get("q")
	if place == "" {
		s.respondErr(w, http.StatusBadRequest, "q is required")
		return
	}
	pt, err := s.geo.Geocode(r.Context(), place)
	if err != nil {
		s.respondErr(w, http.StatusBadGateway, "geocoding failed")
		return
	}
	s.respond(w, http.StatusOK, pt)
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	if s.geo == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "geo services are not configured")
		return
	}
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		s.respondErr(w, http.StatusBadRequest, "lat and lon are required")
		return
	}
	addr, err := s.geo.ReverseGeocode(r.Context(), lat, lon)
	if err != nil {
		s.respondErr(w, http.StatusBadGateway, "reverse geocoding failed")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"address": addr})
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	if s.geo == nil {
		s.respondErr(w, http.StatusServiceUnavailable, "geo services are not configured")
		return
	}
	q := r.URL.Query()
	fromLat, err1 := strconv.ParseFloat(q.Get("from_lat"), 64)
	fromLon, err2 := strconv.ParseFloat(q.Get("from_lon"), 64)
	toLat, err3 := strconv.ParseFloat(q.Get("to_lat"), 64)
	toLon, err4 := strconv.ParseFloat(q.Get("to_lon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		s.respondErr(w, http.StatusBadRequest, "from_lat, from_lon, to_lat and to_lon are required")
		return
	}
	route, err := s.geo.Route(r.Context(),
		geo.Point{Lat: fromLat, Lon: fromLon},
		geo.Point{Lat: toLat, Lon: toLon},
	)
	if err != nil {
		s.respondErr(w, http.StatusBadGateway, "routing failed")
		return
	}
	s.respond(w, http.StatusOK, route)
}
