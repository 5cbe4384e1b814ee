// Package handler wires the router's HTTP surface, grounded directly on
// the teacher's transport_handler.go: same method shapes (GetAllLines,
// GetLineDetails, GetStops, GetStopDetails) kept as thin catalog pass-
// throughs, and GetRoute generalized from "nearest stop, single best
// journey" to "named origin/destination stations, ranked Pareto
// frontier" per spec §6.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/antigravity/transit-mc-router/internal/catalog"
	"github.com/antigravity/transit-mc-router/internal/query"
	"github.com/antigravity/transit-mc-router/internal/transit"
)

// Handler serves the transit router's HTTP API over a catalog (for plain
// listing endpoints) and a query.Service (for route search).
type Handler struct {
	Catalog catalog.Catalog
	Query   *query.Service
}

func New(cat catalog.Catalog, svc *query.Service) *Handler {
	return &Handler{Catalog: cat, Query: svc}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// GetStations mirrors the teacher's GetStops, minus the viewport filter —
// spec.md's catalog has no bounding-box query, so this lists everything the
// catalog knows about.
func (h *Handler) GetStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.Catalog.Stations(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stations)
}

// GetStation mirrors the teacher's GetStopDetails.
func (h *Handler) GetStation(w http.ResponseWriter, r *http.Request) {
	id := transit.StationID(chi.URLParam(r, "id"))
	station, found, err := h.Catalog.Station(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "station not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, station)
}

// GetLines mirrors the teacher's GetAllLines.
func (h *Handler) GetLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Catalog.Lines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

// GetLineDetails mirrors the teacher's GetLineDetails, scanning the full
// line list for the requested code rather than a dedicated by-ID query —
// the catalog interface has no single-line lookup, since spec.md's Line
// type has no dense integer id to query by.
func (h *Handler) GetLineDetails(w http.ResponseWriter, r *http.Request) {
	id := transit.LineID(chi.URLParam(r, "id"))
	lines, err := h.Catalog.Lines(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, l := range lines {
		if l.ID == id {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	http.Error(w, "line not found", http.StatusNotFound)
}

// GetRoute parses origin, destination(s), rider profile, departure time,
// and max_rounds from the query string and returns the ranked
// Pareto frontier, generalizing the teacher's single-journey GetRoute.
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	origin := transit.StationID(q.Get("origin"))
	if origin == "" {
		http.Error(w, "missing origin station", http.StatusBadRequest)
		return
	}

	destParam := q.Get("destinations")
	if destParam == "" {
		http.Error(w, "missing destinations", http.StatusBadRequest)
		return
	}
	var destinations []transit.StationID
	for _, id := range strings.Split(destParam, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			destinations = append(destinations, transit.StationID(id))
		}
	}

	profile := transit.Profile(strings.ToUpper(q.Get("profile")))

	departure := time.Now()
	if t := q.Get("time"); t != "" {
		if parsed, err := strconv.Atoi(t); err == nil && parsed >= 0 && parsed < 86400 {
			departure = time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, departure.Location()).
				Add(time.Duration(parsed) * time.Minute)
		}
	}

	maxRounds := 0
	if mr := q.Get("max_rounds"); mr != "" {
		if parsed, err := strconv.Atoi(mr); err == nil {
			maxRounds = parsed
		}
	}

	result, err := h.Query.Run(r.Context(), query.Request{
		Origin:       origin,
		Destinations: destinations,
		Departure:    departure,
		Profile:      profile,
		MaxRounds:    maxRounds,
	})
	if err != nil {
		switch {
		case errors.Is(err, query.ErrUnknownStation), errors.Is(err, query.ErrUnknownProfile), errors.Is(err, query.ErrEmptyDestinationSet):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	// Per spec §7: zero routes found is success, not an error; a deadline
	// cutoff reports Partial rather than failing the request.
	writeJSON(w, http.StatusOK, result)
}
