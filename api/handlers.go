package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geohash-service/cache"
	"geohash-service/geohash"
	"geohash-service/geoindex"
	"geohash-service/matching"
	"geohash-service/metrics"
	"geohash-service/models"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// RegionCache stores region enumerations between requests.
type RegionCache interface {
	Get(ctx context.Context, key cache.RegionKey) ([]string, bool, error)
	Set(ctx context.Context, key cache.RegionKey, hashes []string) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Index          geoindex.Index
	IndexPrecision uint
	MatchPrecision uint
	// MaxRegionCells caps the limit of a region request; a zero request limit means this cap.
	MaxRegionCells uint
	// Cache is optional.
	Cache  RegionCache
	Logger *slog.Logger
}

func (s *Server) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

const (
	defaultNearbySpan    = 0.01
	defaultNearbyRetries = 5
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, geohash.ErrInvalidPrecision),
		errors.Is(err, geohash.ErrInvalidSymbol),
		errors.Is(err, geohash.ErrInvalidDirection),
		errors.Is(err, geoindex.ErrInvalidPoint):
		return http.StatusBadRequest
	case errors.Is(err, geohash.ErrEndOfMap),
		errors.Is(err, matching.ErrNoMatch),
		errors.Is(err, geoindex.ErrNoPoints):
		return http.StatusNotFound
	case errors.Is(err, geohash.ErrCellsLimitExceeded):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log().Error("request_failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func floatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return v, nil
}

func uintParam(r *http.Request, name string) (uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, badRequest("missing %s", name)
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return uint(v), nil
}

func cellResponse(hash string) (models.Cell, error) {
	box, err := geohash.Decode(hash)
	if err != nil {
		return models.Cell{}, err
	}
	return models.NewCell(hash, box), nil
}

// Encode handles GET /geohash/encode?lat=&lon=&precision=
func (s *Server) Encode(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	precision, err := uintParam(r, "precision")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hash, err := geohash.Encode(lat, lon, precision)
	metrics.Observe("encode", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cell, err := cellResponse(hash)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

// Decode handles GET /geohash/{hash}
func (s *Server) Decode(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]
	cell, err := cellResponse(hash)
	metrics.Observe("decode", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

// Adjacent handles GET /geohash/{hash}/adjacent/{direction}
func (s *Server) Adjacent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dir, err := geohash.ParseDirection(vars["direction"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	next, err := geohash.Adjacent(vars["hash"], dir)
	metrics.Observe("adjacent", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cell, err := cellResponse(next)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

// Neighbors handles GET /geohash/{hash}/neighbors
func (s *Server) Neighbors(w http.ResponseWriter, r *http.Request) {
	hash := mux.Vars(r)["hash"]
	neighbors, err := geohash.Neighbors(hash)
	metrics.Observe("neighbors", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hash":      hash,
		"neighbors": neighbors,
	})
}

// Region handles POST /regions
func (s *Server) Region(w http.ResponseWriter, r *http.Request) {
	var req models.Region
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, badRequest("invalid request payload"))
		return
	}

	limit := req.Limit
	if limit == 0 || limit > s.MaxRegionCells {
		limit = s.MaxRegionCells
	}

	hashes, cached, err := s.region(r.Context(), req, limit)
	metrics.Observe("region", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	metrics.RegionCells.Observe(float64(len(hashes)))
	writeJSON(w, http.StatusOK, map[string]any{
		"hashes": hashes,
		"count":  len(hashes),
		"cached": cached,
	})
}

func (s *Server) region(ctx context.Context, req models.Region, limit uint) ([]string, bool, error) {
	key := cache.RegionKey{
		LatMin: req.LatMin, LatMax: req.LatMax,
		LonMin: req.LonMin, LonMax: req.LonMax,
		Precision: req.Precision,
	}

	if s.Cache != nil && req.Precision <= geohash.MaxPrecision {
		hashes, ok, err := s.Cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RegionCache.WithLabelValues("error").Inc()
			s.log().Warn("region_cache_get_failed", "key", key.String(), "err", err)
		case ok:
			metrics.RegionCache.WithLabelValues("hit").Inc()
			if uint(len(hashes)) > limit {
				return nil, false, fmt.Errorf("%w: %d cells, limit %d", geohash.ErrCellsLimitExceeded, len(hashes), limit)
			}
			return hashes, true, nil
		default:
			metrics.RegionCache.WithLabelValues("miss").Inc()
		}
	}

	hashes, err := geohash.RegionToHashes(req.LatMin, req.LatMax, req.LonMin, req.LonMax, req.Precision, limit)
	if err != nil {
		return nil, false, err
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, hashes); err != nil {
			s.log().Warn("region_cache_set_failed", "key", key.String(), "err", err)
		}
	}
	return hashes, false, nil
}

// CreatePoint handles POST /points
func (s *Server) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var p models.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, r, badRequest("invalid request payload"))
		return
	}
	if err := s.Index.Insert(p); err != nil {
		s.writeError(w, r, err)
		return
	}

	hash, err := geohash.Encode(p.Latitude, p.Longitude, s.IndexPrecision)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p.Geohash = hash
	s.log().Debug("point_indexed", "id", p.ID, "geohash", hash)
	writeJSON(w, http.StatusCreated, p)
}

// DeletePoint handles DELETE /points/{id}
func (s *Server) DeletePoint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !s.Index.Remove(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "point not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchPoints handles GET /points/search?lat_min=&lat_max=&lon_min=&lon_max=
func (s *Server) SearchPoints(w http.ResponseWriter, r *http.Request) {
	var bounds [4]float64
	for i, name := range []string{"lat_min", "lat_max", "lon_min", "lon_max"} {
		v, err := floatParam(r, name)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		bounds[i] = v
	}

	points, err := s.Index.Search(geohash.NewBox(bounds[0], bounds[1], bounds[2], bounds[3]))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if points == nil {
		points = []models.Point{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// MatchPoint handles GET /points/match?lat=&lon=. Every other query
// parameter must match a tag of the returned point.
func (s *Server) MatchPoint(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tags := make(map[string]string)
	for k, v := range r.URL.Query() {
		if k != "lat" && k != "lon" && len(v) > 0 {
			tags[k] = v[0]
		}
	}

	p, err := matching.FindInNeighborhood(s.cellLookup(), lat, lon, s.MatchPrecision, matching.MatchTags(tags))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// cellLookup reads a CellIndex of the match precision directly and adapts
// any other index.
func (s *Server) cellLookup() matching.CellLookup {
	if ci, ok := s.Index.(*geoindex.CellIndex); ok && ci.Precision() == s.MatchPrecision {
		return ci
	}
	return matching.Cells(s.Index)
}

// NearbyPoints handles GET /points/nearby?lat=&lon=&span=&retries=
// The search box starts span degrees around the position and doubles until
// a point is found.
func (s *Server) NearbyPoints(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "lat")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	lon, err := floatParam(r, "lon")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	span := defaultNearbySpan
	if r.URL.Query().Has("span") {
		if span, err = floatParam(r, "span"); err != nil {
			s.writeError(w, r, err)
			return
		}
		if span <= 0 {
			s.writeError(w, r, badRequest("span must be positive"))
			return
		}
	}
	retries := uint(defaultNearbyRetries)
	if r.URL.Query().Has("retries") {
		if retries, err = uintParam(r, "retries"); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	points, err := geoindex.SearchAround(s.Index, lat, lon, span, int(retries))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": points})
}

// Healthz handles GET /healthz
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"points": s.Index.Len(),
	})
}
