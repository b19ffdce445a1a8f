package api

import (
	"geohash-service/metrics"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func RegisterRoutes(s *Server) http.Handler {
	router := mux.NewRouter()

	// Geohash endpoints
	router.HandleFunc("/geohash/encode", s.Encode).Methods("GET")
	router.HandleFunc("/geohash/{hash}", s.Decode).Methods("GET")
	router.HandleFunc("/geohash/{hash}/adjacent/{direction}", s.Adjacent).Methods("GET")
	router.HandleFunc("/geohash/{hash}/neighbors", s.Neighbors).Methods("GET")
	router.HandleFunc("/regions", s.Region).Methods("POST")

	// Point index endpoints
	router.HandleFunc("/points", s.CreatePoint).Methods("POST")
	router.HandleFunc("/points/search", s.SearchPoints).Methods("GET")
	router.HandleFunc("/points/match", s.MatchPoint).Methods("GET")
	router.HandleFunc("/points/nearby", s.NearbyPoints).Methods("GET")
	router.HandleFunc("/points/{id}", s.DeletePoint).Methods("DELETE")

	router.HandleFunc("/healthz", s.Healthz).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	return handlers.RecoveryHandler()(cors(router))
}
