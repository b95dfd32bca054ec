package server

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListTariffs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// the catalog is immutable for the life of the process
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if err := json.NewEncoder(w).Encode(s.catalog.Tariffs()); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleFtRates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if err := json.NewEncoder(w).Encode(s.catalog.FtPeriods()); err != nil {
		panic(http.ErrAbortHandler)
	}
}
