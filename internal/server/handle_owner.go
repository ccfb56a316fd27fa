package server

import (
	"net/http"

	"github.com/playperu/jurybot/internal/festival"
	"github.com/playperu/jurybot/internal/voting"
)

func handleRanking(svc *voting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Ranking())
	}
}

func handleArtists(svc *voting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		artists := svc.Artists()
		if artists == nil {
			artists = []festival.Artist{}
		}
		writeJSON(w, http.StatusOK, artists)
	}
}

func handleJuries(svc *voting.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Juries())
	}
}
