package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
)

type PowerUpInfo struct {
	Kind        string  `json:"kind"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Color       string  `json:"color"`
	Seconds     float64 `json:"seconds"`
	SpawnWeight int     `json:"spawn_weight"`
}

func powerUpInfos() []PowerUpInfo {
	specs := model.Catalog()
	infos := make([]PowerUpInfo, 0, len(specs))
	for _, s := range specs {
		infos = append(infos, PowerUpInfo{
			Kind:        s.Kind.String(),
			Name:        s.Name,
			Description: s.Description,
			Color:       fmt.Sprintf("#%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B),
			Seconds:     s.Duration.Seconds(),
			SpawnWeight: s.SpawnWeight,
		})
	}
	return infos
}

func (s *GameServer) HandlePowerUps() http.HandlerFunc {
	infos := powerUpInfos()
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, HTTP_SUCCESS, infos)
	}
}

func (s *GameServer) HandleSessions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, HTTP_SUCCESS, s.Sessions())
	}
}

func (s *GameServer) HandleSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := way.Param(r.Context(), "id")
		for _, info := range s.Sessions() {
			if info.ID == id {
				respond(w, HTTP_SUCCESS, info)
				return
			}
		}
		respond(w, HTTP_NOT_FOUND, map[string]string{"error": "session not found"})
	}
}

func respond(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warnf("respond encode: %v", err)
	}
}
