package main

import (
	"github.com/matryer/way"
)

const URI_WS = "/play"
const URI_POWERUPS = "/powerups"
const URI_SESSIONS = "/sessions"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_POWERUPS, s.GameServer.HandlePowerUps())
	s.router.HandleFunc("GET", URI_SESSIONS, s.GameServer.HandleSessions())
	s.router.HandleFunc("GET", URI_SESSIONS+"/:id", s.GameServer.HandleSession())
}
