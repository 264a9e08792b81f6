package main

import (
	"net/http"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/server"
)

type Server struct {
	router     *way.Router
	GameServer *server.GameServer
}

func main() {
	settings, err := server.LoadSettings()
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	level, _ := log.ParseLevel(settings.LogLevel)
	log.SetLevel(level)

	s := Server{
		GameServer: server.NewGameServer(settings),
	}
	go s.GameServer.Loop()
	s.routes()
	log.WithFields(log.Fields{
		"port":      settings.Port,
		"tick_rate": settings.TickRate,
	}).Info("listening")
	log.Fatalln(http.ListenAndServe(":"+settings.Port, s.router))
}
