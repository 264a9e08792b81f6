package main

import (
	"os"

	"github.com/hajimehoshi/ebiten"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	game := NewGame(cfg)
	if err := ebiten.Run(game.update, screenWidth, screenHeight, 1, "Territory"); err != nil {
		log.Fatal(err)
	}
}
