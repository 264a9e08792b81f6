package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/zucenko/territory/model"
)

var keyDirections = map[tcell.Key]model.Direction{
	tcell.KeyUp:    model.Up,
	tcell.KeyDown:  model.Down,
	tcell.KeyLeft:  model.Left,
	tcell.KeyRight: model.Right,
}

var runeDirections = map[rune]model.Direction{
	'w': model.Up,
	's': model.Down,
	'a': model.Left,
	'd': model.Right,
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server host:port")
	size := flag.Int("size", 0, "board size, 0 for the server default")
	seconds := flag.Int("seconds", 0, "match seconds, 0 for the server default")
	difficulty := flag.String("difficulty", "medium", "easy, medium, hard or expert")
	mode := flag.String("mode", "human", "human or ai")
	name := flag.String("name", "", "your name")
	seed := flag.Int64("seed", 0, "random seed, 0 for clock")
	logFile := flag.String("log", "", "log file, empty to discard")
	flag.Parse()

	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			exit(err, 1)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
	}

	// size and seconds left at 0 take the server's defaults
	setup := model.DefaultMatchConfig()
	setup.BoardSize, setup.MatchSeconds, setup.Seed = *size, *seconds, *seed
	var err error
	if setup.Difficulty, err = model.ParseDifficulty(*difficulty); err != nil {
		exit(err, 2)
	}
	if setup.Mode, err = model.ParseMode(*mode); err != nil {
		exit(err, 2)
	}
	if *name != "" {
		setup.Names[0] = *name
	}

	client, err := Dial(*addr)
	if err != nil {
		exit(err, 1)
	}
	defer client.Close()
	if err := client.Send(model.ClientMessage{Setup: &setup}); err != nil {
		exit(err, 1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		exit(err, 1)
	}
	if err := screen.Init(); err != nil {
		exit(err, 1)
	}
	defer screen.Fini()

	run(screen, client)
}

// exit reports on stderr; logs may be discarded while the screen is up.
func exit(err error, code int) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

func run(screen tcell.Screen, client *Client) {
	view := &View{}
	view.Draw(screen)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	messages := client.Messages
	for {
		select {
		case ev := <-events:
			if !handleEvent(ev, view, client) {
				return
			}
			view.Draw(screen)
		case sm, ok := <-messages:
			if !ok {
				view.Closed = true
				if err := client.Err(); err != nil {
					log.Warnf("connection: %v", err)
					view.Errors = append(view.Errors, err.Error())
				}
				messages = nil
			} else {
				view.Apply(sm)
			}
			view.Draw(screen)
		}
	}
}

// handleEvent reports whether the client keeps running.
func handleEvent(ev tcell.Event, view *View, client *Client) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		quit := ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
		if quit {
			if !view.Playing() {
				return false
			}
			send(client, model.ClientMessage{Quit: true})
			return true
		}
		if !view.Playing() {
			return true
		}
		d, ok := keyDirections[ev.Key()]
		if !ok && ev.Key() == tcell.KeyRune {
			d, ok = runeDirections[ev.Rune()]
		}
		if ok {
			send(client, model.ClientMessage{Move: d})
		}
	}
	return true
}

func send(client *Client, cm model.ClientMessage) {
	if err := client.Send(cm); err != nil {
		log.Warnf("send: %v", err)
	}
}
