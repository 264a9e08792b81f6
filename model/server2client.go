package model

import (
	"image/color"
	"time"
)

type ServerMessage struct {
	Setup     []Setup
	Snapshots []Snapshot
	Results   []Result
	Errors    []string
}

type Setup struct {
	MatchID    string
	Cols, Rows int
	Config     MatchConfig
	Human      PlayerId
}

type Phase int

const (
	Running Phase = iota + 1
	Ended
)

func (p Phase) Name() string {
	switch p {
	case Running:
		return "RUNNING"
	case Ended:
		return "ENDED"
	default:
		return "N/A"
	}
}

// Snapshot is the read-only view handed out after each tick.
type Snapshot struct {
	Phase    Phase
	TimeLeft time.Duration
	Owners   [][]PlayerId
	PowerUps [][]PowerUpKind
	Players  [2]PlayerView
}

type PlayerView struct {
	Name     string
	Color    color.RGBA
	Human    bool
	Position Position
	Score    int
	Effects  []EffectTimer
	Frozen   time.Duration
}

// Result is final; Winner is Unowned on a tie.
type Result struct {
	Scores [2]int
	Winner PlayerId
}

func NewResult(scores [2]int) Result {
	r := Result{Scores: scores, Winner: Unowned}
	switch {
	case scores[0] > scores[1]:
		r.Winner = Player0
	case scores[1] > scores[0]:
		r.Winner = Player1
	}
	return r
}

func (r Result) Tie() bool {
	return r.Winner == Unowned
}
