package model

import "fmt"

type PlayerId int

const (
	Unowned PlayerId = iota - 1
	Player0
	Player1
)

// Players lists both ids in tick order.
var Players = [2]PlayerId{Player0, Player1}

func (p PlayerId) Opponent() PlayerId {
	return 1 - p
}

func (p PlayerId) Valid() bool {
	return p == Player0 || p == Player1
}

func (p PlayerId) String() string {
	switch p {
	case Unowned:
		return "unowned"
	case Player0, Player1:
		return fmt.Sprintf("player%d", int(p))
	default:
		return fmt.Sprintf("n/a:%d", int(p))
	}
}

type Position struct {
	Row, Col int
}

func (p Position) Step(d Direction, steps int) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr*steps, Col: p.Col + dc*steps}
}

func (p Position) Distance(o Position) int {
	return abs(p.Row-o.Row) + abs(p.Col-o.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Direction int

const (
	NoDirection Direction = iota
	Up
	Down
	Left
	Right
)

// Directions is the candidate order used for neighbour scans.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

func (d Direction) Name() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// DirectionTo returns the direction and step count that lead from one
// position to another along a single row or column.
func DirectionTo(from, to Position) (Direction, int, bool) {
	switch {
	case from.Row == to.Row && to.Col > from.Col:
		return Right, to.Col - from.Col, true
	case from.Row == to.Row && to.Col < from.Col:
		return Left, from.Col - to.Col, true
	case from.Col == to.Col && to.Row > from.Row:
		return Down, to.Row - from.Row, true
	case from.Col == to.Col && to.Row < from.Row:
		return Up, from.Row - to.Row, true
	}
	return NoDirection, 0, false
}
