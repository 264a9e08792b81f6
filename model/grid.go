package model

type Grid struct {
	Rows, Cols int
	Owners     [][]PlayerId
	PowerUps   [][]PowerUpKind
}

func (g *Grid) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Rows && pos.Col >= 0 && pos.Col < g.Cols
}

func (g *Grid) OwnerOf(pos Position) PlayerId {
	return g.Owners[pos.Row][pos.Col]
}

// ClaimCell writes ownership unconditionally and reports whether the cell
// was taken from the other player.
func (g *Grid) ClaimCell(pos Position, p PlayerId) bool {
	before := g.Owners[pos.Row][pos.Col]
	g.Owners[pos.Row][pos.Col] = p
	return before != Unowned && before != p
}

func (g *Grid) PowerUpAt(pos Position) PowerUpKind {
	return g.PowerUps[pos.Row][pos.Col]
}

func (g *Grid) ConsumePowerUpAt(pos Position) PowerUpKind {
	k := g.PowerUps[pos.Row][pos.Col]
	g.PowerUps[pos.Row][pos.Col] = NoPowerUp
	return k
}

func (g *Grid) PlacePowerUp(pos Position, k PowerUpKind) {
	g.PowerUps[pos.Row][pos.Col] = k
}

func (g *Grid) IsFull() bool {
	for r := range g.Owners {
		for c := range g.Owners[r] {
			if g.Owners[r][c] == Unowned {
				return false
			}
		}
	}
	return true
}

// FirstUnowned scans row-major and skips except.
func (g *Grid) FirstUnowned(except Position) (Position, bool) {
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.Owners[r][c] == Unowned && (r != except.Row || c != except.Col) {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

func (g *Grid) Tally() [2]int {
	var t [2]int
	for r := range g.Owners {
		for _, o := range g.Owners[r] {
			if o.Valid() {
				t[o]++
			}
		}
	}
	return t
}

// Neighbours returns the in-bounds orthogonal neighbours of pos.
func (g *Grid) Neighbours(pos Position) []Position {
	n := make([]Position, 0, 4)
	for _, d := range Directions {
		next := pos.Step(d, 1)
		if g.InBounds(next) {
			n = append(n, next)
		}
	}
	return n
}
