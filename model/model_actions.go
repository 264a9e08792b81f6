package model

func NewGrid(rows, cols int) *Grid {
	owners := make([][]PlayerId, 0, rows)
	powerUps := make([][]PowerUpKind, 0, rows)
	for r := 0; r < rows; r++ {
		line := make([]PlayerId, cols)
		for c := range line {
			line[c] = Unowned
		}
		owners = append(owners, line)
		powerUps = append(powerUps, make([]PowerUpKind, cols))
	}
	return &Grid{Rows: rows, Cols: cols, Owners: owners, PowerUps: powerUps}
}

// StartPositions puts the players in opposite corners.
func StartPositions(rows, cols int) [2]Position {
	return [2]Position{{Row: 0, Col: 0}, {Row: rows - 1, Col: cols - 1}}
}

// NewMatchGrid creates a square board with both starting cells claimed.
func NewMatchGrid(size int) (*Grid, [2]Position) {
	g := NewGrid(size, size)
	starts := StartPositions(size, size)
	for _, p := range Players {
		g.ClaimCell(starts[p], p)
	}
	return g, starts
}

func (g *Grid) Clone() *Grid {
	owners := make([][]PlayerId, len(g.Owners))
	powerUps := make([][]PowerUpKind, len(g.PowerUps))
	for i := range g.Owners {
		owners[i] = make([]PlayerId, len(g.Owners[i]))
		copy(owners[i], g.Owners[i])
		powerUps[i] = make([]PowerUpKind, len(g.PowerUps[i]))
		copy(powerUps[i], g.PowerUps[i])
	}
	return &Grid{Rows: g.Rows, Cols: g.Cols, Owners: owners, PowerUps: powerUps}
}
