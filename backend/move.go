package main

// Move addresses one cell. Depth is how many plies the search examined
// to pick it; zero for human moves.
type Move struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Depth int `json:"depth,omitempty"`
}

func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

func (m Move) IsValid(rows, cols int) bool {
	return m.X >= 0 && m.Y >= 0 && m.X < cols && m.Y < rows
}

func (m Move) Equals(other Move) bool {
	return m.X == other.X && m.Y == other.Y
}

// Index is the row-major cell index, the order in which search
// tie-breaks between equally valued moves.
func (m Move) Index(cols int) int {
	return m.Y*cols + m.X
}

func MoveFromIndex(index, cols int) Move {
	return Move{X: index % cols, Y: index / cols}
}
