package rotation

// Coin faces, used as outcome indices.
const (
	Heads = 0
	Tails = 1
)

// Coin is a two-faced dial. Heads faces the viewer at 0 degrees and tails at 180.
type Coin struct{}

// Positions implements Dial.
func (Coin) Positions() int { return 2 }

// Canonical implements Dial.
func (Coin) Canonical(i int) float64 {
	if i == Tails {
		return FullTurn / 2
	}
	return 0
}

// FaceAt returns the face shown at rotation r.
func (c Coin) FaceAt(r float64) int {
	return OutcomeAt(c, r)
}
