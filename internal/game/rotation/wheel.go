package rotation

// DefaultPointer is the reference mark angle for a wheel: straight up in
// screen coordinates where 0 degrees points right and angles grow clockwise.
const DefaultPointer = -90.0

// DefaultOrigin is the angle at which sector 0 begins before any rotation.
const DefaultOrigin = -90.0

// Wheel is a dial of equal-width sectors read against a fixed pointer.
//
// Sector i occupies [Origin + i*w, Origin + (i+1)*w] before rotation, with
// w = FullTurn / Sectors. A clockwise rotation R moves every sector by R.
type Wheel struct {
	Sectors int
	Pointer float64
	Origin  float64
}

// NewWheel returns a Wheel with n sectors and the default pointer geometry.
//
// Precondition: n >= 1.
func NewWheel(n int) Wheel {
	return Wheel{Sectors: n, Pointer: DefaultPointer, Origin: DefaultOrigin}
}

// Positions implements Dial.
func (w Wheel) Positions() int { return w.Sectors }

// Width returns the angular width of one sector.
func (w Wheel) Width() float64 { return FullTurn / float64(w.Sectors) }

// Canonical returns the rotation that centres sector i under the pointer.
func (w Wheel) Canonical(i int) float64 {
	return Normalize(w.Pointer - w.Origin - (float64(i)+0.5)*w.Width())
}

// SectorAt returns the sector under the pointer at rotation r: the sector
// whose rotated centre is angularly nearest the pointer, lower index on a tie.
//
// Precondition: w.Sectors >= 1.
func (w Wheel) SectorAt(r float64) int {
	return OutcomeAt(w, r)
}

// CenterAt returns the screen angle of sector i's centre at rotation r.
func (w Wheel) CenterAt(i int, r float64) float64 {
	return Normalize(w.Origin + (float64(i)+0.5)*w.Width() + r)
}
