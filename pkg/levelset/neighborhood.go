package levelset

import "github.com/manics/imagej-fastlevelset/internal/models"

// neighborhood holds the in-bounds 4-connected neighbors of a grid point.
// It is reused across calls (via a pointer receiver) so that computing a
// neighborhood never allocates.
type neighborhood struct {
	pts [4]models.Point
	n   int
}

// fill populates n with the in-bounds north/south/east/west neighbors of
// (x, y) within a width x height grid. Interior points get all four;
// edges get three; corners get two. This is the sole geometric primitive
// the engine uses.
func (n *neighborhood) fill(x, y, width, height int) {
	n.n = 0
	if y+1 < height {
		n.pts[n.n] = models.Point{X: x, Y: y + 1}
		n.n++
	}
	if y-1 >= 0 {
		n.pts[n.n] = models.Point{X: x, Y: y - 1}
		n.n++
	}
	if x+1 < width {
		n.pts[n.n] = models.Point{X: x + 1, Y: y}
		n.n++
	}
	if x-1 >= 0 {
		n.pts[n.n] = models.Point{X: x - 1, Y: y}
		n.n++
	}
}
