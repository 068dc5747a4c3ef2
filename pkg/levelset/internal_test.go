package levelset

import (
	"container/list"
	"testing"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// TestBoundaryListSpliceOrder checks that pending points are inserted at
// the front of the live list in their original relative order, matching
// LinkedList.addAll(0, addlin) semantics.
func TestBoundaryListSpliceOrder(t *testing.T) {
	b := newBoundaryList()
	b.addPending(models.Point{X: 1, Y: 0})
	b.addPending(models.Point{X: 2, Y: 0})
	b.addPending(models.Point{X: 3, Y: 0})
	b.splice()

	got := b.points()
	want := []models.Point{{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: want %v, got %v", i, want[i], got[i])
		}
	}

	b.addPending(models.Point{X: 9, Y: 9})
	b.splice()
	got = b.points()
	if got[0] != (models.Point{X: 9, Y: 9}) {
		t.Errorf("expected newest pending point at front, got %v", got[0])
	}
}

// TestBoundaryListRemoveDuringEach verifies removal at a cursor during
// each() is safe and does not disturb unrelated elements.
func TestBoundaryListRemoveDuringEach(t *testing.T) {
	b := newBoundaryList()
	for i := 0; i < 5; i++ {
		b.addPending(models.Point{X: i, Y: 0})
	}
	b.splice()

	var removed []models.Point
	b.each(func(e *list.Element, p models.Point) {
		if p.X%2 == 0 {
			removed = append(removed, p)
			b.remove(e)
		}
	})

	if len(removed) != 3 {
		t.Fatalf("expected 3 removed points, got %d", len(removed))
	}
	remaining := b.points()
	if len(remaining) != 2 {
		t.Fatalf("expected 2 remaining points, got %d", len(remaining))
	}
	for _, p := range remaining {
		if p.X%2 == 0 {
			t.Errorf("even point %v should have been removed", p)
		}
	}
}

// TestNeighborhoodFillCorners checks the neighbor count at corners, edges
// and interior points of a small grid.
func TestNeighborhoodFillCorners(t *testing.T) {
	var n neighborhood

	n.fill(0, 0, 5, 5)
	if n.n != 2 {
		t.Errorf("corner (0,0): expected 2 neighbors, got %d", n.n)
	}

	n.fill(4, 4, 5, 5)
	if n.n != 2 {
		t.Errorf("corner (4,4): expected 2 neighbors, got %d", n.n)
	}

	n.fill(2, 0, 5, 5)
	if n.n != 3 {
		t.Errorf("edge (2,0): expected 3 neighbors, got %d", n.n)
	}

	n.fill(2, 2, 5, 5)
	if n.n != 4 {
		t.Errorf("interior (2,2): expected 4 neighbors, got %d", n.n)
	}
}

// TestGaussianKernelRejectsOversizedWidth checks the g<=7 constraint from
// the scale<=255 packing requirement.
func TestGaussianKernelRejectsOversizedWidth(t *testing.T) {
	if _, err := newGaussianKernel(7, 3.0); err != nil {
		t.Errorf("g=7 should be accepted, got error: %v", err)
	}
	_, err := newGaussianKernel(8, 3.0)
	if err == nil {
		t.Fatal("expected an error for g=8, got nil")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("expected *ConfigurationError, got %T", err)
	}
}

// TestGaussianKernelIsSymmetric checks the kernel weight is symmetric
// under reflection about its center, as an isotropic Gaussian must be.
func TestGaussianKernelIsSymmetric(t *testing.T) {
	k, err := newGaussianKernel(3, 3.0)
	if err != nil {
		t.Fatalf("newGaussianKernel: %v", err)
	}
	for dy := 0; dy < k.size; dy++ {
		for dx := 0; dx < k.size; dx++ {
			mx, my := k.size-1-dx, k.size-1-dy
			if k.at(dx, dy) != k.at(mx, my) {
				t.Errorf("kernel not symmetric at (%d,%d) vs (%d,%d): %d != %d",
					dx, dy, mx, my, k.at(dx, dy), k.at(mx, my))
			}
		}
	}
}

// TestEngineSign checks the sign = -signum(s) conversion.
func TestEngineSign(t *testing.T) {
	cases := []struct {
		s    float64
		want int
	}{
		{5.0, -1},
		{-5.0, 1},
		{0.0, 0},
	}
	for _, c := range cases {
		if got := engineSign(c.s); got != c.want {
			t.Errorf("engineSign(%v) = %d, want %d", c.s, got, c.want)
		}
	}
}

// fixedPhi is a tiny PhiView for unit-testing speed fields directly
// without going through the full engine.
type fixedPhi struct {
	width, height int
	vals          map[models.Point]int
}

func (f *fixedPhi) Bounds() (int, int) { return f.width, f.height }
func (f *fixedPhi) At(x, y int) int {
	if v, ok := f.vals[models.Point{X: x, Y: y}]; ok {
		return v
	}
	return 3
}

// TestHybridZeroAreaReturnsZeroSign checks the documented deviation: when
// a window is entirely inside or entirely outside, ComputeSign returns 0
// instead of dividing by zero.
func TestHybridZeroAreaReturnsZeroSign(t *testing.T) {
	const w, h = 4, 4
	image := models.NewIntRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			image.Set(x, y, 100)
		}
	}

	phi := &fixedPhi{width: w, height: h, vals: map[models.Point]int{}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			phi.vals[models.Point{X: x, Y: y}] = -1
		}
	}

	hybrid := NewHybrid(HybridParams{NeighbourhoodRadius: 2, CutoffIntensity: 0}, image)
	if got := hybrid.ComputeSign(phi, models.Point{X: 2, Y: 2}); got != 0 {
		t.Errorf("expected sign 0 for an entirely-inside window, got %d", got)
	}
}
