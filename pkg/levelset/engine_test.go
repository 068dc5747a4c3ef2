package levelset

import (
	"testing"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// rectRaster builds a width x height raster that is bright inside
// [x0,x1) x [y0,y1) and dark elsewhere.
func rectRaster(width, height, x0, y0, x1, y1, dark, bright int) *models.IntRaster {
	r := models.NewIntRaster(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				r.Set(x, y, bright)
			} else {
				r.Set(x, y, dark)
			}
		}
	}
	return r
}

func rectMask(width, height, x0, y0, x1, y1 int) *models.BoolMask {
	m := models.NewBoolMask(width, height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

// TestConsistencyAfterInitialize checks invariants I1-I4 hold immediately
// after construction, before any evolution.
func TestConsistencyAfterInitialize(t *testing.T) {
	image := rectRaster(10, 10, 3, 3, 7, 7, 20, 200)
	mask := rectMask(10, 10, 3, 3, 7, 7)

	speedField, err := NewChanVese(image, mask)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := Params{MaxIterations: 0, SpeedIterations: 0, SmoothIterations: 0, DebugCheck: true}
	engine, err := NewEngine(params, image, mask, speedField)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if err := engine.checkConsistency(); err != nil {
		t.Errorf("consistency check failed after initialize: %v", err)
	}
}

// TestZeroIterationsIsNoOp verifies that running with MaxIterations=0
// leaves the segmentation identical to the initialization mask.
func TestZeroIterationsIsNoOp(t *testing.T) {
	image := rectRaster(10, 10, 3, 3, 7, 7, 20, 200)
	mask := rectMask(10, 10, 3, 3, 7, 7)

	speedField, err := NewChanVese(image, mask)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := Params{MaxIterations: 0}
	engine, err := NewEngine(params, image, mask, speedField)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	if err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	seg := engine.Segmentation()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			want := mask.At(x, y)
			got := seg.At(x, y) != 0
			if want != got {
				t.Errorf("segmentation mismatch at (%d,%d): want %v, got %v", x, y, want, got)
			}
		}
	}
}

// TestChanVeseGrowsToExactRegion segments a bright square on a dark
// background: after evolution, the segmentation must exactly match the
// bright region regardless of a smaller starting seed.
func TestChanVeseGrowsToExactRegion(t *testing.T) {
	const w, h = 20, 20
	image := rectRaster(w, h, 5, 5, 15, 15, 10, 250)
	seed := rectMask(w, h, 9, 9, 11, 11)

	speedField, err := NewChanVese(image, seed)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := Params{MaxIterations: 20, SpeedIterations: 20, SmoothIterations: 0}
	engine, err := NewEngine(params, image, seed, speedField)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	seg := engine.Segmentation()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := x >= 5 && x < 15 && y >= 5 && y < 15
			got := seg.At(x, y) != 0
			if want != got {
				t.Errorf("segmentation mismatch at (%d,%d): want %v, got %v", x, y, want, got)
			}
		}
	}
}

// TestChanVeseRejectsDegenerateMask checks that an entirely-foreground or
// entirely-background initialization mask is rejected.
func TestChanVeseRejectsDegenerateMask(t *testing.T) {
	image := rectRaster(4, 4, 0, 0, 4, 4, 10, 10)
	allFg := rectMask(4, 4, 0, 0, 4, 4)

	_, err := NewChanVese(image, allFg)
	if err == nil {
		t.Fatal("expected an error for an entirely-foreground mask, got nil")
	}
	if _, ok := err.(*DomainError); !ok {
		t.Errorf("expected *DomainError, got %T: %v", err, err)
	}
}

// TestChanVeseIncrementalMatchesFromScratch checks that the incrementally
// maintained means equal a from-scratch recomputation after several
// switches have occurred.
func TestChanVeseIncrementalMatchesFromScratch(t *testing.T) {
	const w, h = 16, 16
	image := rectRaster(w, h, 4, 4, 12, 12, 10, 250)
	seed := rectMask(w, h, 7, 7, 9, 9)

	cv, err := NewChanVese(image, seed)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := Params{MaxIterations: 5, SpeedIterations: 5, SmoothIterations: 0}
	engine, err := NewEngine(params, image, seed, cv)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	_, _, incIn, incOut := cv.Stats()
	scratchIn, scratchOut := RecomputeMeansFromPhi(image, engine.Phi())

	const tol = 1e-9
	if diff := incIn - scratchIn; diff > tol || diff < -tol {
		t.Errorf("mean-in mismatch: incremental=%f scratch=%f", incIn, scratchIn)
	}
	if diff := incOut - scratchOut; diff > tol || diff < -tol {
		t.Errorf("mean-out mismatch: incremental=%f scratch=%f", incOut, scratchOut)
	}
}

// TestCancellationStopsRun verifies that a cancellation probe firing on
// the first check aborts Run with ErrCancelled.
func TestCancellationStopsRun(t *testing.T) {
	const w, h = 20, 20
	image := rectRaster(w, h, 5, 5, 15, 15, 10, 250)
	seed := rectMask(w, h, 9, 9, 11, 11)

	speedField, err := NewChanVese(image, seed)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := Params{MaxIterations: 20, SpeedIterations: 20, SmoothIterations: 0}
	engine, err := NewEngine(params, image, seed, speedField)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	engine.SetCancelFunc(func() bool { return true })

	if err := engine.Run(); err != ErrCancelled {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

// TestSmoothingRemovesSpike checks that an isolated single-pixel spike,
// far from any other foreground region, is absorbed by the smoothing
// sweep: its Gaussian-weighted neighborhood is overwhelmingly background.
func TestSmoothingRemovesSpike(t *testing.T) {
	const w, h = 12, 12
	image := rectRaster(w, h, 3, 3, 9, 9, 10, 250)
	mask := rectMask(w, h, 3, 3, 9, 9)
	// Poke an isolated spike in the far corner, unconnected to the block.
	mask.Set(11, 11, true)
	image.Set(11, 11, 250)

	speedField, err := NewChanVese(image, mask)
	if err != nil {
		t.Fatalf("NewChanVese: %v", err)
	}

	params := DefaultParams()
	params.MaxIterations = 1
	params.SpeedIterations = 0
	params.SmoothIterations = 3
	params.GaussWidth = 3
	params.GaussSigma = 3

	engine, err := NewEngine(params, image, mask, speedField)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	seg := engine.Segmentation()
	if seg.At(11, 11) != 0 {
		t.Errorf("expected isolated spike at (11,11) to be smoothed away, but it remains foreground")
	}
}

// TestHybridStableOnCheckerboard exercises the Hybrid speed field on a
// pattern with no consistent bright/dark region and verifies the engine
// still runs to completion without an invariant violation.
func TestHybridStableOnCheckerboard(t *testing.T) {
	const w, h = 16, 16
	image := models.NewIntRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				image.Set(x, y, 200)
			} else {
				image.Set(x, y, 20)
			}
		}
	}
	seed := rectMask(w, h, 6, 6, 10, 10)

	hybrid := NewHybrid(DefaultHybridParams(), image)

	params := Params{MaxIterations: 5, SpeedIterations: 5, SmoothIterations: 0, DebugCheck: true}
	engine, err := NewEngine(params, image, seed, hybrid)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if err := engine.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

// TestFactoryEdgeMethodNotImplemented checks the factory's documented
// behavior for the unimplemented EDGE method.
func TestFactoryEdgeMethodNotImplemented(t *testing.T) {
	image := rectRaster(4, 4, 0, 0, 4, 4, 10, 200)
	mask := rectMask(4, 4, 1, 1, 3, 3)

	_, err := NewSpeedField(EdgeMethod, image, mask, DefaultHybridParams())
	if err != ErrNotImplemented {
		t.Errorf("expected ErrNotImplemented, got %v", err)
	}
}
