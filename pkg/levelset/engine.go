// Package levelset implements the fast level-set segmentation engine
// described by Shi & Karl (2005/2008): a discrete, integer-only
// approximation of curve evolution that grows or shrinks a region
// boundary on a 2D grayscale image. Grounded on
// original_source/src/levelset/FastLevelSet.java and the speed-field
// hierarchy in original_source/src/ijfls/levelset.
package levelset

import (
	"container/list"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// Params holds the engine's evolution parameters, per spec.md §6.
type Params struct {
	MaxIterations    int
	SpeedIterations  int
	SmoothIterations int
	GaussWidth       int
	GaussSigma       float64
	// DebugCheck enables the consistency check in spec.md §4.3.6 after
	// every sweep. It is expensive (a full grid + list walk) and meant
	// for tests and debugging, not production runs.
	DebugCheck bool
}

// DefaultParams returns the reference implementation's defaults from
// spec.md §6.
func DefaultParams() Params {
	return Params{
		MaxIterations:    10,
		SpeedIterations:  5,
		SmoothIterations: 2,
		GaussWidth:       3,
		GaussSigma:       3,
	}
}

// CancelFunc is polled between sub-iterations; returning true aborts the
// run. A nil CancelFunc means the run is never cancellable.
type CancelFunc func() bool

// Engine owns the phi grid, the speed grid, the inside/outside boundary
// lists, the Gaussian kernel and the speed field for a single
// segmentation. It is not reentrant: per spec.md §5, one Engine segments
// one slice, and a fresh Engine (with a fresh speed field) must be built
// per slice.
type Engine struct {
	params Params
	image  models.Raster
	width  int
	height int

	phi   *phiGrid
	speed *speedGrid

	lin  *boundaryList
	lout *boundaryList

	kernel *gaussianKernel

	speedField SpeedField

	cancel CancelFunc

	progressObservers []ProgressFunc
	boundaryObservers []BoundaryFunc

	nh neighborhood
}

// NewEngine constructs an engine for the given image and initialization
// mask; the engine takes exclusive ownership of speedField. Dimensions of
// image and init must match. The phi grid and boundary lists are seeded
// immediately; if params.SmoothIterations > 0 the Gaussian kernel is
// built too (a ConfigurationError if gaussWidth is too large).
func NewEngine(params Params, image models.Raster, init models.Mask, speedField SpeedField) (*Engine, error) {
	if image == nil || init == nil || speedField == nil {
		return nil, &ConfigurationError{Reason: "image, init and speedField must be non-nil"}
	}

	iw, ih := image.Bounds()
	mw, mh := init.Bounds()
	if iw != mw || ih != mh {
		return nil, &ConfigurationError{Reason: "image and initialization mask dimensions differ"}
	}

	e := &Engine{
		params:     params,
		image:      image,
		width:      iw,
		height:     ih,
		phi:        newPhiGrid(iw, ih),
		speed:      newSpeedGrid(iw, ih),
		lin:        newBoundaryList(),
		lout:       newBoundaryList(),
		speedField: speedField,
	}

	if err := e.initialize(init); err != nil {
		return nil, err
	}

	return e, nil
}

// SetCancelFunc registers the cooperative cancellation probe polled after
// every speed and smooth sub-iteration.
func (e *Engine) SetCancelFunc(fn CancelFunc) { e.cancel = fn }

// AddProgressObserver registers a callback invoked after each full outer
// iteration completes.
func (e *Engine) AddProgressObserver(fn ProgressFunc) {
	e.progressObservers = append(e.progressObservers, fn)
}

// AddBoundaryObserver registers a callback invoked after every sweep with
// a snapshot of Lin/Lout.
func (e *Engine) AddBoundaryObserver(fn BoundaryFunc) {
	e.boundaryObservers = append(e.boundaryObservers, fn)
}

// initialize seeds phi from the mask and builds the Gaussian kernel, per
// spec.md §4.3 "Construction".
func (e *Engine) initialize(init models.Mask) error {
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			p := models.Point{X: x, Y: y}
			if init.At(x, y) {
				e.lin.addPending(p)
				e.phi.set(x, y, phiInnerBoundary)
			} else {
				e.lout.addPending(p)
				e.phi.set(x, y, phiOuterBoundary)
			}
		}
	}

	e.lin.splice()
	e.lout.splice()
	e.cleanLin()
	e.cleanLout()

	if e.params.DebugCheck {
		if err := e.checkConsistency(); err != nil {
			return err
		}
	}

	if e.params.SmoothIterations > 0 {
		kernel, err := newGaussianKernel(e.params.GaussWidth, e.params.GaussSigma)
		if err != nil {
			return err
		}
		e.kernel = kernel
	}

	return nil
}

// Run executes the main evolution loop from spec.md §4.3 "Main evolution
// loop". It returns ErrCancelled (without having emitted any further
// state the caller should read) if the cancellation probe fires, and any
// InvariantViolation the debug consistency check raises.
func (e *Engine) Run() error {
	total := e.params.MaxIterations
	for nIts := 0; nIts < e.params.MaxIterations; nIts++ {
		converged := false

		for nSpeedIts := 0; nSpeedIts < e.params.SpeedIterations; nSpeedIts++ {
			if e.speedField.RequiresUpdate() {
				e.speedField.ApplyPendingUpdates()
			}

			e.evolveSpeed()
			e.notifyBoundary()

			if e.params.DebugCheck {
				if err := e.checkConsistency(); err != nil {
					return err
				}
			}

			if e.hasConverged() {
				if nIts == 0 {
					// The level set is considered stuck on the very first
					// outer iteration: ignore convergence but still break
					// out of the speed sub-loop. Preserved verbatim from
					// the Java reference's "currently stuck" comment —
					// see DESIGN.md's Open Question decisions.
					converged = false
				} else {
					converged = true
				}
				break
			}

			if e.cancelled() {
				return ErrCancelled
			}
		}

		for nSmoothIts := 0; nSmoothIts < e.params.SmoothIterations; nSmoothIts++ {
			e.evolveSmooth()
			e.notifyBoundary()

			if e.params.DebugCheck {
				if err := e.checkConsistency(); err != nil {
					return err
				}
			}

			if e.cancelled() {
				return ErrCancelled
			}
		}

		e.notifyProgress(nIts+1, total)

		if converged {
			break
		}
	}

	return nil
}

func (e *Engine) cancelled() bool {
	return e.cancel != nil && e.cancel()
}

func (e *Engine) notifyProgress(completed, total int) {
	for _, fn := range e.progressObservers {
		fn(completed, total)
	}
}

func (e *Engine) notifyBoundary() {
	if len(e.boundaryObservers) == 0 {
		return
	}
	lin := e.lin.points()
	lout := e.lout.points()
	for _, fn := range e.boundaryObservers {
		fn(lin, lout)
	}
}

// evolveSpeed is the speed sweep from spec.md §4.3.1.
func (e *Engine) evolveSpeed() {
	e.lout.each(func(el *list.Element, p models.Point) {
		sign := e.speedField.ComputeSign(e.phi, p)
		e.speed.set(p.X, p.Y, int8(sign))
		if sign > 0 {
			e.switchIn(e.lout, el, p)
		}
	})
	e.lin.splice()
	e.lout.splice()
	e.cleanLin()

	e.lin.each(func(el *list.Element, p models.Point) {
		sign := e.speedField.ComputeSign(e.phi, p)
		e.speed.set(p.X, p.Y, int8(sign))
		if sign < 0 {
			e.switchOut(e.lin, el, p)
		}
	})
	e.lin.splice()
	e.lout.splice()
	e.cleanLout()
}

// evolveSmooth is the smooth sweep from spec.md §4.3.2.
func (e *Engine) evolveSmooth() {
	e.lout.each(func(el *list.Element, p models.Point) {
		f := e.calculateSmooth(p)
		if f > e.kernel.threshold {
			e.switchIn(e.lout, el, p)
		}
	})
	e.lin.splice()
	e.lout.splice()
	e.cleanLin()

	e.lin.each(func(el *list.Element, p models.Point) {
		f := e.calculateSmooth(p)
		if f < e.kernel.threshold {
			e.switchOut(e.lin, el, p)
		}
	})
	e.lin.splice()
	e.lout.splice()
	e.cleanLout()
}

// calculateSmooth convolves the neighborhood of p with the Gaussian
// kernel, summing weights where phi < 0, per spec.md §4.3.2.
func (e *Engine) calculateSmooth(p models.Point) int {
	g := e.kernel.g
	dxmin := max(-g, -p.X)
	dxmax := min(g+1, e.width-p.X)
	dymin := max(-g, -p.Y)
	dymax := min(g+1, e.height-p.Y)

	f := 0
	for dy := dymin; dy < dymax; dy++ {
		for dx := dxmin; dx < dxmax; dx++ {
			if e.phi.get(p.X+dx, p.Y+dy) < 0 {
				f += e.kernel.at(g+dx, g+dy)
			}
		}
	}
	return f
}

// switchIn moves p from lout (at cursor el) to Lin, exposes its
// newly-strictly-outside neighbors to Lout, and forces the speed at both
// to the anti-convergence value, per spec.md §4.3.3.
func (e *Engine) switchIn(lout *boundaryList, el *list.Element, p models.Point) {
	e.speedField.NotifySwitchIn(p)

	e.lin.addPending(p)
	e.phi.set(p.X, p.Y, phiInnerBoundary)
	e.speed.set(p.X, p.Y, -1)

	e.nh.fill(p.X, p.Y, e.width, e.height)
	for i := 0; i < e.nh.n; i++ {
		q := e.nh.pts[i]
		if e.phi.get(q.X, q.Y) == phiOutside {
			e.lout.addPending(q)
			e.phi.set(q.X, q.Y, phiOuterBoundary)
			e.speed.set(q.X, q.Y, 1)
		}
	}

	lout.remove(el)
}

// switchOut is the mirror image of switchIn: p moves from Lin to Lout,
// exposing newly-strictly-inside neighbors to Lin.
func (e *Engine) switchOut(lin *boundaryList, el *list.Element, p models.Point) {
	e.speedField.NotifySwitchOut(p)

	e.lout.addPending(p)
	e.phi.set(p.X, p.Y, phiOuterBoundary)
	e.speed.set(p.X, p.Y, 1)

	e.nh.fill(p.X, p.Y, e.width, e.height)
	for i := 0; i < e.nh.n; i++ {
		q := e.nh.pts[i]
		if e.phi.get(q.X, q.Y) == phiInside {
			e.lin.addPending(q)
			e.phi.set(q.X, q.Y, phiInnerBoundary)
			e.speed.set(q.X, q.Y, -1)
		}
	}

	lin.remove(el)
}

// cleanLin removes points from Lin whose neighbors are all non-positive,
// promoting them to strictly inside (-3), per spec.md §4.3.3.
func (e *Engine) cleanLin() {
	e.lin.each(func(el *list.Element, p models.Point) {
		e.nh.fill(p.X, p.Y, e.width, e.height)
		allInside := true
		for i := 0; i < e.nh.n; i++ {
			q := e.nh.pts[i]
			if e.phi.get(q.X, q.Y) > 0 {
				allInside = false
				break
			}
		}
		if allInside {
			e.phi.set(p.X, p.Y, phiInside)
			e.lin.remove(el)
		}
	})
}

// cleanLout is the mirror image of cleanLin.
func (e *Engine) cleanLout() {
	e.lout.each(func(el *list.Element, p models.Point) {
		e.nh.fill(p.X, p.Y, e.width, e.height)
		allOutside := true
		for i := 0; i < e.nh.n; i++ {
			q := e.nh.pts[i]
			if e.phi.get(q.X, q.Y) < 0 {
				allOutside = false
				break
			}
		}
		if allOutside {
			e.phi.set(p.X, p.Y, phiOutside)
			e.lout.remove(el)
		}
	})
}

// hasConverged implements spec.md §4.3.4: no point in Lin has negative
// speed, no point in Lout has positive speed. Because a just-switched
// point's speed is deliberately set to the anti-converged value,
// convergence cannot be declared in any sweep that performed a switch.
func (e *Engine) hasConverged() bool {
	converged := true
	e.lin.each(func(_ *list.Element, p models.Point) {
		if e.speed.get(p.X, p.Y) < 0 {
			converged = false
		}
	})
	if !converged {
		return false
	}
	e.lout.each(func(_ *list.Element, p models.Point) {
		if e.speed.get(p.X, p.Y) > 0 {
			converged = false
		}
	})
	return converged
}

// Segmentation produces the W x H binary raster from spec.md §4.3.5:
// foreground (255) wherever phi < 0, background (0) otherwise.
func (e *Engine) Segmentation() *models.IntRaster {
	out := models.NewIntRaster(e.width, e.height)
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if e.phi.get(x, y) < 0 {
				out.Set(x, y, 255)
			}
		}
	}
	return out
}

// Phi exposes the read-only phi grid, mainly for tests.
func (e *Engine) Phi() PhiView { return e.phi }

// Boundary returns a snapshot of the current Lin/Lout contents, front to
// back, for callers that want the final contour without registering a
// BoundaryFunc observer.
func (e *Engine) Boundary() (lin, lout []models.Point) {
	return e.lin.points(), e.lout.points()
}

// Bounds returns the engine's grid dimensions.
func (e *Engine) Bounds() (int, int) { return e.width, e.height }

// checkConsistency verifies invariants I1-I4 from spec.md §3, returning an
// InvariantViolation describing every violation found. Intended for debug
// builds and tests only (spec.md §4.3.6): it walks the full grid plus both
// lists.
func (e *Engine) checkConsistency() error {
	reason := ""

	seen := make(map[models.Point]int, e.lin.len()+e.lout.len())

	linDup := 0
	e.lin.each(func(_ *list.Element, p models.Point) {
		seen[p]++
		if seen[p] > 1 {
			linDup++
		}
	})
	loutDup := 0
	both := 0
	e.lout.each(func(_ *list.Element, p models.Point) {
		if seen[p] > 0 {
			both++
		}
		seen[p] += 10
		if seen[p] >= 20 {
			loutDup++
		}
	})

	if linDup > 0 {
		reason += "Lin contains duplicates. "
	}
	if loutDup > 0 {
		reason += "Lout contains duplicates. "
	}
	if both > 0 {
		reason += "points found in both Lin and Lout. "
	}

	checked := make([]bool, e.width*e.height)
	e.lin.each(func(_ *list.Element, p models.Point) {
		if e.phi.get(p.X, p.Y) == phiInnerBoundary {
			checked[p.Y*e.width+p.X] = true
		} else {
			reason += "Lin point has phi != -1. "
		}
	})
	e.lout.each(func(_ *list.Element, p models.Point) {
		if e.phi.get(p.X, p.Y) == phiOuterBoundary {
			checked[p.Y*e.width+p.X] = true
		} else {
			reason += "Lout point has phi != 1. "
		}
	})

	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			v := e.phi.get(x, y)
			if v == phiInside || v == phiOutside {
				checked[y*e.width+x] = true
			} else if !checked[y*e.width+x] {
				reason += "phi cell off both lists is not +-3. "
			}
		}
	}

	if reason != "" {
		return &InvariantViolation{Reason: reason}
	}
	return nil
}
