package levelset

import (
	"gonum.org/v1/gonum/stat"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// ChanVese is the global region speed field from spec.md §4.2.1: the
// classic Chan-Vese criterion, with inside/outside means maintained
// incrementally across switches rather than recomputed every query.
// Grounded on ijfls/levelset/ChanVeseSpeedField.java.
type ChanVese struct {
	baseSpeedField

	image models.Raster

	ain, aout int
	tin, tout float64
	sum, diff float64

	in2out, out2in []models.Point
}

// NewChanVese builds the field from the initialization mask, computing the
// initial inside/outside pixel counts and intensity sums by a single pass
// over the image. Returns a DomainError if the mask is entirely foreground
// or entirely background, since either makes a mean intensity undefined.
func NewChanVese(image models.Raster, init models.Mask) (*ChanVese, error) {
	w, h := image.Bounds()
	cv := &ChanVese{image: image}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(image.At(x, y))
			if init.At(x, y) {
				cv.ain++
				cv.tin += v
			} else {
				cv.aout++
				cv.tout += v
			}
		}
	}

	if cv.ain == 0 || cv.aout == 0 {
		return nil, &DomainError{Reason: "initialization mask is entirely foreground or entirely background"}
	}

	cv.recompute()
	return cv, nil
}

func (cv *ChanVese) recompute() {
	meanIn := cv.tin / float64(cv.ain)
	meanOut := cv.tout / float64(cv.aout)
	cv.sum = meanIn + meanOut
	cv.diff = meanIn - meanOut
}

// ComputeSign implements the formula s = (uIn-uOut)*(-2*I(x,y)+uIn+uOut)
// from spec.md §4.2.1, converted to the engine's sign convention.
func (cv *ChanVese) ComputeSign(phi PhiView, p models.Point) int {
	s := cv.diff * (-2*float64(cv.image.At(p.X, p.Y)) + cv.sum)
	return engineSign(s)
}

func (cv *ChanVese) RequiresUpdate() bool {
	return len(cv.in2out) > 0 || len(cv.out2in) > 0
}

func (cv *ChanVese) NotifySwitchOut(p models.Point) {
	cv.in2out = append(cv.in2out, p)
}

func (cv *ChanVese) NotifySwitchIn(p models.Point) {
	cv.out2in = append(cv.out2in, p)
}

// ApplyPendingUpdates drains both switch queues exactly once, adjusting
// area and intensity-sum counters by the moved points' original
// intensities, then recomputes sum/diff. Per spec.md §4.2.1 this is called
// once per full speed sub-iteration prelude, never mid-sweep.
func (cv *ChanVese) ApplyPendingUpdates() {
	for _, p := range cv.in2out {
		cv.ain--
		cv.aout++
		v := float64(cv.image.At(p.X, p.Y))
		cv.tin -= v
		cv.tout += v
	}
	cv.in2out = cv.in2out[:0]

	for _, p := range cv.out2in {
		cv.ain++
		cv.aout--
		v := float64(cv.image.At(p.X, p.Y))
		cv.tin += v
		cv.tout -= v
	}
	cv.out2in = cv.out2in[:0]

	cv.recompute()
}

// Stats returns the current pixel counts and mean intensities, mainly for
// diagnostics and tests.
func (cv *ChanVese) Stats() (ain, aout int, meanIn, meanOut float64) {
	return cv.ain, cv.aout, cv.tin / float64(cv.ain), cv.tout / float64(cv.aout)
}

// RecomputeMeansFromPhi recomputes inside/outside mean intensities from
// scratch by partitioning every pixel on the sign of the current phi grid,
// using gonum's stat.Mean. It exists to exercise the testable property
// "Chan-Vese statistics after ApplyPendingUpdates equal those recomputed
// from scratch": it never mutates the field and is not used on the hot
// evolution path, where the incremental maintenance above is authoritative.
func RecomputeMeansFromPhi(image models.Raster, phi PhiView) (meanIn, meanOut float64) {
	w, h := phi.Bounds()
	var inVals, outVals []float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(image.At(x, y))
			if phi.At(x, y) < 0 {
				inVals = append(inVals, v)
			} else {
				outVals = append(outVals, v)
			}
		}
	}
	return stat.Mean(inVals, nil), stat.Mean(outVals, nil)
}
