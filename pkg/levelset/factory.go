package levelset

import "github.com/manics/imagej-fastlevelset/internal/models"

// Method identifies one of the closed set of speed-field implementations
// spec.md §6 recognizes.
type Method int

const (
	ChanVeseMethod Method = iota
	HybridMethod
	EdgeMethod
)

func (m Method) String() string {
	switch m {
	case ChanVeseMethod:
		return "Region (Chan Vese)"
	case HybridMethod:
		return "Local region (Hybrid)"
	case EdgeMethod:
		return "Edge (Not implemented) (Geodesic active contours)"
	default:
		return "unknown"
	}
}

// NewSpeedField is the tiny factory from spec.md §6, grounded on
// ijfls/levelset/SpeedFieldFactory.create. EDGE is a recognized but
// unimplemented method: it returns ErrNotImplemented rather than building
// anything, matching the Java reference's IllegalArgumentException.
func NewSpeedField(method Method, image models.Raster, init models.Mask, hybridParams HybridParams) (SpeedField, error) {
	switch method {
	case ChanVeseMethod:
		return NewChanVese(image, init)
	case HybridMethod:
		return NewHybrid(hybridParams, image), nil
	default:
		return nil, ErrNotImplemented
	}
}
