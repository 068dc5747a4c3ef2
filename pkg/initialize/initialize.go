// Package initialize builds the initial foreground/background mask a
// level-set evolution starts from, mirroring
// ijfls/levelset/Initialiser.java's two supported strategies: an
// automatically-thresholded mask, and a mask from a caller-supplied
// rectangular region of interest.
package initialize

import (
	"github.com/anthonynsimon/bild/segment"

	"github.com/manics/imagej-fastlevelset/internal/models"
	"github.com/manics/imagej-fastlevelset/pkg/levelset"
)

// ThresholdMask builds a mask by mean thresholding: pixels at or above
// the raster's mean intensity are foreground. This is the Go-native
// equivalent of ImageJ's AutoThresholder "Mean" method, one of the
// methods Initialiser.getInitialisationMethods enumerates. The actual
// binarization is delegated to bild's segment.Threshold, grounded on
// its use in the wider example pack for turning a grayscale image into
// a binary one without hand-rolling pixel comparisons.
func ThresholdMask(image models.Raster) (models.Mask, error) {
	w, h := image.Bounds()
	if w == 0 || h == 0 {
		return nil, &levelset.ConfigurationError{Reason: "cannot threshold an empty image"}
	}

	level := meanLevel(image)

	gray := models.ToGray(image)
	binary := segment.Threshold(gray, level)

	mask := models.NewBoolMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mask.Set(x, y, binary.GrayAt(x, y).Y > 0)
		}
	}
	return mask, nil
}

// meanLevel computes the raster's mean intensity as a byte-clamped
// threshold level.
func meanLevel(image models.Raster) uint8 {
	w, h := image.Bounds()
	var total int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			total += int64(image.At(x, y))
		}
	}
	mean := total / int64(w*h)
	switch {
	case mean < 0:
		return 0
	case mean > 255:
		return 255
	default:
		return uint8(mean)
	}
}

// RectMask builds a mask that is true within the axis-aligned rectangle
// [x0,x1) x [y0,y1) and false elsewhere, clipped to the raster bounds.
// This is the Go-native equivalent of Initialiser.initFromRoi's
// no-mask-attached branch: a rectangular region of interest with no
// finer-grained shape.
func RectMask(width, height, x0, y0, x1, y1 int) (models.Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, &levelset.ConfigurationError{Reason: "mask dimensions must be positive"}
	}
	if x0 >= x1 || y0 >= y1 {
		return nil, &levelset.ConfigurationError{Reason: "rectangle must have positive width and height"}
	}

	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, width), min(y1, height)

	mask := models.NewBoolMask(width, height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			mask.Set(x, y, true)
		}
	}
	return mask, nil
}
