package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/manics/imagej-fastlevelset/internal/models"
	"github.com/manics/imagej-fastlevelset/pkg/initialize"
	"github.com/manics/imagej-fastlevelset/pkg/levelset"
)

// buildInitMask builds the initialization mask either from a "x0,y0,x1,y1"
// rectangle string or, when roi is empty, by mean-thresholding the image,
// mirroring Initialiser.getInitialisation's ROI-vs-auto-threshold choice.
func buildInitMask(image *models.IntRaster, roi string) (models.Mask, error) {
	if roi == "" {
		return initialize.ThresholdMask(image)
	}

	parts := strings.Split(roi, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("roi must be \"x0,y0,x1,y1\", got %q", roi)
	}
	coords := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("roi coordinate %q is not an integer: %w", p, err)
		}
		coords[i] = v
	}

	return initialize.RectMask(image.Width, image.Height, coords[0], coords[1], coords[2], coords[3])
}

// boolMaskFromSegmentation adapts the engine's 0/255 IntRaster output
// into a Mask for imageio.SaveMask.
func boolMaskFromSegmentation(seg *models.IntRaster) models.Mask {
	mask := models.NewBoolMask(seg.Width, seg.Height)
	for y := 0; y < seg.Height; y++ {
		for x := 0; x < seg.Width; x++ {
			mask.Set(x, y, seg.At(x, y) != 0)
		}
	}
	return mask
}

// boundaryPoints reads the final Lin/Lout snapshot off a finished engine.
func boundaryPoints(engine *levelset.Engine) (lin, lout []models.Point) {
	return engine.Boundary()
}
