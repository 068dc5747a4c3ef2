// Package imageio loads and saves the grayscale rasters and binary masks
// the level-set engine operates on. Grounded on the teacher's image
// loading in pkg/reconstruction/reconstructor.go and on
// ironsheep-image_tools_mcp's use of disintegration/imaging as the
// general-purpose decode/encode/resize layer.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// LoadRaster reads an image file from path and converts it to a
// grayscale Raster. The blank-imported bmp/tiff/gif/jpeg/png decoders
// extend the set of formats imaging.Open (whose own registration covers
// jpeg/png/gif/bmp/tiff) can be relied on for MRI/microscopy slice
// exports, mirroring the format breadth ironsheep-image_tools_mcp
// assumes for its own image inputs.
func LoadRaster(path string) (*models.IntRaster, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imageio: opening %s: %w", path, err)
	}
	return models.RasterFromImage(img), nil
}

// SaveRaster writes r as a grayscale image at path, in the format named by
// path's extension, converting via imaging's encoder so callers get
// imaging's normal error semantics.
func SaveRaster(r models.Raster, path string) error {
	gray := models.ToGray(r)
	if err := imaging.Save(gray, path); err != nil {
		return fmt.Errorf("imageio: saving %s: %w", path, err)
	}
	return nil
}

// SaveMask writes a Mask as a black/white image at path, in the format
// named by path's extension: foreground pixels are 255, background pixels
// are 0.
func SaveMask(m models.Mask, path string) error {
	w, h := m.Bounds()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.At(x, y) {
				gray.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return imaging.Save(gray, path)
}
