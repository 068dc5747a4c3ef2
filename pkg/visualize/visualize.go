// Package visualize renders the level-set boundary over the source
// image for visual inspection, in the spirit of the teacher's
// pkg/visualization.Viewer slice-export helpers but producing a single
// annotated RGB frame instead of a slice sequence.
package visualize

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

// Colors selects the overlay hues used for Lin and Lout.
type Colors struct {
	// Lin is the color painted at inner-boundary points (just inside the
	// contour).
	Lin colorful.Color
	// Lout is the color painted at outer-boundary points (just outside
	// the contour).
	Lout colorful.Color
	// Mix is how far, in Lab space, a marked pixel is blended from its
	// grayscale value toward the marker color: 0 leaves the pixel
	// untouched, 1 fully replaces it with the marker color.
	Mix float64
}

// DefaultColors returns a green Lin / red Lout overlay, blended
// three-quarters of the way toward the marker color.
func DefaultColors() Colors {
	return Colors{
		Lin:  colorful.Color{R: 0, G: 1, B: 0},
		Lout: colorful.Color{R: 1, G: 0, B: 0},
		Mix:  0.75,
	}
}

// Overlay renders image with lin and lout points painted according to
// colors, blending in CIE Lab space (via go-colorful's BlendLab) so the
// marker color stays perceptually consistent across varying background
// intensities rather than simply overwriting the pixel.
func Overlay(source models.Raster, lin, lout []models.Point, colors Colors) *image.RGBA {
	w, h := source.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := clampByte(source.At(x, y))
			g := colorful.Color{R: float64(v) / 255, G: float64(v) / 255, B: float64(v) / 255}
			out.Set(x, y, g)
		}
	}

	paint := func(pts []models.Point, marker colorful.Color) {
		for _, p := range pts {
			if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
				continue
			}
			v := clampByte(source.At(p.X, p.Y))
			base := colorful.Color{R: float64(v) / 255, G: float64(v) / 255, B: float64(v) / 255}
			blended := base.BlendLab(marker, colors.Mix)
			out.Set(p.X, p.Y, blended)
		}
	}
	paint(lin, colors.Lin)
	paint(lout, colors.Lout)

	return out
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// SaveOverlay renders and writes the overlay at path, using imaging's
// encoder (which picks the format from path's extension) for consistency
// with pkg/imageio.
func SaveOverlay(source models.Raster, lin, lout []models.Point, colors Colors, path string) error {
	img := Overlay(source, lin, lout, colors)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("visualize: saving %s: %w", path, err)
	}
	return nil
}

// SavePalette writes a small strip of legend swatches (Lin color, Lout
// color) alongside the overlay, so a viewer without access to this
// package's Colors values can still identify what each marker means.
func SavePalette(colors Colors, path string) error {
	const swatch = 32
	img := image.NewRGBA(image.Rect(0, 0, swatch*2, swatch))
	fill(img, image.Rect(0, 0, swatch, swatch), colors.Lin)
	fill(img, image.Rect(swatch, 0, swatch*2, swatch), colors.Lout)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("visualize: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		return fmt.Errorf("visualize: encoding %s: %w", path, err)
	}
	return nil
}

func fill(img *image.RGBA, r image.Rectangle, c colorful.Color) {
	rgba := color.RGBA{}
	pr, pg, pb, _ := c.RGBA()
	rgba.R, rgba.G, rgba.B, rgba.A = uint8(pr>>8), uint8(pg>>8), uint8(pb>>8), 255
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, rgba)
		}
	}
}
