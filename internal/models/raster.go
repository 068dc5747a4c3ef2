// Package models holds the small data types shared between the level-set
// core and its surrounding helper packages (initialization, image I/O,
// visualization).
package models

import (
	"image"
	"image/color"
)

// Point is a 2D integer grid coordinate.
type Point struct {
	X, Y int
}

// Raster is a read-only grayscale intensity source. Intensities may come
// from 8, 16 or 32-bit source images; the core only ever compares and sums
// them, so a single int-valued accessor is sufficient.
type Raster interface {
	Bounds() (width, height int)
	At(x, y int) int
}

// Mask is a read-only binary initialization source: true means
// foreground.
type Mask interface {
	Bounds() (width, height int)
	At(x, y int) bool
}

// IntRaster is a dense Raster backed by a flat int slice, row-major.
type IntRaster struct {
	Width, Height int
	Pix           []int
}

// NewIntRaster allocates a zeroed raster of the given dimensions.
func NewIntRaster(width, height int) *IntRaster {
	return &IntRaster{Width: width, Height: height, Pix: make([]int, width*height)}
}

func (r *IntRaster) Bounds() (int, int) { return r.Width, r.Height }

func (r *IntRaster) At(x, y int) int { return r.Pix[y*r.Width+x] }

func (r *IntRaster) Set(x, y, v int) { r.Pix[y*r.Width+x] = v }

// BoolMask is a dense Mask backed by a flat bool slice, row-major.
type BoolMask struct {
	Width, Height int
	Pix           []bool
}

// NewBoolMask allocates an all-background mask of the given dimensions.
func NewBoolMask(width, height int) *BoolMask {
	return &BoolMask{Width: width, Height: height, Pix: make([]bool, width*height)}
}

func (m *BoolMask) Bounds() (int, int) { return m.Width, m.Height }

func (m *BoolMask) At(x, y int) bool { return m.Pix[y*m.Width+x] }

func (m *BoolMask) Set(x, y int, v bool) { m.Pix[y*m.Width+x] = v }

// RasterFromImage adapts any image.Image into a Raster by reading its
// grayscale value at each pixel, via the standard library's Gray color
// model (the standard luma transform for color images).
func RasterFromImage(img image.Image) *IntRaster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := NewIntRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Set(x, y, int(gray.Y))
		}
	}
	return out
}

// ToGray renders a Raster as a stdlib *image.Gray, clamping intensities
// to [0,255].
func ToGray(r Raster) *image.Gray {
	w, h := r.Bounds()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := r.At(x, y)
			switch {
			case v < 0:
				v = 0
			case v > 255:
				v = 255
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v)})
		}
	}
	return img
}
