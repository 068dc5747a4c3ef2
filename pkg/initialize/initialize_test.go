package initialize

import (
	"testing"

	"github.com/manics/imagej-fastlevelset/internal/models"
)

func TestThresholdMaskSeparatesBrightFromDark(t *testing.T) {
	const w, h = 10, 10
	image := models.NewIntRaster(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < 5 {
				image.Set(x, y, 20)
			} else {
				image.Set(x, y, 220)
			}
		}
	}

	mask, err := ThresholdMask(image)
	if err != nil {
		t.Fatalf("ThresholdMask: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			want := x >= 5
			got := mask.At(x, y)
			if want != got {
				t.Errorf("at (%d,%d): want %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestThresholdMaskRejectsEmptyImage(t *testing.T) {
	image := models.NewIntRaster(0, 0)
	if _, err := ThresholdMask(image); err == nil {
		t.Error("expected an error for an empty image")
	}
}

func TestRectMaskClipsToBounds(t *testing.T) {
	mask, err := RectMask(10, 10, -5, -5, 5, 5)
	if err != nil {
		t.Fatalf("RectMask: %v", err)
	}
	if !mask.At(0, 0) {
		t.Error("expected (0,0) to be foreground after clipping")
	}
	if mask.At(5, 5) {
		t.Error("expected (5,5) to be background, outside the clipped rectangle")
	}
}

func TestRectMaskRejectsInvalidRectangle(t *testing.T) {
	if _, err := RectMask(10, 10, 5, 5, 5, 5); err == nil {
		t.Error("expected an error for a zero-area rectangle")
	}
	if _, err := RectMask(0, 10, 0, 0, 1, 1); err == nil {
		t.Error("expected an error for zero width")
	}
}
