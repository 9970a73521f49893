package processor

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Resampler scales an image to exactly width x height.
type Resampler interface {
	Resize(img image.Image, width, height int) image.Image
}

// NfntResampler resamples with github.com/nfnt/resize.
type NfntResampler struct {
	Interpolation resize.InterpolationFunction
}

func (r NfntResampler) Resize(img image.Image, width, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, r.Interpolation)
}

// DrawResampler resamples with a golang.org/x/image/draw kernel.
type DrawResampler struct {
	Scaler draw.Scaler
}

func (r DrawResampler) Resize(img image.Image, width, height int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	r.Scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// NewResampler returns the resampler registered under name. Lanczos3 is the
// high quality default.
func NewResampler(name string) (Resampler, error) {
	switch name {
	case "", "lanczos3":
		return NfntResampler{Interpolation: resize.Lanczos3}, nil
	case "bicubic":
		return NfntResampler{Interpolation: resize.Bicubic}, nil
	case "bilinear":
		return DrawResampler{Scaler: draw.BiLinear}, nil
	case "catmullrom":
		return DrawResampler{Scaler: draw.CatmullRom}, nil
	case "nearest":
		return DrawResampler{Scaler: draw.NearestNeighbor}, nil
	default:
		return nil, fmt.Errorf("unknown resample filter %q", name)
	}
}
