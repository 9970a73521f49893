package processor

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("image has zero area")

// Centering positions the fill window inside the source, 0 is left/top and 1
// is right/bottom.
type Centering struct {
	X, Y float64
}

// DefaultCentering keeps the horizontal center and most of the top edge,
// where subjects usually are.
var DefaultCentering = Centering{X: 0.5, Y: 0.1}

// SizeNormalizer maps images of any aspect ratio onto Target.
type SizeNormalizer struct {
	Target     Size
	Mode       Mode
	Resampler  Resampler
	Centering  Centering
	Background color.Color
}

// NewSizeNormalizer returns a normalizer using Lanczos3, top-biased fill
// centering and a white pad color.
func NewSizeNormalizer(target Size, mode Mode) SizeNormalizer {
	return SizeNormalizer{
		Target:     target,
		Mode:       mode,
		Resampler:  NfntResampler{Interpolation: resize.Lanczos3},
		Centering:  DefaultCentering,
		Background: color.White,
	}
}

// Normalize returns a new image of exactly Target size.
func (n SizeNormalizer) Normalize(img image.Image) (image.Image, error) {
	if err := n.Target.Validate(); err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	if n.Mode == ModePad {
		return n.pad(img), nil
	}
	return n.fill(img), nil
}

func (n SizeNormalizer) fill(img image.Image) image.Image {
	window := fillWindow(img.Bounds(), n.Target, n.Centering)
	if window != img.Bounds() {
		img = imaging.Crop(img, window)
	}
	return n.Resampler.Resize(img, n.Target.Width, n.Target.Height)
}

// fillWindow is the largest rectangle with the target aspect ratio that fits
// in bounds, placed according to centering.
func fillWindow(bounds image.Rectangle, target Size, centering Centering) image.Rectangle {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	targetAspect := float64(target.Width) / float64(target.Height)

	cropW, cropH := w, h
	if w/h > targetAspect {
		cropW = targetAspect * h
	} else {
		cropH = w / targetAspect
	}

	left := (w - cropW) * clamp01(centering.X)
	top := (h - cropH) * clamp01(centering.Y)

	window := image.Rect(
		round(left), round(top),
		max(round(left+cropW), round(left)+1), max(round(top+cropH), round(top)+1),
	)
	return window.Add(bounds.Min).Intersect(bounds)
}

func (n SizeNormalizer) pad(img image.Image) image.Image {
	size := fitSize(img.Bounds(), n.Target)
	resized := n.Resampler.Resize(img, size.Width, size.Height)

	background := n.Background
	if background == nil {
		background = color.White
	}
	canvas := imaging.New(n.Target.Width, n.Target.Height, background)

	x := round(float64(n.Target.Width-size.Width) * 0.5)
	y := round(float64(n.Target.Height-size.Height) * 0.5)
	return imaging.Paste(canvas, resized, image.Pt(x, y))
}

// fitSize scales bounds to fit inside target keeping the aspect ratio. The
// longer side matches the target exactly.
func fitSize(bounds image.Rectangle, target Size) Size {
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	if w/h > float64(target.Width)/float64(target.Height) {
		return Size{
			Width:  target.Width,
			Height: min(target.Height, max(1, round(h/w*float64(target.Width)))),
		}
	}
	return Size{
		Width:  min(target.Width, max(1, round(w/h*float64(target.Height)))),
		Height: target.Height,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
