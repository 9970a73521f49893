package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"

	// Decoders for the formats imaging does not register on its own.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads any supported input image. EXIF orientation is not applied.
func Decode(r io.Reader) (image.Image, error) {
	return imaging.Decode(r)
}

// Flatten converts img to a mode every encoder accepts, judged on img
// itself. See FlattenAs.
func Flatten(img image.Image) image.Image {
	return FlattenAs(img, img)
}

// FlattenAs converts img according to the color mode of src, the image it
// was derived from. When src is grayscale, alpha-only or paletted, img
// becomes opaque RGB. When src is RGB or RGBA, img is returned as is.
// Crop and resize always produce NRGBA, so the decision has to be made on
// the decoded source.
func FlattenAs(src, img image.Image) image.Image {
	if isRGBMode(src) {
		return img
	}

	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

func isRGBMode(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.YCbCr:
		return true
	}
	return false
}

// Encoder writes an image in one output format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Extension is the output file extension without the dot.
	Extension() string
	ContentType() string
}

// avifSpeed trades size for time, 10 is the fastest.
const avifSpeed = 10

// AVIFEncoder encodes with github.com/gen2brain/avif.
type AVIFEncoder struct {
	Quality int
	Speed   int
}

func (e AVIFEncoder) Encode(w io.Writer, img image.Image) error {
	return avif.Encode(w, img, avif.Options{
		Quality:      e.Quality,
		QualityAlpha: e.Quality,
		Speed:        e.Speed,
	})
}

func (AVIFEncoder) Extension() string   { return "avif" }
func (AVIFEncoder) ContentType() string { return "image/avif" }

// JPEGEncoder drops alpha; JPEG has no transparency.
type JPEGEncoder struct {
	Quality int
}

func (e JPEGEncoder) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(e.Quality))
}

func (JPEGEncoder) Extension() string   { return "jpg" }
func (JPEGEncoder) ContentType() string { return "image/jpeg" }

// PNGEncoder is lossless; quality does not apply.
type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

func (PNGEncoder) Extension() string   { return "png" }
func (PNGEncoder) ContentType() string { return "image/png" }

// NewEncoder returns the encoder for format at the given quality.
func NewEncoder(format string, quality int) (Encoder, error) {
	switch format {
	case "", "avif":
		return AVIFEncoder{Quality: quality, Speed: avifSpeed}, nil
	case "jpeg", "jpg":
		return JPEGEncoder{Quality: quality}, nil
	case "png":
		return PNGEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
