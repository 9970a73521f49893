package processor

import (
	"image"

	"github.com/disintegration/imaging"
)

// BorderCropper trims uniform white borders.
//
// A pixel is foreground when the luminance of its difference from white is
// greater than Threshold. The image is cropped to the bounding box of all
// foreground pixels. Alpha is ignored.
type BorderCropper struct {
	// Threshold in [0,255]; 30 by default.
	Threshold int
	// MinSize is the smallest accepted box side. Smaller boxes leave the
	// image untouched.
	MinSize int
}

// NewBorderCropper returns a cropper with the given threshold and a minimum
// box side of 1 pixel.
func NewBorderCropper(threshold int) BorderCropper {
	return BorderCropper{Threshold: threshold, MinSize: 1}
}

// BoundingBox returns the foreground box in img's coordinate space. ok is
// false when nothing passes the threshold.
func (c BorderCropper) BoundingBox(img image.Image) (box image.Rectangle, ok bool) {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()

	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+3]
			if differenceLuma(p[0], p[1], p[2]) <= c.Threshold {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			maxY = y
		}
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1).Add(img.Bounds().Min), true
}

// Crop returns img cropped to its foreground box, or img itself when there is
// no box or the box is smaller than MinSize on either side. img is never
// modified.
func (c BorderCropper) Crop(img image.Image) image.Image {
	box, ok := c.BoundingBox(img)
	if !ok {
		return img
	}
	if box.Dx() < c.MinSize || box.Dy() < c.MinSize {
		return img
	}
	if box == img.Bounds() {
		return img
	}
	return imaging.Crop(img, box)
}

// differenceLuma is the ITU-R 601-2 luma of (255-r, 255-g, 255-b) in 16.16
// fixed point, rounded.
func differenceLuma(r, g, b uint8) int {
	dr, dg, db := uint32(255-r), uint32(255-g), uint32(255-b)
	return int((dr*19595 + dg*38470 + db*7471 + 0x8000) >> 16)
}
