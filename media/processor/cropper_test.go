package processor

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDifferenceLuma(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    int
	}{
		{"white", 255, 255, 255, 0},
		{"black", 0, 0, 0, 255},
		{"magenta", 255, 0, 255, 150},
		{"light gray", 240, 240, 240, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, differenceLuma(tt.r, tt.g, tt.b))
		})
	}
}

func TestBorderCropper_AllWhiteIsNoop(t *testing.T) {
	img := solid(500, 500, white)
	cropper := NewBorderCropper(30)

	_, ok := cropper.BoundingBox(img)
	assert.False(t, ok)

	out := cropper.Crop(img)
	assert.Equal(t, img.Bounds(), out.Bounds())
}

func TestBorderCropper_TightRectangle(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
	}{
		{"top left square", image.Rect(0, 0, 100, 100)},
		{"inner rectangle", image.Rect(37, 51, 140, 99)},
		{"touches bottom right", image.Rect(300, 420, 500, 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := solid(500, 500, white)
			fillRect(img, tt.rect, black)
			cropper := NewBorderCropper(30)

			box, ok := cropper.BoundingBox(img)
			require.True(t, ok)
			assert.Equal(t, tt.rect, box)

			out := cropper.Crop(img)
			assert.Equal(t, tt.rect.Dx(), out.Bounds().Dx())
			assert.Equal(t, tt.rect.Dy(), out.Bounds().Dy())
			assert.Equal(t, black, nrgbaAt(out, out.Bounds().Min.X, out.Bounds().Min.Y))
		})
	}
}

func TestBorderCropper_Threshold(t *testing.T) {
	img := solid(50, 50, white)
	fillRect(img, image.Rect(10, 10, 20, 20), color.NRGBA{240, 240, 240, 255})

	_, ok := NewBorderCropper(30).BoundingBox(img)
	assert.False(t, ok, "difference of 15 is background at threshold 30")

	box, ok := NewBorderCropper(10).BoundingBox(img)
	require.True(t, ok)
	assert.Equal(t, image.Rect(10, 10, 20, 20), box)

	_, ok = NewBorderCropper(15).BoundingBox(img)
	assert.False(t, ok, "threshold is exclusive")
}

func TestBorderCropper_DegenerateBox(t *testing.T) {
	img := solid(200, 200, white)
	img.Set(120, 40, black)

	cropper := NewBorderCropper(30)
	out := cropper.Crop(img)
	assert.Equal(t, image.Rect(0, 0, 1, 1), out.Bounds(), "a single pixel is cropped when MinSize is 1")

	cropper.MinSize = 16
	out = cropper.Crop(img)
	assert.Equal(t, img.Bounds(), out.Bounds(), "boxes below MinSize leave the image alone")
}

func TestBorderCropper_IgnoresAlpha(t *testing.T) {
	img := solid(40, 40, white)
	fillRect(img, image.Rect(5, 5, 15, 15), color.NRGBA{0, 0, 0, 0})

	box, ok := NewBorderCropper(30).BoundingBox(img)
	require.True(t, ok)
	assert.Equal(t, image.Rect(5, 5, 15, 15), box)
}

func TestBorderCropper_GrayInput(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 60))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 20; y < 30; y++ {
		for x := 10; x < 50; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out := NewBorderCropper(30).Crop(img)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())
}

func TestBorderCropper_SubImageCoordinates(t *testing.T) {
	parent := solid(300, 300, white)
	fillRect(parent, image.Rect(150, 160, 170, 190), black)
	sub := parent.SubImage(image.Rect(100, 100, 300, 300))

	box, ok := NewBorderCropper(30).BoundingBox(sub)
	require.True(t, ok)
	assert.Equal(t, image.Rect(150, 160, 170, 190), box)

	out := NewBorderCropper(30).Crop(sub)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, 30, out.Bounds().Dy())
}

func TestBorderCropper_DoesNotMutateInput(t *testing.T) {
	img := solid(100, 100, white)
	fillRect(img, image.Rect(10, 10, 30, 30), black)
	before := bytes.Clone(img.Pix)

	_ = NewBorderCropper(30).Crop(img)
	assert.Equal(t, before, img.Pix)
}
