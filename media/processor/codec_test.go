package processor

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.SetGray(1, 1, color.Gray{Y: 90})

	flat := Flatten(gray)
	nrgba, ok := flat.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{90, 90, 90, 255}, nrgba.NRGBAAt(1, 1))

	alpha := image.NewAlpha(image.Rect(0, 0, 2, 2))
	flat = Flatten(alpha)
	assert.Equal(t, uint8(255), nrgbaAt(flat, 1, 0).A, "alpha-only images become opaque")

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, red})
	paletted.SetColorIndex(0, 0, 1)
	flat = Flatten(paletted)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(flat, 0, 0))
	assert.Equal(t, uint8(255), nrgbaAt(flat, 1, 1).A)

	rgba := solid(3, 3, color.NRGBA{1, 2, 3, 4})
	assert.Same(t, rgba, Flatten(rgba).(*image.NRGBA), "alpha is kept for RGBA images")
}

func TestFlattenAs(t *testing.T) {
	resized := solid(4, 4, color.NRGBA{10, 20, 30, 0})

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, red})
	flat := FlattenAs(paletted, resized)
	assert.Equal(t, color.NRGBA{10, 20, 30, 255}, nrgbaAt(flat, 3, 3), "paletted sources lose alpha")
	assert.Equal(t, uint8(0), resized.NRGBAAt(3, 3).A, "input is not modified")

	flat = FlattenAs(image.NewGray(image.Rect(0, 0, 1, 1)), resized)
	assert.Equal(t, uint8(255), nrgbaAt(flat, 0, 0).A)

	rgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	assert.Same(t, resized, FlattenAs(rgba, resized).(*image.NRGBA), "RGBA sources keep alpha")
}

func TestNewEncoder(t *testing.T) {
	tests := []struct {
		format      string
		extension   string
		contentType string
	}{
		{"", "avif", "image/avif"},
		{"avif", "avif", "image/avif"},
		{"jpeg", "jpg", "image/jpeg"},
		{"png", "png", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			enc, err := NewEncoder(tt.format, 80)
			require.NoError(t, err)
			assert.Equal(t, tt.extension, enc.Extension())
			assert.Equal(t, tt.contentType, enc.ContentType())
		})
	}

	_, err := NewEncoder("gif", 80)
	assert.Error(t, err)
}

func TestAVIFEncoder(t *testing.T) {
	enc, err := NewEncoder("avif", 80)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, solid(64, 80, red)))

	data := buf.Bytes()
	require.Greater(t, len(data), 12)
	assert.Equal(t, "ftyp", string(data[4:8]))
	assert.Equal(t, "avif", string(data[8:12]))
}

func TestDecode(t *testing.T) {
	src := solid(21, 13, blue)

	for _, format := range []imaging.Format{imaging.PNG, imaging.JPEG, imaging.BMP, imaging.TIFF} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, imaging.Encode(&buf, src, format))

			img, err := Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 21, 13), img.Bounds())
		})
	}

	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
