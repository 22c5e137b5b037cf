package frame

import (
	"Supermarket-Vision-Backend/pkg/camera"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEncodeDownscales(t *testing.T) {
	enc := NewEncoder(100)

	out, err := enc.Encode(camera.RawFrame{Data: testImage(t, 400, 200)}, 0.7)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 50, out.Height)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestEncodeKeepsSmallFrames(t *testing.T) {
	out, err := NewEncoder(0).Encode(camera.RawFrame{Data: testImage(t, 64, 48)}, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 64, out.Width)
	assert.Equal(t, 48, out.Height)
}

func TestEncodeDeterministic(t *testing.T) {
	raw := camera.RawFrame{Data: testImage(t, 32, 32)}
	enc := NewEncoder(0)

	a, err := enc.Encode(raw, 0.7)
	require.NoError(t, err)
	b, err := enc.Encode(raw, 0.7)
	require.NoError(t, err)
	assert.Equal(t, a.Data, b.Data)
}

func TestEncodeErrors(t *testing.T) {
	enc := NewEncoder(0)

	_, err := enc.Encode(camera.RawFrame{}, 0.7)
	assert.ErrorIs(t, err, ErrEmptyFrame)

	_, err = enc.Encode(camera.RawFrame{Data: []byte("not an image")}, 0.7)
	assert.ErrorIs(t, err, ErrMalformedFrame)

	_, err = enc.Encode(camera.RawFrame{Data: testImage(t, 8, 8)}, 1.5)
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestDataURI(t *testing.T) {
	uri := Encoded{Data: []byte{0xFF, 0xD8}}.DataURI()
	assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	assert.Equal(t, "data:image/jpeg;base64,/9g=", uri)
}
