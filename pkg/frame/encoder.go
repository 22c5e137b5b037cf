// Package frame turns captured camera frames into bounded JPEG payloads.
package frame

import (
	"Supermarket-Vision-Backend/pkg/camera"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"image"
	"image/jpeg"
	_ "image/png"
	"math"
)

const DefaultMaxEdge = 1280

var (
	ErrEmptyFrame     = errors.New("frame is empty")
	ErrMalformedFrame = errors.New("frame could not be decoded")
	ErrInvalidQuality = errors.New("quality must be in (0, 1]")
)

type (
	Encoded struct {
		Data   []byte
		Width  int
		Height int
	}

	Encoder struct {
		MaxEdge int
	}
)

func NewEncoder(maxEdge int) *Encoder {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	return &Encoder{MaxEdge: maxEdge}
}

// Encode decodes the frame, downscales it when its longest edge exceeds
// MaxEdge and re-encodes it as JPEG. quality is in (0, 1].
func (e *Encoder) Encode(raw camera.RawFrame, quality float64) (Encoded, error) {
	if len(raw.Data) == 0 {
		return Encoded{}, ErrEmptyFrame
	}
	if quality <= 0 || quality > 1 {
		return Encoded{}, fmt.Errorf("%w: got %v", ErrInvalidQuality, quality)
	}

	img, _, err := image.Decode(bytes.NewReader(raw.Data))
	if err != nil {
		return Encoded{}, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	img = e.fit(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality(quality)}); err != nil {
		return Encoded{}, fmt.Errorf("encode jpeg: %w", err)
	}

	bounds := img.Bounds()
	return Encoded{
		Data:   buf.Bytes(),
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

func (e *Encoder) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := max(w, h)
	if e.MaxEdge <= 0 || longest <= e.MaxEdge {
		return img
	}

	scale := float64(e.MaxEdge) / float64(longest)
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func jpegQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	return min(max(q, 1), 100)
}

// DataURI renders the payload the way the inference proxy expects it.
func (e Encoded) DataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(e.Data)
}
