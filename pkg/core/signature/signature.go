// Package signature captures freehand supervisor signatures as a
// fixed-resolution raster. The pad is always 400x150 regardless of how large
// the drawing surface is displayed; device coordinates are scaled into pad
// space before rasterizing. The finished signature travels inline as a PNG
// data URL on the service-hour entry and is never uploaded anywhere else.
package signature

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Pad resolution; fixed no matter the displayed size
const (
	Width  = 400
	Height = 150
)

// Background is the exact fill the pad is initialized with. Blankness is
// defined as every pixel equaling this color exactly.
var Background = color.NRGBA{R: 250, G: 249, B: 246, A: 255}

var ink = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

const strokeWidth = 2.0

// Point is a position in device (display) coordinates
type Point struct {
	X float64
	Y float64
}

// Pad is a signature drawing surface
type Pad struct {
	img *image.NRGBA
}

// NewPad returns a fresh pad filled with the background color
func NewPad() *Pad {
	p := &Pad{img: image.NewNRGBA(image.Rect(0, 0, Width, Height))}
	p.Clear()
	return p
}

// Clear refills the whole pad with the background color
func (p *Pad) Clear() {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			p.img.SetNRGBA(x, y, Background)
		}
	}
}

// Stroke rasterizes a freehand polyline given in device coordinates.
// displayWidth and displayHeight are the rendered size of the drawing
// surface; coordinates are scaled by the ratio of pad resolution to display
// size, so a stroke lands on the same pad pixels whatever the display size.
func (p *Pad) Stroke(points []Point, displayWidth, displayHeight float64) {
	if len(points) == 0 || displayWidth <= 0 || displayHeight <= 0 {
		return
	}

	scaleX := float64(Width) / displayWidth
	scaleY := float64(Height) / displayHeight

	prev := scalePoint(points[0], scaleX, scaleY)
	p.dab(prev)
	for _, pt := range points[1:] {
		next := scalePoint(pt, scaleX, scaleY)
		p.line(prev, next)
		prev = next
	}
}

func scalePoint(pt Point, scaleX, scaleY float64) Point {
	return Point{X: pt.X * scaleX, Y: pt.Y * scaleY}
}

// line draws a round-capped segment by stamping the brush along the segment
// at sub-pixel steps.
func (p *Pad) line(from, to Point) {
	dx := to.X - from.X
	dy := to.Y - from.Y
	dist := math.Hypot(dx, dy)
	steps := int(dist*2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p.dab(Point{X: from.X + dx*t, Y: from.Y + dy*t})
	}
}

// dab stamps one round brush footprint centered on pt
func (p *Pad) dab(pt Point) {
	radius := strokeWidth / 2
	minX := int(math.Floor(pt.X - radius))
	maxX := int(math.Ceil(pt.X + radius))
	minY := int(math.Floor(pt.Y - radius))
	maxY := int(math.Ceil(pt.Y + radius))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if x < 0 || x >= Width || y < 0 || y >= Height {
				continue
			}
			if math.Hypot(float64(x)+0.5-pt.X, float64(y)+0.5-pt.Y) <= radius {
				p.img.SetNRGBA(x, y, ink)
			}
		}
	}
}

// Blank reports whether the pad holds no signature: true iff every pixel
// still equals the exact background color. This exact-equality check is the
// gate for whether a signature is considered present.
func (p *Pad) Blank() bool {
	return imageBlank(p.img)
}

func imageBlank(img *image.NRGBA) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.NRGBAAt(x, y) != Background {
				return false
			}
		}
	}
	return true
}

const dataURLPrefix = "data:image/png;base64,"

// DataURL encodes the pad as an inline PNG data URL
func (p *Pad) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.img); err != nil {
		return "", fmt.Errorf("failed to encode signature png: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode parses an inline PNG data URL back into a pad. Images that arrive
// at a different resolution are normalized to 400x150 before any blankness
// decision is made.
func Decode(dataURL string) (*Pad, error) {
	raw, ok := strings.CutPrefix(dataURL, dataURLPrefix)
	if !ok {
		return nil, fmt.Errorf("signature is not a png data url")
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature base64: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature png: %w", err)
	}

	nrgba := imaging.Clone(img)
	if nrgba.Bounds().Dx() != Width || nrgba.Bounds().Dy() != Height {
		nrgba = imaging.Resize(nrgba, Width, Height, imaging.Lanczos)
	}

	return &Pad{img: nrgba}, nil
}

// BlankDataURL reports whether an inline signature decodes to a blank pad.
// Unparseable data counts as blank: it carries no usable signature.
func BlankDataURL(dataURL string) bool {
	if strings.TrimSpace(dataURL) == "" {
		return true
	}
	pad, err := Decode(dataURL)
	if err != nil {
		return true
	}
	return pad.Blank()
}
