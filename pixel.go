package imgfilter

import (
	"fmt"
	"image/color"
)

// PixelModel converts any color to a Pixel, dropping alpha.
var PixelModel = color.ModelFunc(pixelModel)

// Pixel is an opaque RGB color with 8 bits per channel.
type Pixel struct {
	R, G, B uint8
}

// RGBA implements the color.Color interface.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.R)
	r |= r << 8
	g = uint32(p.G)
	g |= g << 8
	b = uint32(p.B)
	b |= b << 8
	a = 0xffff
	return
}

func pixelModel(c color.Color) color.Color {
	if _, ok := c.(Pixel); ok {
		return c
	}
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{nrgba.R, nrgba.G, nrgba.B}
}

// Invert replaces every channel c with 255-c.
func (p *Pixel) Invert() {
	p.R = 255 - p.R
	p.G = 255 - p.G
	p.B = 255 - p.B
}

// Grayscale sets all channels to r/3 + g/3 + b/3.
// Each channel is divided before summing, so the result never exceeds the true average.
func (p *Pixel) Grayscale() {
	gray := p.R/3 + p.G/3 + p.B/3
	p.R, p.G, p.B = gray, gray, gray
}

// Equal reports whether p and other hold the same channels.
func (p Pixel) Equal(other Pixel) bool {
	return p.R == other.R && p.G == other.G && p.B == other.B
}

func (p Pixel) String() string {
	return fmt.Sprintf("red: %d, green: %d, blue: %d", p.R, p.G, p.B)
}
