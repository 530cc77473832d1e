package imgfilter

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/disintegration/imaging"
)

var _ image.Image = (*Image)(nil)

// Image is an in-memory RGB raster.
type Image struct {
	Width  int
	Height int
	// Pix holds the pixels row-major: pixel (x, y) is at Pix[y*Width+x].
	// len(Pix) must equal Width*Height; transforms assume it and panic otherwise.
	Pix []Pixel
}

// New builds an image from three channel sequences laid out row-major.
// Every channel must hold width*height values in the range 0-255.
func New(r, g, b []int, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, &ConstructionError{fmt.Sprintf("dimensions %dx%d are not positive", width, height)}
	}
	if len(r) != len(g) || len(r) != len(b) {
		return nil, &ConstructionError{fmt.Sprintf("channel lengths differ: %d, %d, %d", len(r), len(g), len(b))}
	}
	if n := width * height; len(r) != n {
		return nil, &ConstructionError{fmt.Sprintf("channel length %d, want %dx%d=%d", len(r), width, height, n)}
	}
	pix := make([]Pixel, len(r))
	for i := range pix {
		if !inRange(r[i]) || !inRange(g[i]) || !inRange(b[i]) {
			return nil, &ConstructionError{fmt.Sprintf("pixel %d (%d, %d, %d) out of range 0-255", i, r[i], g[i], b[i])}
		}
		pix[i] = Pixel{uint8(r[i]), uint8(g[i]), uint8(b[i])}
	}
	return &Image{Width: width, Height: height, Pix: pix}, nil
}

func inRange(v int) bool { return v >= 0 && v <= 255 }

// FromImage copies any image into a new Image. Alpha is discarded.
// It fails with a ConstructionError if img has no pixels.
func FromImage(img image.Image) (*Image, error) {
	if size := img.Bounds().Size(); size.X <= 0 || size.Y <= 0 {
		return nil, &ConstructionError{fmt.Sprintf("dimensions %dx%d are not positive", size.X, size.Y)}
	}
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	m := &Image{Width: w, Height: h, Pix: make([]Pixel, w*h)}
	parallel(0, h, func(ys <-chan int) {
		for y := range ys {
			i := y * src.Stride
			for x := range w {
				s := src.Pix[i : i+4 : i+4]
				m.Pix[y*w+x] = Pixel{s[0], s[1], s[2]}
				i += 4
			}
		}
	})
	return m, nil
}

// Channels splits the image back into three channel sequences.
func (m *Image) Channels() (r, g, b []int) {
	r = make([]int, len(m.Pix))
	g = make([]int, len(m.Pix))
	b = make([]int, len(m.Pix))
	for i, p := range m.Pix {
		r[i], g[i], b[i] = int(p.R), int(p.G), int(p.B)
	}
	return
}

// NRGBA returns an opaque *image.NRGBA copy of the image.
func (m *Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	parallel(0, m.Height, func(ys <-chan int) {
		for y := range ys {
			i := y * dst.Stride
			for _, p := range m.Pix[y*m.Width : (y+1)*m.Width] {
				d := dst.Pix[i : i+4 : i+4]
				d[0], d[1], d[2], d[3] = p.R, p.G, p.B, 0xff
				i += 4
			}
		}
	})
	return dst
}

// ColorModel implements the image.Image interface.
func (m *Image) ColorModel() color.Model { return PixelModel }

// Bounds implements the image.Image interface.
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At implements the image.Image interface.
func (m *Image) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Bounds()) {
		return Pixel{}
	}
	return m.Pix[y*m.Width+x]
}

// Set implements the draw.Image interface.
func (m *Image) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(m.Bounds()) {
		return
	}
	m.Pix[y*m.Width+x] = PixelModel.Convert(c).(Pixel)
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	return &Image{Width: m.Width, Height: m.Height, Pix: slices.Clone(m.Pix)}
}

// Equal reports whether both images have the same dimensions and pixels.
func (m *Image) Equal(other *Image) bool {
	return m.Width == other.Width && m.Height == other.Height && slices.Equal(m.Pix, other.Pix)
}

// Invert inverts every pixel in place.
func (m *Image) Invert() {
	m.eachPixel((*Pixel).Invert)
}

// Grayscale converts every pixel to gray in place.
func (m *Image) Grayscale() {
	m.eachPixel((*Pixel).Grayscale)
}

func (m *Image) eachPixel(fn func(*Pixel)) {
	parallel(0, m.Height, func(ys <-chan int) {
		for y := range ys {
			row := m.Pix[y*m.Width : (y+1)*m.Width]
			for i := range row {
				fn(&row[i])
			}
		}
	})
}
