package imgfilter

import (
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spakin/netpbm"
	_ "github.com/sunshineplan/tiff" // decode tiff format
	_ "golang.org/x/image/bmp"       // decode bmp format
	_ "golang.org/x/image/webp"      // decode webp format
)

// Format is an image file format.
type Format int

// Image file formats.
const (
	PPM Format = iota
	JPEG
	PNG
	GIF
	TIFF
	BMP
)

var formatExts = map[Format]string{
	PPM:  "ppm",
	JPEG: "jpg",
	PNG:  "png",
	GIF:  "gif",
	TIFF: "tif",
	BMP:  "bmp",
}

var formatNames = map[Format]string{
	PPM:  "PPM",
	JPEG: "JPEG",
	PNG:  "PNG",
	GIF:  "GIF",
	TIFF: "TIFF",
	BMP:  "BMP",
}

var imagingFormats = map[Format]imaging.Format{
	JPEG: imaging.JPEG,
	PNG:  imaging.PNG,
	GIF:  imaging.GIF,
	TIFF: imaging.TIFF,
	BMP:  imaging.BMP,
}

func (f Format) String() string {
	return formatNames[f]
}

// FormatFromExtension parses image format from filename extension:
// "ppm" (or "pnm"), "jpg" (or "jpeg"), "png", "gif", "tif" (or "tiff") and "bmp" are supported.
func FormatFromExtension(ext string) (Format, error) {
	switch ext = strings.ToLower(strings.TrimPrefix(ext, ".")); ext {
	case "ppm", "pnm":
		return PPM, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return -1, ErrUnsupportedFormat
	}
	for k, v := range imagingFormats {
		if v == f {
			return k, nil
		}
	}
	return -1, ErrUnsupportedFormat
}

// FormatFromFilename parses image format from filename.
func FormatFromFilename(filename string) (Format, error) {
	return FormatFromExtension(filepath.Ext(filename))
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	ext, ok := formatExts[f]
	if !ok {
		return nil, ErrUnsupportedFormat
	}
	return []byte(ext), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) (err error) {
	*f, err = FormatFromExtension(string(text))
	return
}

type encodeConfig struct {
	quality        int
	pngCompression png.CompressionLevel
	plainPPM       bool
}

var defaultEncodeConfig = encodeConfig{
	quality:        95,
	pngCompression: png.DefaultCompression,
	plainPPM:       true,
}

// EncodeOption sets an optional parameter for the Encode and Save functions.
type EncodeOption func(*encodeConfig)

// Quality returns an EncodeOption that sets the output JPEG quality.
// Quality ranges from 1 to 100 inclusive, higher is better.
func Quality(quality int) EncodeOption {
	return func(c *encodeConfig) {
		c.quality = quality
	}
}

// PNGCompressionLevel returns an EncodeOption that sets the compression level
// of the PNG-encoded image. Default is png.DefaultCompression.
func PNGCompressionLevel(level png.CompressionLevel) EncodeOption {
	return func(c *encodeConfig) {
		c.pngCompression = level
	}
}

// PlainPPM returns an EncodeOption that selects the ASCII (P3) or binary (P6)
// PPM variant. Default is ASCII.
func PlainPPM(plain bool) EncodeOption {
	return func(c *encodeConfig) {
		c.plainPPM = plain
	}
}

// FormatOption is format option
type FormatOption struct {
	Format       Format
	EncodeOption []EncodeOption
}

// Encode writes the image img to w in the specified format.
func (f *FormatOption) Encode(w io.Writer, img image.Image) error {
	cfg := defaultEncodeConfig
	for _, option := range f.EncodeOption {
		option(&cfg)
	}

	if m, ok := img.(*Image); ok {
		img = m.NRGBA()
	}

	if f.Format == PPM {
		return netpbm.Encode(w, img, &netpbm.EncodeOptions{
			Format:   netpbm.PPM,
			MaxValue: 255,
			Plain:    cfg.plainPPM,
		})
	}

	format, ok := imagingFormats[f.Format]
	if !ok {
		return ErrUnsupportedFormat
	}
	return imaging.Encode(
		w,
		img,
		format,
		imaging.JPEGQuality(cfg.quality),
		imaging.PNGCompressionLevel(cfg.pngCompression),
	)
}
