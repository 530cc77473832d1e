package imgfilter

import (
	"bytes"
	"errors"
	"flag"
	"image/png"
	"io"
	"strings"
	"testing"
)

func TestFormatFromExtension(t *testing.T) {
	testCase := []struct {
		ext    string
		format Format
	}{
		{"ppm", PPM},
		{".PNM", PPM},
		{"Jpg", JPEG},
		{"jpeg", JPEG},
		{"png", PNG},
		{"gif", GIF},
		{"TIFF", TIFF},
		{"bmp", BMP},
	}
	for _, tc := range testCase {
		f, err := FormatFromExtension(tc.ext)
		if err != nil {
			t.Errorf("%s format want no error: %v", tc.ext, err)
		} else if f != tc.format {
			t.Errorf("%s: want %s, got %s", tc.ext, tc.format, f)
		}
	}
	if _, err := FormatFromExtension("txt"); err == nil {
		t.Fatal("txt format want error")
	}
	if f, err := FormatFromFilename("uploads/lena.ppm"); err != nil || f != PPM {
		t.Fatalf("want PPM, got %s, %v", f, err)
	}
}

func TestFormatTextVar(t *testing.T) {
	testCase := []struct {
		argument string
		format   Format
	}{
		{"Jpg", JPEG},
		{"ppm", PPM},
		{"txt", Format(-1)},
	}
	for _, tc := range testCase {
		f := flag.NewFlagSet("test", flag.ContinueOnError)
		f.SetOutput(io.Discard)
		var format Format
		f.TextVar(&format, "f", Format(-1), "")
		f.Parse(append([]string{"-f"}, tc.argument))
		if format != tc.format {
			t.Errorf("expected %s format; got %s", tc.format, format)
		}
	}
}

func TestEncode(t *testing.T) {
	m0 := randomImage(7, 5, 5)

	for _, tc := range []struct {
		option   FormatOption
		lossless bool
	}{
		{FormatOption{Format: PPM}, true},
		{FormatOption{Format: PPM, EncodeOption: []EncodeOption{PlainPPM(false)}}, true},
		{FormatOption{Format: PNG, EncodeOption: []EncodeOption{PNGCompressionLevel(png.BestSpeed)}}, true},
		{FormatOption{Format: BMP}, true},
		{FormatOption{Format: TIFF}, true},
		{FormatOption{Format: JPEG, EncodeOption: []EncodeOption{Quality(75)}}, false},
		{FormatOption{Format: GIF}, false},
	} {
		var buf bytes.Buffer
		if err := tc.option.Encode(&buf, m0); err != nil {
			t.Fatal(tc.option.Format, err)
		}

		m1, err := Decode(&buf)
		if err != nil {
			t.Fatal(tc.option.Format, err)
		}
		if m0.Bounds() != m1.Bounds() {
			t.Fatalf("%s: bounds differ: %v and %v", tc.option.Format, m0.Bounds(), m1.Bounds())
		}
		if tc.lossless && !m0.Equal(m1) {
			t.Errorf("%s: decoded pixels differ", tc.option.Format)
		}
	}

	if err := (&FormatOption{Format: -1}).Encode(io.Discard, m0); err == nil {
		t.Fatal("encode unsupported format expect an error")
	}
}

func TestPlainPPM(t *testing.T) {
	img := &Image{Width: 2, Height: 1, Pix: []Pixel{{1, 2, 3}, {255, 0, 128}}}

	var plain, raw bytes.Buffer
	if err := Write(&plain, img, &FormatOption{}); err != nil {
		t.Fatal(err)
	}
	if err := Write(&raw, img, &FormatOption{EncodeOption: []EncodeOption{PlainPPM(false)}}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(plain.String(), "P3") {
		t.Fatalf("want plain ppm, got %q", plain.String())
	}
	if !strings.HasPrefix(raw.String(), "P6") {
		t.Fatal("want raw ppm")
	}

	cfg, name, err := DecodeConfig(bytes.NewReader(plain.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if name == "" || cfg.Width != 2 || cfg.Height != 1 {
		t.Fatalf("wrong config %s %dx%d", name, cfg.Width, cfg.Height)
	}
	if _, err := Decode(strings.NewReader("Hello")); err == nil {
		t.Fatal("decode string want error")
	}
	var ce *ConstructionError
	if _, err := Decode(strings.NewReader("P3\n0 3\n255\n")); !errors.As(err, &ce) {
		t.Fatalf("decode empty ppm: want ConstructionError, got %v", err)
	}
}
