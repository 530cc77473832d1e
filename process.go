package imgfilter

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Default directories used by NewProcessor.
const (
	DefaultInputDir  = "uploads"
	DefaultOutputDir = "output"
)

// Processor applies operations to named images, reading from InputDir and
// writing the result under the same name to OutputDir.
type Processor struct {
	InputDir  string
	OutputDir string
	Options
}

// NewProcessor returns a processor using DefaultBlurKernel.
// Empty directories fall back to DefaultInputDir and DefaultOutputDir.
func NewProcessor(inputDir, outputDir string) *Processor {
	if inputDir == "" {
		inputDir = DefaultInputDir
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &Processor{InputDir: inputDir, OutputDir: outputDir, Options: NewOptions(Invert)}
}

// Paths returns the input and output paths for name.
func (p *Processor) Paths(name string) (input, output string) {
	return filepath.Join(p.InputDir, name), filepath.Join(p.OutputDir, name)
}

// Process reads name from the input directory, applies op and saves the result
// to the output directory. The output format follows the name's extension and
// falls back to the configured Format.
func (p *Processor) Process(name string, op Operation) error {
	input, output := p.Paths(name)

	img, err := Open(input)
	if err != nil {
		return errors.Wrapf(err, "open %s", input)
	}
	if err := img.Apply(op, p.Kernel); err != nil {
		return errors.Wrapf(err, "%s %s", op, input)
	}

	format := p.Format
	if f, err := FormatFromFilename(name); err == nil {
		format.Format = f
	}
	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}
	if err := Save(output, img, &format); err != nil {
		return errors.Wrapf(err, "save %s", output)
	}
	return nil
}

// InvertFile inverts the named image.
func (p *Processor) InvertFile(name string) error { return p.Process(name, Invert) }

// GrayscaleFile converts the named image to grayscale.
func (p *Processor) GrayscaleFile(name string) error { return p.Process(name, Grayscale) }

// BlurFile blurs the named image with the processor's kernel.
func (p *Processor) BlurFile(name string) error { return p.Process(name, Blur) }
