package imgfilter

import (
	"io"
	"path/filepath"
)

// Options represents options that can be used to configure an image operation.
type Options struct {
	Operation Operation
	Kernel    *Kernel
	Format    FormatOption
}

// NewOptions creates a new option with default setting.
func NewOptions(op Operation) Options {
	return Options{Operation: op, Kernel: DefaultBlurKernel}
}

// SetKernel sets the kernel used by the Blur operation.
func (opts *Options) SetKernel(k *Kernel) *Options {
	opts.Kernel = k
	return opts
}

// SetFormat sets the value for the Format field.
func (opts *Options) SetFormat(f string, options ...EncodeOption) (err error) {
	var format Format
	if format, err = FormatFromExtension(f); err != nil {
		return
	}
	opts.Format = FormatOption{Format: format, EncodeOption: options}
	return
}

// Convert applies the operation to a copy of base and writes the result to w.
func (opts *Options) Convert(w io.Writer, base *Image) error {
	img := base.Clone()
	if err := img.Apply(opts.Operation, opts.Kernel); err != nil {
		return err
	}
	return opts.Format.Encode(w, img)
}

// ConvertExt convert filename's ext according image format.
func (opts *Options) ConvertExt(filename string) string {
	return filename[0:len(filename)-len(filepath.Ext(filename))] + "." + formatExts[opts.Format.Format]
}
