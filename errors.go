package imgfilter

import "errors"

var (
	// ErrInvalidKernel is returned when a blur is requested with a nil or zero Kernel.
	ErrInvalidKernel = errors.New("imgfilter: invalid kernel")
	// ErrUnknownOperation is returned for operation names that cannot be parsed.
	ErrUnknownOperation = errors.New("imgfilter: unknown operation")
	// ErrUnsupportedFormat means the given image format is not supported.
	ErrUnsupportedFormat = errors.New("imgfilter: unsupported image format")
)

// ConstructionError reports channel data that cannot form an Image.
type ConstructionError struct {
	Reason string
}

func (e *ConstructionError) Error() string {
	return "imgfilter: invalid image: " + e.Reason
}

// KernelError reports weights that cannot form a Kernel.
type KernelError struct {
	Reason string
}

func (e *KernelError) Error() string {
	return "imgfilter: invalid kernel: " + e.Reason
}
