package imgfilter

import (
	"fmt"
	"strings"
)

// Operation is a whole-image transform.
type Operation int

// Supported operations.
const (
	Invert Operation = iota
	Grayscale
	Blur
)

var operationNames = map[Operation]string{
	Invert:    "invert",
	Grayscale: "grayscale",
	Blur:      "gaussian",
}

var operationAliases = map[string]Operation{
	"invert":    Invert,
	"grayscale": Grayscale,
	"greyscale": Grayscale,
	"gray":      Grayscale,
	"gaussian":  Blur,
	"blur":      Blur,
}

// ParseOperation parses an operation name such as "invert", "grayscale" or "gaussian".
func ParseOperation(s string) (Operation, error) {
	if op, ok := operationAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Operation(%d)", int(op))
}

// MarshalText implements encoding.TextMarshaler.
func (op Operation) MarshalText() ([]byte, error) {
	if _, ok := operationNames[op]; !ok {
		return nil, ErrUnknownOperation
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (op *Operation) UnmarshalText(text []byte) (err error) {
	*op, err = ParseOperation(string(text))
	return
}

// Apply runs op on the image in place.
// Blur uses k, or DefaultBlurKernel when k is nil.
func (m *Image) Apply(op Operation, k *Kernel) error {
	switch op {
	case Invert:
		m.Invert()
	case Grayscale:
		m.Grayscale()
	case Blur:
		if k == nil {
			k = DefaultBlurKernel
		}
		return m.Blur(k)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return nil
}
