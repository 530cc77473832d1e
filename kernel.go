package imgfilter

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// maxGaussianWeight is the weight given to the center cell of kernels built by NewGaussianKernel.
const maxGaussianWeight = 30

// DefaultBlurKernel is the 5x5 pyramid kernel used by Blur when no kernel is given.
var DefaultBlurKernel = MustKernel(5, []uint8{
	5, 5, 10, 5, 5,
	5, 10, 15, 10, 5,
	10, 15, 30, 15, 10,
	5, 10, 15, 10, 5,
	5, 5, 10, 5, 5,
})

// Kernel is a square weight matrix with an odd side length.
// Weights are stored row-major and are never modified after construction.
type Kernel struct {
	size    int
	weights []uint8
}

// NewKernel returns a size x size kernel.
// It fails if size is not a positive odd number, if len(weights) is not size*size,
// or if all weights are zero.
func NewKernel(size int, weights []uint8) (*Kernel, error) {
	if size <= 0 || size%2 == 0 {
		return nil, &KernelError{fmt.Sprintf("size %d is not a positive odd number", size)}
	}
	if len(weights) != size*size {
		return nil, &KernelError{fmt.Sprintf("%d weights for size %d, want %d", len(weights), size, size*size)}
	}
	k := &Kernel{size: size, weights: slices.Clone(weights)}
	if k.TotalWeight() == 0 {
		return nil, &KernelError{"total weight is zero"}
	}
	return k, nil
}

// MustKernel is like NewKernel but panics if the kernel is invalid.
func MustKernel(size int, weights []uint8) *Kernel {
	k, err := NewKernel(size, weights)
	if err != nil {
		panic(err)
	}
	return k
}

// NewGaussianKernel samples a 2D gaussian with standard deviation sigma over a
// (2*radius+1) x (2*radius+1) grid. Weights are scaled so the center cell is 30.
func NewGaussianKernel(radius int, sigma float64) (*Kernel, error) {
	if radius < 0 {
		return nil, &KernelError{fmt.Sprintf("negative radius %d", radius)}
	}
	if sigma <= 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, &KernelError{fmt.Sprintf("sigma %v is not positive", sigma)}
	}
	size := 2*radius + 1
	weights := make([]uint8, size*size)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d2 := float64(x*x + y*y)
			weights[(y+radius)*size+x+radius] = uint8(math.Round(maxGaussianWeight * math.Exp(-d2/(2*sigma*sigma))))
		}
	}
	return NewKernel(size, weights)
}

// Size returns the side length of the kernel.
func (k *Kernel) Size() int { return k.size }

// Weights returns a copy of the row-major weights.
func (k *Kernel) Weights() []uint8 { return slices.Clone(k.weights) }

// TotalWeight returns the sum of all weights.
func (k *Kernel) TotalWeight() uint64 {
	var total uint64
	for _, w := range k.weights {
		total += uint64(w)
	}
	return total
}

func (k *Kernel) valid() bool {
	return k != nil && k.size > 0 && k.size%2 == 1 && len(k.weights) == k.size*k.size && k.TotalWeight() > 0
}

// MarshalText implements encoding.TextMarshaler.
// The text form is the comma separated row-major weights.
func (k *Kernel) MarshalText() ([]byte, error) {
	s := make([]string, len(k.weights))
	for i, w := range k.weights {
		s[i] = strconv.Itoa(int(w))
	}
	return []byte(strings.Join(s, ",")), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// The kernel size is inferred from the number of weights, which must be an odd square.
func (k *Kernel) UnmarshalText(text []byte) error {
	fields := strings.Split(string(text), ",")
	weights := make([]uint8, len(fields))
	for i, f := range fields {
		w, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return &KernelError{fmt.Sprintf("bad weight %q", f)}
		}
		weights[i] = uint8(w)
	}
	size := int(math.Sqrt(float64(len(weights))))
	if size*size != len(weights) {
		return &KernelError{fmt.Sprintf("%d weights do not form a square", len(weights))}
	}
	nk, err := NewKernel(size, weights)
	if err != nil {
		return err
	}
	*k = *nk
	return nil
}

func (k *Kernel) String() string {
	b, _ := k.MarshalText()
	return string(b)
}
