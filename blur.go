package imgfilter

import "slices"

// Blur convolves the image with k.
//
// Every output pixel is the weighted sum of the source pixels under the kernel,
// divided by the kernel's total weight. Positions under the kernel that fall
// outside the image contribute nothing, and the divisor is not reduced for them,
// so pixels near the border come out darker than interior ones.
// All sums read from a copy of the image taken before the pass starts.
func (m *Image) Blur(k *Kernel) error {
	if !k.valid() {
		return ErrInvalidKernel
	}

	src := slices.Clone(m.Pix)
	dst := make([]Pixel, len(src))
	total := k.TotalWeight()
	parallel(0, m.Height, func(ys <-chan int) {
		for y := range ys {
			for x := range m.Width {
				ci := y*m.Width + x
				dst[ci] = convolve(src, m.Width, ci, k, total)
			}
		}
	})
	m.Pix = dst
	return nil
}

// convolve computes the blurred value of the pixel at flat index ci.
func convolve(src []Pixel, width, ci int, k *Kernel, total uint64) Pixel {
	var r, g, b uint64
	row := ci / width
	half := k.size / 2
	low := half - k.size + 1

	var wi int
	for dRow := low; dRow <= half; dRow++ {
		for dCol := low; dCol <= half; dCol++ {
			// The weight index advances for every offset, in bounds or not.
			w := uint64(k.weights[wi])
			wi++

			selected := ci + dRow*width + dCol
			// Rejects offsets that leave the image or wrap into a neighboring row.
			if selected < 0 || selected >= len(src) || selected/width != row+dRow {
				continue
			}
			p := src[selected]
			r += uint64(p.R) * w
			g += uint64(p.G) * w
			b += uint64(p.B) * w
		}
	}
	return Pixel{uint8(r / total), uint8(g / total), uint8(b / total)}
}
