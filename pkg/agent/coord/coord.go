// Package coord maps coordinates reported against the screenshot the model
// saw onto the physical screen.
package coord

import "math"

// DefaultScale converts model-reported pixels to physical pixels on the
// displays the prompt was tuned for.
const DefaultScale = 2.0

// Mapper holds the scale factor and the physical screen bounds.
type Mapper struct {
	Scale  float64
	Width  int
	Height int
}

// Map scales (x, y), rounds half to even and clamps into the screen.
func (m Mapper) Map(x, y float64) (int, int) {
	scale := m.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	px := Clamp(round(x*scale), m.Width)
	py := Clamp(round(y*scale), m.Height)
	return px, py
}

// Map applies DefaultScale for a width x height screen.
func Map(x, y float64, width, height int) (int, int) {
	return Mapper{Scale: DefaultScale, Width: width, Height: height}.Map(x, y)
}

// Clamp restricts v to [0, size-1]. A non-positive size yields 0.
func Clamp(v, size int) int {
	if v < 0 || size <= 0 {
		return 0
	}
	if v > size-1 {
		return size - 1
	}
	return v
}

func round(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.RoundToEven(v)
	// Avoid undefined float-to-int conversion on huge values
	if r >= math.MaxInt32 {
		return math.MaxInt32
	}
	if r <= math.MinInt32 {
		return math.MinInt32
	}
	return int(r)
}
