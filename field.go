package march

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Scalar density field sampled on a regular 3D grid.

// Sample is the payload stored at one grid point. Density is the only
// value the marching algorithms read; Position and Color are carried
// through to emitted vertices untouched.
type Sample struct {
	Position r3.Vec
	Density  float64
	Color    r3.Vec
}

// Field owns a flat array of samples of size width*height*depth with
// linearization x + y*width + z*width*height. A Field is populated once
// and treated as read-only while a surface is extracted from it.
type Field struct {
	w, h, d int
	samples []Sample
	bb      r3.Box
	// flipNormals negates the result of Normal and NormalNorm.
	flipNormals bool
}

// gradStep is the normalized-coordinate step used by GradientNorm.
const gradStep = 0.005

// NewField returns a field of the given dimensions with sample positions
// initialized to their grid coordinates and densities zeroed. Every
// dimension must be 2 or larger so at least one cell exists.
func NewField(width, height, depth int) (*Field, error) {
	if width < 2 || height < 2 || depth < 2 {
		return nil, errors.New("march: field dimensions must be 2 or larger")
	}
	f := &Field{
		w:       width,
		h:       height,
		d:       depth,
		samples: make([]Sample, width*height*depth),
		bb: r3.Box{
			Max: r3.Vec{X: float64(width - 1), Y: float64(height - 1), Z: float64(depth - 1)},
		},
	}
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				f.samples[f.index(x, y, z)].Position = r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}
			}
		}
	}
	return f, nil
}

// Dims returns the field dimensions.
func (f *Field) Dims() (width, height, depth int) { return f.w, f.h, f.d }

// Bounds returns the world-space box spanned by the sample positions.
func (f *Field) Bounds() r3.Box { return f.bb }

// SetBounds overrides the world-space box reported by Bounds. Callers
// populating sample positions from an external lattice should keep the
// two consistent.
func (f *Field) SetBounds(bb r3.Box) { f.bb = bb }

// SetFlipNormals inverts the direction of all subsequently computed normals.
func (f *Field) SetFlipNormals(flip bool) { f.flipNormals = flip }

func (f *Field) index(x, y, z int) int {
	return x + y*f.w + z*f.w*f.h
}

// At returns the sample at exact integer indices. Indices outside
// [0,dim) panic with the underlying slice bounds error.
func (f *Field) At(x, y, z int) Sample {
	f.mustContain(x, y, z)
	return f.samples[f.index(x, y, z)]
}

// SetSample stores a sample at exact integer indices.
func (f *Field) SetSample(x, y, z int, s Sample) {
	f.mustContain(x, y, z)
	f.samples[f.index(x, y, z)] = s
}

// SetDensity stores only the density at exact integer indices.
func (f *Field) SetDensity(x, y, z int, density float64) {
	f.mustContain(x, y, z)
	f.samples[f.index(x, y, z)].Density = density
}

func (f *Field) mustContain(x, y, z int) {
	if x < 0 || x >= f.w || y < 0 || y >= f.h || z < 0 || z >= f.d {
		panic("march: sample index out of range")
	}
}

// AtClamped returns the sample at the given indices with each axis
// saturated independently to [0,dim-1]. It never fails, so sampling
// near or past the field boundary degrades to the boundary value.
func (f *Field) AtClamped(x, y, z int) Sample {
	x = clampi(x, 0, f.w-1)
	y = clampi(y, 0, f.h-1)
	z = clampi(z, 0, f.d-1)
	return f.samples[f.index(x, y, z)]
}

// Density returns the clamped density at integer grid indices.
func (f *Field) Density(x, y, z int) float64 {
	return f.AtClamped(x, y, z).Density
}

// DensityNorm returns the trilinearly interpolated density at normalized
// coordinates, each conceptually in [0,1] and scaled by (dim-1) onto the
// grid. Coordinates beyond the grid clamp to the boundary samples.
func (f *Field) DensityNorm(u, v, w float64) float64 {
	gx := u * float64(f.w-1)
	gy := v * float64(f.h-1)
	gz := w * float64(f.d-1)
	x := int(math.Floor(gx))
	y := int(math.Floor(gy))
	z := int(math.Floor(gz))
	// Clamp fractions to absorb floating point edge effects at exact
	// integer coordinates and past-boundary queries.
	fx := Clamp(gx-float64(x), 0, 1)
	fy := Clamp(gy-float64(y), 0, 1)
	fz := Clamp(gz-float64(z), 0, 1)

	c000 := f.Density(x, y, z)
	c100 := f.Density(x+1, y, z)
	c010 := f.Density(x, y+1, z)
	c110 := f.Density(x+1, y+1, z)
	c001 := f.Density(x, y, z+1)
	c101 := f.Density(x+1, y, z+1)
	c011 := f.Density(x, y+1, z+1)
	c111 := f.Density(x+1, y+1, z+1)

	bottom := Mix(Mix(c000, c100, fx), Mix(c010, c110, fx), fy)
	top := Mix(Mix(c001, c101, fx), Mix(c011, c111, fx), fy)
	return Mix(bottom, top, fz)
}

// Gradient returns the central finite difference of the density at
// integer grid indices, 0.5*(d(axis+1)-d(axis-1)) per axis with clamped
// lookups. It is the zero vector where the field is locally constant.
func (f *Field) Gradient(x, y, z int) r3.Vec {
	return r3.Vec{
		X: 0.5 * (f.Density(x+1, y, z) - f.Density(x-1, y, z)),
		Y: 0.5 * (f.Density(x, y+1, z) - f.Density(x, y-1, z)),
		Z: 0.5 * (f.Density(x, y, z+1) - f.Density(x, y, z-1)),
	}
}

// GradientNorm returns the symmetric difference of the density at
// normalized coordinates using a fixed sub-voxel step.
func (f *Field) GradientNorm(u, v, w float64) r3.Vec {
	const h = gradStep
	return r3.Vec{
		X: (f.DensityNorm(u+h/2, v, w) - f.DensityNorm(u-h/2, v, w)) / h,
		Y: (f.DensityNorm(u, v+h/2, w) - f.DensityNorm(u, v-h/2, w)) / h,
		Z: (f.DensityNorm(u, v, w+h/2) - f.DensityNorm(u, v, w-h/2)) / h,
	}
}

// Normal returns the unit gradient at integer grid indices, negated if
// the flip flag is set. A zero gradient yields the zero vector; callers
// must tolerate a zero-length normal.
func (f *Field) Normal(x, y, z int) r3.Vec {
	return f.unit(f.Gradient(x, y, z))
}

// NormalNorm is Normal at normalized coordinates.
func (f *Field) NormalNorm(u, v, w float64) r3.Vec {
	return f.unit(f.GradientNorm(u, v, w))
}

func (f *Field) unit(g r3.Vec) r3.Vec {
	n := r3.Norm(g)
	if n == 0 {
		return r3.Vec{}
	}
	g = r3.Scale(1/n, g)
	if f.flipNormals {
		g = r3.Scale(-1, g)
	}
	return g
}

func clampi(x, a, b int) int {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
