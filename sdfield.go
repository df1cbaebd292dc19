package march

import (
	"errors"

	sdfx "github.com/deadsy/sdfx/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromSDF3 samples a signed distance function over its bounding box into
// a new field with the given number of samples per axis. Densities hold
// the signed distance, so the surface of the solid is the isosurface at
// threshold zero with negative densities inside.
func FromSDF3(s sdfx.SDF3, cells V3i) (*Field, error) {
	if s == nil {
		return nil, errors.New("march: nil SDF3 argument")
	}
	f, err := NewField(cells[0], cells[1], cells[2])
	if err != nil {
		return nil, err
	}
	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	step := sdfx.V3{
		X: size.X / float64(cells[0]-1),
		Y: size.Y / float64(cells[1]-1),
		Z: size.Z / float64(cells[2]-1),
	}
	for z := 0; z < cells[2]; z++ {
		for y := 0; y < cells[1]; y++ {
			for x := 0; x < cells[0]; x++ {
				p := sdfx.V3{
					X: bb.Min.X + float64(x)*step.X,
					Y: bb.Min.Y + float64(y)*step.Y,
					Z: bb.Min.Z + float64(z)*step.Z,
				}
				f.SetSample(x, y, z, Sample{
					Position: r3.Vec{X: p.X, Y: p.Y, Z: p.Z},
					Density:  s.Evaluate(p),
				})
			}
		}
	}
	f.SetBounds(r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	})
	return f, nil
}
