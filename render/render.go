package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer is a streaming source of triangles.
type Renderer interface {
	// ReadTriangles writes triangles into the argument buffer and
	// returns the number written. io.EOF signals the end of the model.
	ReadTriangles(t []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle defined by its three vertices.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the triangle surface normal using the right hand rule
// on the vertex ordering. A zero area triangle has no surface direction
// and yields the zero vector; callers must tolerate a zero length normal.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Centroid returns the triangle's center of mass.
func (t Triangle3) Centroid() r3.Vec {
	v := r3.Add(t.V[0], r3.Add(t.V[1], t.V[2]))
	return r3.Scale(1./3., v)
}

// Degenerate returns true if any two vertices coincide within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return equalWithin(t.V[0], t.V[1], tol) ||
		equalWithin(t.V[1], t.V[2], tol) ||
		equalWithin(t.V[2], t.V[0], tol)
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return d.X >= -tol && d.X <= tol &&
		d.Y >= -tol && d.Y <= tol &&
		d.Z >= -tol && d.Z <= tol
}
