package render

import (
	"math"

	sdfx "github.com/deadsy/sdfx/sdf"
	"github.com/nseam/Marching-Cubes/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ sdfx.SDF3        = meshSDF{}
	_ kdtree.Interface = meshTriangles{}
	_ kdtree.Bounder   = meshTriangles{}
)

// NewMeshSDF builds an approximate signed distance function over an
// extracted triangle model using a k-d tree over triangle centroids.
// It lets a generated surface be fed back through march.FromSDF3 and
// re-extracted at a different resolution.
func NewMeshSDF(model []Triangle3) sdfx.SDF3 {
	tris := make(meshTriangles, 0, len(model))
	for _, tri := range model {
		// Zero area triangles carry no surface direction and would
		// poison the sign computation in Evaluate.
		if tri.Degenerate(0) {
			continue
		}
		tris = append(tris, meshTriangle(tri))
	}
	tree := kdtree.New(tris, true)
	return meshSDF{tree: *tree}
}

type meshSDF struct {
	tree kdtree.Tree
}

// Evaluate returns the distance from p to the closest model vertex,
// signed by which side of the nearest triangle p falls on.
func (s meshSDF) Evaluate(p sdfx.V3) float64 {
	const eps = 1e-3
	v := r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	triangle := s.nearest(v)
	minDist := math.MaxFloat64
	closest := r3.Vec{}
	for i := 0; i < 3; i++ {
		vDist := r3.Norm(r3.Sub(v, triangle.V[i]))
		if vDist < minDist {
			closest = triangle.V[i]
			minDist = vDist
		}
	}
	if minDist < eps {
		return 0
	}
	pointDir := r3.Sub(v, closest)
	n := Triangle3(triangle).Normal()
	alpha := math.Acos(r3.Cos(n, pointDir))
	return math.Copysign(minDist, math.Pi/2-alpha)
}

func (s meshSDF) BoundingBox() sdfx.Box3 {
	bb := s.tree.Root.Bounding
	if bb == nil {
		panic("got nil bounding box?")
	}
	tMin := bb.Min.(meshTriangle)
	tMax := bb.Max.(meshTriangle)
	min := d3.MinElem(tMin.V[2], d3.MinElem(tMin.V[0], tMin.V[1]))
	max := d3.MaxElem(tMax.V[2], d3.MaxElem(tMax.V[0], tMax.V[1]))
	return sdfx.Box3{
		Min: sdfx.V3{X: min.X, Y: min.Y, Z: min.Z},
		Max: sdfx.V3{X: max.X, Y: max.Y, Z: max.Z},
	}
}

// nearest returns the model triangle closest to point v by centroid.
func (s meshSDF) nearest(v r3.Vec) meshTriangle {
	got, _ := s.tree.Nearest(meshTriangle{
		V: [3]r3.Vec{v, v, v},
	})
	return got.(meshTriangle)
}

type meshTriangles []meshTriangle

type meshTriangle Triangle3

func (k meshTriangles) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k meshTriangles) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k meshTriangles) Pivot(d kdtree.Dim) int {
	p := meshPlane{dim: int(d), triangles: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k meshTriangles) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k meshTriangles) Bounds() *kdtree.Bounding {
	max := d3.Elem(-math.MaxFloat64)
	min := d3.Elem(math.MaxFloat64)
	for _, tri := range k {
		tbounds := tri.Bounds()
		tmin := tbounds.Min.(meshTriangle)
		tmax := tbounds.Max.(meshTriangle)
		min = d3.MinElem(min, tmin.V[0])
		max = d3.MaxElem(max, tmax.V[0])
	}
	return &kdtree.Bounding{
		Min: meshTriangle{V: [3]r3.Vec{min, min, min}},
		Max: meshTriangle{V: [3]r3.Vec{max, max, max}},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a meshTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return centroidComp(a, b.(meshTriangle), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a meshTriangle) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver's
// centroid and the parameter's.
func (a meshTriangle) Distance(b kdtree.Comparable) float64 {
	d := r3.Sub(Triangle3(a).Centroid(), Triangle3(b.(meshTriangle)).Centroid())
	return r3.Norm2(d)
}

func (a meshTriangle) Bounds() *kdtree.Bounding {
	min := d3.MinElem(a.V[2], d3.MinElem(a.V[0], a.V[1]))
	max := d3.MaxElem(a.V[2], d3.MaxElem(a.V[0], a.V[1]))
	return &kdtree.Bounding{
		Min: meshTriangle{V: [3]r3.Vec{min, min, min}},
		Max: meshTriangle{V: [3]r3.Vec{max, max, max}},
	}
}

// c = a.dim - b.dim of the triangle centroids.
func centroidComp(a, b meshTriangle, dim int) (c float64) {
	switch dim {
	case 0:
		c = (a.V[0].X + a.V[1].X + a.V[2].X) - (b.V[0].X + b.V[1].X + b.V[2].X)
	case 1:
		c = (a.V[0].Y + a.V[1].Y + a.V[2].Y) - (b.V[0].Y + b.V[1].Y + b.V[2].Y)
	case 2:
		c = (a.V[0].Z + a.V[1].Z + a.V[2].Z) - (b.V[0].Z + b.V[1].Z + b.V[2].Z)
	}
	return c / 3
}

type meshPlane struct {
	dim       int
	triangles meshTriangles
}

func (p meshPlane) Less(i, j int) bool {
	return centroidComp(p.triangles[i], p.triangles[j], p.dim) < 0
}
func (p meshPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}
func (p meshPlane) Len() int {
	return len(p.triangles)
}
func (p meshPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}
