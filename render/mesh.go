package render

import (
	march "github.com/nseam/Marching-Cubes"
	"github.com/nseam/Marching-Cubes/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is one emitted surface point: the interpolated position along a
// crossed cell edge plus the payload interpolated from the edge's two
// corner samples.
type Vertex struct {
	Position r3.Vec
	Color    r3.Vec
}

// Mesh is the extraction output: append-only vertex and index buffers.
// Three consecutive indices form one triangle. Coincident vertices of
// adjacent cells are not deduplicated.
type Mesh struct {
	Vertices []Vertex
	Indices  []int
}

// TriangleCount returns the number of complete triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// appendTriangle appends three fresh vertices and one index triple, with
// the triple written in the order dictated by wind.
func (m *Mesh) appendTriangle(v0, v1, v2 Vertex, wind [3]int) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, v0, v1, v2)
	idx := [3]int{base, base + 1, base + 2}
	m.Indices = append(m.Indices, idx[wind[0]], idx[wind[1]], idx[wind[2]])
}

// merge appends the contents of other, rebasing its indices so they keep
// referencing the same vertices.
func (m *Mesh) merge(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, i := range other.Indices {
		m.Indices = append(m.Indices, base+i)
	}
}

func (m *Mesh) reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// Triangles flattens the indexed mesh into a triangle slice for
// consumers of the streaming Renderer world, such as the STL writer.
func (m *Mesh) Triangles() []Triangle3 {
	tris := make([]Triangle3, 0, m.TriangleCount())
	return m.appendTriangles(tris)
}

func (m *Mesh) appendTriangles(dst []Triangle3) []Triangle3 {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		dst = append(dst, Triangle3{V: [3]r3.Vec{
			m.Vertices[m.Indices[i]].Position,
			m.Vertices[m.Indices[i+1]].Position,
			m.Vertices[m.Indices[i+2]].Position,
		}})
	}
	return dst
}

// Normals returns one smooth normal per vertex, queried from the field's
// continuous gradient at each vertex's normalized position. Vertices at
// zero-gradient points receive the zero vector.
func (m *Mesh) Normals(f *march.Field) []r3.Vec {
	bb := f.Bounds()
	size := r3.Sub(bb.Max, bb.Min)
	normals := make([]r3.Vec, len(m.Vertices))
	for i, v := range m.Vertices {
		uvw := d3.DivElem(r3.Sub(v.Position, bb.Min), size)
		normals[i] = f.NormalNorm(uvw.X, uvw.Y, uvw.Z)
	}
	return normals
}
