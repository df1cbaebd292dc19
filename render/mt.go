package render

import (
	march "github.com/nseam/Marching-Cubes"
)

// Marching tetrahedra cell triangulation. Each cube cell decomposes into
// 6 tetrahedra that all share the 0-6 main diagonal, so the partition
// covers the cube without overlap. Corner indices below refer to the
// same fixed cube corner order the cubes variant uses.

// marchingTetsMaxTriangles is the maximum number of triangles a single
// cell can produce under tetrahedral decomposition: 6 tetrahedra times
// at most 2 triangles each.
const marchingTetsMaxTriangles = 12

var mtTetrahedra = [6][4]int{
	{0, 5, 1, 6},
	{0, 1, 2, 6},
	{0, 2, 3, 6},
	{0, 3, 7, 6},
	{0, 7, 4, 6},
	{0, 4, 5, 6},
}

// marchTets triangulates one cell by decomposing it and marching each
// tetrahedron. Returns the number of triangles appended to the mesh.
func marchTets(m *Mesh, threshold float64, c *[8]march.Sample, wind [3]int) int {
	n := 0
	for i := range mtTetrahedra {
		t := &mtTetrahedra[i]
		n += marchTet(m, threshold, c[t[0]], c[t[1]], c[t[2]], c[t[3]], wind)
	}
	return n
}

// marchTet classifies the 4 tetrahedron corners against threshold (bit i
// set when corner i's density is below threshold) and emits 0, 1 or 2
// triangles for the crossing. Configurations above 7 are handled as the
// complement of their mirror with the triangle orientation reversed.
func marchTet(m *Mesh, threshold float64, s0, s1, s2, s3 march.Sample, wind [3]int) int {
	cfg := 0
	if s0.Density < threshold {
		cfg |= 1
	}
	if s1.Density < threshold {
		cfg |= 2
	}
	if s2.Density < threshold {
		cfg |= 4
	}
	if s3.Density < threshold {
		cfg |= 8
	}
	flip := false
	if cfg > 7 {
		cfg = 0xF ^ cfg
		flip = true
	}
	var a, b, c, d Vertex
	switch cfg {
	case 0:
		return 0
	case 1:
		a = interpVertex(threshold, s0, s1)
		b = interpVertex(threshold, s0, s2)
		c = interpVertex(threshold, s0, s3)
	case 2:
		a = interpVertex(threshold, s1, s0)
		b = interpVertex(threshold, s1, s3)
		c = interpVertex(threshold, s1, s2)
	case 3:
		a = interpVertex(threshold, s0, s3)
		b = interpVertex(threshold, s0, s2)
		c = interpVertex(threshold, s1, s3)
		d = interpVertex(threshold, s1, s2)
		appendTetTriangle(m, a, b, c, flip, wind)
		appendTetTriangle(m, c, b, d, flip, wind)
		return 2
	case 4:
		a = interpVertex(threshold, s2, s0)
		b = interpVertex(threshold, s2, s1)
		c = interpVertex(threshold, s2, s3)
	case 5:
		a = interpVertex(threshold, s0, s1)
		b = interpVertex(threshold, s2, s3)
		c = interpVertex(threshold, s0, s3)
		d = interpVertex(threshold, s1, s2)
		appendTetTriangle(m, a, b, c, flip, wind)
		appendTetTriangle(m, a, d, b, flip, wind)
		return 2
	case 6:
		a = interpVertex(threshold, s0, s1)
		b = interpVertex(threshold, s1, s3)
		c = interpVertex(threshold, s2, s3)
		d = interpVertex(threshold, s0, s2)
		appendTetTriangle(m, a, b, c, flip, wind)
		appendTetTriangle(m, a, c, d, flip, wind)
		return 2
	case 7:
		a = interpVertex(threshold, s3, s0)
		b = interpVertex(threshold, s3, s2)
		c = interpVertex(threshold, s3, s1)
	}
	appendTetTriangle(m, a, b, c, flip, wind)
	return 1
}

func appendTetTriangle(m *Mesh, a, b, c Vertex, flip bool, wind [3]int) {
	if flip {
		b, c = c, b
	}
	m.appendTriangle(a, b, c, wind)
}
