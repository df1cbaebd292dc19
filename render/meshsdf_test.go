package render

import (
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	march "github.com/nseam/Marching-Cubes"
)

func TestMeshSDFRoundTrip(t *testing.T) {
	const radius = 10.0
	f := sphereField(t, 25)
	var m Mesh
	if err := Extract(f, 0, Cubes, &m); err != nil {
		t.Fatal(err)
	}
	model := m.Triangles()
	if len(model) == 0 {
		t.Fatal("no triangles extracted")
	}
	s := NewMeshSDF(model)

	// Distance magnitude from the center approximates the radius.
	if d := math.Abs(s.Evaluate(sdf.V3{})); math.Abs(d-radius) > 0.15*radius {
		t.Errorf("distance from center = %g, want about %g", d, radius)
	}
	// The mesh bounding box approximates the sphere bounding box.
	bb := s.BoundingBox()
	for _, got := range []float64{-bb.Min.X, -bb.Min.Y, -bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z} {
		if math.Abs(got-radius) > 1.5 {
			t.Errorf("bounding box extent %g, want about %g", got, radius)
		}
	}

	// Re-voxelize the extracted surface and extract again.
	f2, err := march.FromSDF3(s, march.V3i{12, 12, 12})
	if err != nil {
		t.Fatal(err)
	}
	var m2 Mesh
	if err := Extract(f2, 0, Cubes, &m2); err != nil {
		t.Fatal(err)
	}
	if m2.TriangleCount() == 0 {
		t.Error("re-voxelized surface extraction emitted no triangles")
	}
}
