package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	march "github.com/nseam/Marching-Cubes"
	"github.com/nseam/Marching-Cubes/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-4
	f := sphereField(t, 25)
	var m Mesh
	if err := Extract(f, 0, Cubes, &m); err != nil {
		t.Fatal(err)
	}
	input := m.Triangles()
	if len(input) == 0 {
		t.Fatal("no triangles to write")
	}
	var b bytes.Buffer
	if err := WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	output, err := readBinarySTL(&b)
	if err != nil && !toleratedReadError(err) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

// A sample density exactly on the threshold pins every crossing of its
// edges to the sample itself, collapsing triangles to zero area. Those
// must survive the STL round trip with a zero normal, not NaN.
func TestSTLThresholdOnSample(t *testing.T) {
	f, err := march.NewField(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				f.SetDensity(x, y, z, -1)
			}
		}
	}
	f.SetDensity(0, 0, 0, 0)
	var m Mesh
	if err := Extract(f, 0, Cubes, &m); err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 1 {
		t.Fatalf("got %d triangles, want 1", m.TriangleCount())
	}
	input := m.Triangles()
	if n := input[0].Normal(); n != (r3.Vec{}) {
		t.Errorf("zero area triangle normal is %v, want zero vector", n)
	}
	var b bytes.Buffer
	if err := WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	output, err := readBinarySTL(&b)
	if err != nil && !errors.Is(err, errDegenerateTriangle) {
		t.Fatal(err)
	}
	if len(output) != 1 {
		t.Fatalf("read back %d triangles, want 1", len(output))
	}
	for i, v := range output[0].V {
		if !d3.EqualWithin(v, r3.Vec{}, 1e-12) {
			t.Errorf("vertex %d read back as %v, want the on-threshold sample position", i, v)
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestCreateSTL(t *testing.T) {
	f := sphereField(t, 17)
	marcher, err := NewGridMarcher(f, 0, Cubes)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "sphere.stl")
	if err := CreateSTL(path, marcher); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	model, err := readBinarySTL(fp)
	if err != nil && !toleratedReadError(err) {
		t.Fatal(err)
	}
	var m Mesh
	if err := Extract(f, 0, Cubes, &m); err != nil {
		t.Fatal(err)
	}
	if len(model) != m.TriangleCount() {
		t.Errorf("STL file holds %d triangles, extraction produced %d", len(model), m.TriangleCount())
	}
}
