package march_test

import (
	"math"
	"testing"

	march "github.com/nseam/Marching-Cubes"
	"gonum.org/v1/gonum/spatial/r3"
)

// linearField returns a field whose density equals the x grid index.
func linearField(t testing.TB, w, h, d int) *march.Field {
	t.Helper()
	f, err := march.NewField(w, h, d)
	if err != nil {
		t.Fatal(err)
	}
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.SetDensity(x, y, z, float64(x))
			}
		}
	}
	return f
}

func TestNewFieldDegenerate(t *testing.T) {
	for _, dims := range [][3]int{
		{1, 2, 2}, {2, 1, 2}, {2, 2, 1}, {0, 0, 0}, {2, 2, 0},
	} {
		_, err := march.NewField(dims[0], dims[1], dims[2])
		if err == nil {
			t.Errorf("expected error for dimensions %v", dims)
		}
	}
	if _, err := march.NewField(2, 2, 2); err != nil {
		t.Fatalf("smallest valid field rejected: %v", err)
	}
}

func TestClampedAccess(t *testing.T) {
	f := linearField(t, 4, 3, 2)
	for _, tc := range []struct {
		x, y, z int
		want    float64
	}{
		{x: -5, y: 0, z: 0, want: 0},
		{x: 100, y: 0, z: 0, want: 3},
		{x: 2, y: -1, z: 100, want: 2},
		{x: 1, y: 1, z: 1, want: 1},
	} {
		got := f.Density(tc.x, tc.y, tc.z)
		if got != tc.want {
			t.Errorf("Density(%d,%d,%d) = %g, want %g", tc.x, tc.y, tc.z, got, tc.want)
		}
	}
}

func TestAtPanicsOutOfRange(t *testing.T) {
	f := linearField(t, 2, 2, 2)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of range index")
		}
	}()
	f.At(2, 0, 0)
}

func TestTrilinearLinearField(t *testing.T) {
	const w = 5
	f := linearField(t, w, 3, 3)
	for _, u := range []float64{0, 0.1, 0.25, 1. / 3., 0.5, 0.75, 0.999, 1} {
		want := u * float64(w-1)
		got := f.DensityNorm(u, 0, 0)
		if got != want {
			t.Errorf("DensityNorm(%g,0,0) = %g, want exactly %g", u, got, want)
		}
	}
}

func TestTrilinearClampsBeyondGrid(t *testing.T) {
	f := linearField(t, 4, 3, 3)
	if got := f.DensityNorm(1.5, 0.5, 0.5); got != 3 {
		t.Errorf("past-boundary density = %g, want boundary value 3", got)
	}
	if got := f.DensityNorm(-0.5, 0.5, 0.5); got != 0 {
		t.Errorf("pre-boundary density = %g, want boundary value 0", got)
	}
}

func TestGradient(t *testing.T) {
	f := linearField(t, 5, 4, 4)
	// Interior: exact central difference of a linear ramp.
	if got := f.Gradient(2, 1, 1); got != (r3.Vec{X: 1}) {
		t.Errorf("interior gradient = %v, want {1 0 0}", got)
	}
	// Boundary: one-sided via clamping halves the slope.
	if got := f.Gradient(0, 1, 1); got != (r3.Vec{X: 0.5}) {
		t.Errorf("boundary gradient = %v, want {0.5 0 0}", got)
	}
	if got := f.Gradient(4, 1, 1); got != (r3.Vec{X: 0.5}) {
		t.Errorf("boundary gradient = %v, want {0.5 0 0}", got)
	}
}

func TestGradientNorm(t *testing.T) {
	const w = 5
	f := linearField(t, w, 4, 4)
	// density(u) = u*(w-1), so the derivative per normalized unit is w-1.
	got := f.GradientNorm(0.5, 0.5, 0.5)
	if math.Abs(got.X-float64(w-1)) > 1e-9 || math.Abs(got.Y) > 1e-9 || math.Abs(got.Z) > 1e-9 {
		t.Errorf("GradientNorm = %v, want {%d 0 0}", got, w-1)
	}
}

func TestNormalZeroGradient(t *testing.T) {
	f, err := march.NewField(3, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Constant density field: gradient and normal are zero everywhere.
	if got := f.Normal(1, 1, 1); got != (r3.Vec{}) {
		t.Errorf("constant field normal = %v, want zero vector", got)
	}
	if got := f.NormalNorm(0.5, 0.5, 0.5); got != (r3.Vec{}) {
		t.Errorf("constant field continuous normal = %v, want zero vector", got)
	}
}

func TestNormalFlip(t *testing.T) {
	f := linearField(t, 5, 4, 4)
	n := f.Normal(2, 1, 1)
	f.SetFlipNormals(true)
	flipped := f.Normal(2, 1, 1)
	if r3.Add(n, flipped) != (r3.Vec{}) {
		t.Errorf("flipped normal %v is not the negation of %v", flipped, n)
	}
}
