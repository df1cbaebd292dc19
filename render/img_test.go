package render_test

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	march "github.com/nseam/Marching-Cubes"
	"github.com/nseam/Marching-Cubes/render"
	"github.com/nfnt/resize"
	"gonum.org/v1/plot/cmpimg"
)

// rasterize draws an extracted model offscreen and returns a PNG
// encoded thumbnail of it.
func rasterize(t *testing.T, model []render.Triangle3) []byte {
	t.Helper()
	tris := make([]*fauxgl.Triangle, len(model))
	for i, tri := range model {
		tris[i] = fauxgl.NewTriangleForPoints(
			fauxgl.V(tri.V[0].X, tri.V[0].Y, tri.V[0].Z),
			fauxgl.V(tri.V[1].X, tri.V[1].Y, tri.V[1].Z),
			fauxgl.V(tri.V[2].X, tri.V[2].Y, tri.V[2].Z),
		)
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	mesh.BiUnitCube()

	const size = 400
	eye := fauxgl.V(3, 3, 3)
	center := fauxgl.V(0, 0, 0)
	up := fauxgl.V(0, 0, 1)
	light := fauxgl.V(0.75, 0.25, 1).Normalize()

	ctx := fauxgl.NewContext(size, size)
	ctx.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	matrix := fauxgl.LookAt(eye, center, up).Perspective(30, 1, 1, 10)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor("#468966")
	ctx.Shader = shader
	ctx.DrawMesh(mesh)

	thumb := resize.Resize(size/4, size/4, ctx.Image(), resize.Bilinear)
	var b bytes.Buffer
	if err := png.Encode(&b, thumb); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

// TestRasterizeDeterminism extracts the same surface twice and checks
// the offline rasterizations agree pixel for pixel, exercising the full
// field to image pipeline.
func TestRasterizeDeterminism(t *testing.T) {
	sphere, err := sdf.Sphere3D(8)
	if err != nil {
		t.Fatal(err)
	}
	f, err := march.FromSDF3(sphere, march.V3i{21, 21, 21})
	if err != nil {
		t.Fatal(err)
	}
	var model [2][]render.Triangle3
	for i := range model {
		var m render.Mesh
		if err := render.Extract(f, 0, render.Cubes, &m); err != nil {
			t.Fatal(err)
		}
		model[i] = m.Triangles()
	}
	if len(model[0]) == 0 {
		t.Fatal("no triangles extracted")
	}
	img0 := rasterize(t, model[0])
	img1 := rasterize(t, model[1])
	equal, err := cmpimg.Equal("png", img0, img1)
	if err != nil {
		t.Fatal(err)
	}
	if !equal {
		t.Error("repeated extraction rasterized to different images")
	}
	// Sanity check the thumbnail decodes to the expected size.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img0))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 100 {
		t.Errorf("thumbnail is %dx%d, want 100x100", cfg.Width, cfg.Height)
	}
}
