package render

import (
	"errors"
	"io"
	"math"
	"sync"

	march "github.com/nseam/Marching-Cubes"
)

// Strategy selects the per-cell triangulation algorithm. It is chosen
// once before an extraction call and held fixed for its duration.
type Strategy int

const (
	// Cubes triangulates whole cells through the 256 case table.
	Cubes Strategy = iota
	// Tetrahedra decomposes each cell into 6 tetrahedra before
	// triangulating. It produces more, smaller triangles and sidesteps
	// the ambiguous face configurations of the cube table at roughly
	// 6x the candidate regions per cell.
	Tetrahedra
)

// triangulator appends the triangles for one cell's corner samples.
type triangulator func(m *Mesh, threshold float64, c *[8]march.Sample, wind [3]int) int

// cell resolves the strategy to its triangulation function and the
// maximum triangles one cell can emit. The walker branches here once per
// extraction, not per cell.
func (s Strategy) cell() (triangulator, int, error) {
	switch s {
	case Cubes:
		return marchCube, marchingCubesMaxTriangles, nil
	case Tetrahedra:
		return marchTets, marchingTetsMaxTriangles, nil
	}
	return nil, 0, errors.New("render: unknown triangulation strategy")
}

// cellCorners is the fixed corner offset table of a unit cell. The
// triangulation tables of both strategies are defined against exactly
// this order.
var cellCorners = [8]march.V3i{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// winding derives the triangle index order from the sign of the surface
// threshold so the visible face stays consistently oriented outward
// whichever side of the threshold is solid. Non-positive thresholds use
// the identity order, positive thresholds the reversed order.
func winding(threshold float64) [3]int {
	if threshold > 0 {
		return [3]int{2, 1, 0}
	}
	return [3]int{0, 1, 2}
}

func checkExtract(f *march.Field, threshold float64) error {
	if f == nil {
		return errors.New("render: nil field")
	}
	if math.IsNaN(threshold) {
		return errors.New("render: NaN surface threshold")
	}
	return nil
}

// Extract walks every interior cell of the field, gathers the 8 corner
// samples per cell and appends the triangulated surface crossings to the
// mesh. Cells entirely on one side of the threshold are still visited
// and emit nothing; there is no early termination. Iteration runs x
// outer, y middle, z inner so output order is deterministic.
func Extract(f *march.Field, threshold float64, strat Strategy, m *Mesh) error {
	if err := checkExtract(f, threshold); err != nil {
		return err
	}
	tri, _, err := strat.cell()
	if err != nil {
		return err
	}
	w, _, _ := f.Dims()
	extractRange(f, threshold, tri, winding(threshold), 0, w-1, m)
	return nil
}

// ExtractN is Extract with the outer x axis partitioned into contiguous
// slabs marched by up to workers goroutines. Each worker appends to a
// private mesh and the slabs are merged in order afterward, so output is
// identical to the sequential pass.
func ExtractN(f *march.Field, threshold float64, strat Strategy, m *Mesh, workers int) error {
	if err := checkExtract(f, threshold); err != nil {
		return err
	}
	tri, _, err := strat.cell()
	if err != nil {
		return err
	}
	w, _, _ := f.Dims()
	cellsX := w - 1
	if workers > cellsX {
		workers = cellsX
	}
	if workers <= 1 {
		extractRange(f, threshold, tri, winding(threshold), 0, cellsX, m)
		return nil
	}
	wind := winding(threshold)
	parts := make([]Mesh, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		x0 := i * cellsX / workers
		x1 := (i + 1) * cellsX / workers
		wg.Add(1)
		go func(part *Mesh, x0, x1 int) {
			defer wg.Done()
			extractRange(f, threshold, tri, wind, x0, x1, part)
		}(&parts[i], x0, x1)
	}
	wg.Wait()
	for i := range parts {
		m.merge(&parts[i])
	}
	return nil
}

// extractRange marches the cells with origin x in [x0,x1).
func extractRange(f *march.Field, threshold float64, tri triangulator, wind [3]int, x0, x1 int, m *Mesh) {
	_, h, d := f.Dims()
	var corners [8]march.Sample
	for x := x0; x < x1; x++ {
		for y := 0; y < h-1; y++ {
			for z := 0; z < d-1; z++ {
				gatherCorners(f, x, y, z, &corners)
				tri(m, threshold, &corners, wind)
			}
		}
	}
}

func gatherCorners(f *march.Field, x, y, z int, dst *[8]march.Sample) {
	origin := march.V3i{x, y, z}
	for i, off := range cellCorners {
		p := origin.Add(off)
		dst[i] = f.AtClamped(p[0], p[1], p[2])
	}
}

// GridMarcher adapts grid extraction to the streaming Renderer
// interface so an isosurface can feed triangle consumers such as the
// STL writer without materializing the whole mesh.
type GridMarcher struct {
	f         *march.Field
	threshold float64
	tri       triangulator
	wind      [3]int
	// cursor walks interior cells in x outer, y middle, z inner order.
	cursor, cells int
	h, d          int
	scratch       Mesh
	unwritten     triangle3Buffer
}

// NewGridMarcher returns a Renderer that marches the field once,
// emitting the isosurface at threshold with the given strategy.
func NewGridMarcher(f *march.Field, threshold float64, strat Strategy) (*GridMarcher, error) {
	if err := checkExtract(f, threshold); err != nil {
		return nil, err
	}
	tri, maxTri, err := strat.cell()
	if err != nil {
		return nil, err
	}
	w, h, d := f.Dims()
	return &GridMarcher{
		f:         f,
		threshold: threshold,
		tri:       tri,
		wind:      winding(threshold),
		cells:     (w - 1) * (h - 1) * (d - 1),
		h:         h,
		d:         d,
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, maxTri)},
	}, nil
}

// ReadTriangles writes triangles marched from the field into the
// argument buffer. Returns the number of triangles written and io.EOF
// once the whole grid has been walked and drained.
func (g *GridMarcher) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if g.unwritten.Len() > 0 {
		n += g.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if g.cursor == g.cells && g.unwritten.Len() == 0 {
		return n, io.EOF
	}
	var corners [8]march.Sample
	for g.cursor < g.cells && n < len(dst) {
		x, y, z := g.cellOrigin(g.cursor)
		gatherCorners(g.f, x, y, z, &corners)
		g.scratch.reset()
		g.tri(&g.scratch, g.threshold, &corners, g.wind)
		for _, t := range g.scratch.Triangles() {
			if n < len(dst) {
				dst[n] = t
				n++
			} else {
				g.unwritten.Write([]Triangle3{t})
			}
		}
		g.cursor++
	}
	return n, nil
}

func (g *GridMarcher) cellOrigin(cursor int) (x, y, z int) {
	z = cursor % (g.d - 1)
	cursor /= g.d - 1
	y = cursor % (g.h - 1)
	x = cursor / (g.h - 1)
	return x, y, z
}
