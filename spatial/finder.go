// Package spatial provides the uniform-grid index used to find level objects
// overlapping a rectangle without scanning every object.
package spatial

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/scroller/geom"
)

// Default world geometry: a 20000 unit square split into 1000 unit cells.
const (
	DefaultWorldSize = 20000
	DefaultCellSize  = 1000
)

// ErrInvalidGeometry is returned when the world cannot be split evenly into cells.
var ErrInvalidGeometry = errors.New("spatial: invalid grid geometry")

// Finder buckets rectangles keyed by a caller-owned identity into a fixed
// grid of square cells. It stores identities only; resolving an identity to
// a live object is the caller's job, and callers must Remove an identity
// before the object behind it is destroyed.
//
// Finder is not safe for concurrent use.
type Finder[K comparable] struct {
	worldSize int
	cellSize  int
	dim       int

	// Row-major, dim*dim. A nil map is an empty cell.
	cells []map[K]struct{}

	// Last registered rectangle per identity. Buckets always mirror these,
	// never the object's live geometry.
	rects map[K]geom.Rect
}

// NewFinder creates an empty index covering [0, worldSize) on both axes.
func NewFinder[K comparable](worldSize, cellSize int) (*Finder[K], error) {
	if cellSize <= 0 || worldSize <= 0 {
		return nil, fmt.Errorf("%w: world %d, cell %d", ErrInvalidGeometry, worldSize, cellSize)
	}
	if worldSize%cellSize != 0 {
		return nil, fmt.Errorf("%w: world %d not divisible by cell %d", ErrInvalidGeometry, worldSize, cellSize)
	}

	dim := worldSize / cellSize
	return &Finder[K]{
		worldSize: worldSize,
		cellSize:  cellSize,
		dim:       dim,
		cells:     make([]map[K]struct{}, dim*dim),
		rects:     make(map[K]geom.Rect),
	}, nil
}

// MustNewFinder is like NewFinder but panics on invalid geometry.
func MustNewFinder[K comparable](worldSize, cellSize int) *Finder[K] {
	f, err := NewFinder[K](worldSize, cellSize)
	if err != nil {
		panic(err)
	}
	return f
}

// NewDefaultFinder creates a 20x20 index over the default world.
func NewDefaultFinder[K comparable]() *Finder[K] {
	return MustNewFinder[K](DefaultWorldSize, DefaultCellSize)
}

// Span is an inclusive range of cell coordinates.
type Span struct {
	MinX, MinY, MaxX, MaxY int
}

// Cells returns the number of cells covered by s.
func (s Span) Cells() int {
	return (s.MaxX - s.MinX + 1) * (s.MaxY - s.MinY + 1)
}

// cellCoord maps one coordinate to its clamped cell index.
func (f *Finder[K]) cellCoord(v int) int {
	c := v / f.cellSize
	if c < 0 {
		return 0
	}
	if c >= f.dim {
		return f.dim - 1
	}
	return c
}

// CellSpan returns the cells covered by r. Out-of-world corners are clamped
// to the nearest edge cell.
func (f *Finder[K]) CellSpan(r geom.Rect) Span {
	return Span{
		MinX: f.cellCoord(r.Left),
		MinY: f.cellCoord(r.Top),
		MaxX: f.cellCoord(r.Right),
		MaxY: f.cellCoord(r.Bottom),
	}
}

// Add registers id with rect. Adding an identity that is already present
// replaces its rectangle, so repeated adds never leave stale buckets behind.
func (f *Finder[K]) Add(id K, rect geom.Rect) {
	f.Update(id, rect)
}

// Update moves id to rect. An unknown id is registered as if by Add.
func (f *Finder[K]) Update(id K, rect geom.Rect) {
	if old, ok := f.rects[id]; ok {
		f.unbucket(id, f.CellSpan(old))
	}
	f.rects[id] = rect

	s := f.CellSpan(rect)
	for cy := s.MinY; cy <= s.MaxY; cy++ {
		row := cy * f.dim
		for cx := s.MinX; cx <= s.MaxX; cx++ {
			cell := f.cells[row+cx]
			if cell == nil {
				cell = make(map[K]struct{}, 4)
				f.cells[row+cx] = cell
			}
			cell[id] = struct{}{}
		}
	}
}

// Remove unregisters id. Unknown identities are ignored.
func (f *Finder[K]) Remove(id K) {
	old, ok := f.rects[id]
	if !ok {
		return
	}
	f.unbucket(id, f.CellSpan(old))
	delete(f.rects, id)
}

func (f *Finder[K]) unbucket(id K, s Span) {
	for cy := s.MinY; cy <= s.MaxY; cy++ {
		row := cy * f.dim
		for cx := s.MinX; cx <= s.MaxX; cx++ {
			delete(f.cells[row+cx], id)
		}
	}
}

// QueryStats describes the work done by one query.
type QueryStats struct {
	Cells      int // cells visited
	Candidates int // distinct identities found in those cells
	Hits       int // candidates whose rectangle overlaps the query
}

// FalsePositives is the number of candidates rejected by the exact overlap test.
func (s QueryStats) FalsePositives() int {
	return s.Candidates - s.Hits
}

// Query returns every registered identity whose rectangle overlaps r, each
// exactly once and in no particular order.
func (f *Finder[K]) Query(r geom.Rect) []K {
	return f.QueryInto(nil, r)
}

// QueryInto appends the results of Query(r) to dst and returns it.
// Reuse dst across frames to avoid allocations.
func (f *Finder[K]) QueryInto(dst []K, r geom.Rect) []K {
	dst, _ = f.QueryWithStats(dst, r)
	return dst
}

// QueryWithStats is QueryInto that also reports how many cells and
// candidates the query touched.
func (f *Finder[K]) QueryWithStats(dst []K, r geom.Rect) ([]K, QueryStats) {
	qs := f.CellSpan(r)
	stats := QueryStats{Cells: qs.Cells()}

	for cy := qs.MinY; cy <= qs.MaxY; cy++ {
		row := cy * f.dim
		for cx := qs.MinX; cx <= qs.MaxX; cx++ {
			for id := range f.cells[row+cx] {
				rect := f.rects[id]

				// An identity sits in every cell of its span, so it is seen
				// once per shared cell. Only the top-left shared cell reports it.
				s := f.CellSpan(rect)
				if cx != max(s.MinX, qs.MinX) || cy != max(s.MinY, qs.MinY) {
					continue
				}

				stats.Candidates++
				if rect.Overlaps(r) {
					stats.Hits++
					dst = append(dst, id)
				}
			}
		}
	}

	return dst, stats
}

// Contains reports whether id is registered.
func (f *Finder[K]) Contains(id K) bool {
	_, ok := f.rects[id]
	return ok
}

// Rect returns the rectangle registered for id.
func (f *Finder[K]) Rect(id K) (geom.Rect, bool) {
	r, ok := f.rects[id]
	return r, ok
}

// Len returns the number of registered identities.
func (f *Finder[K]) Len() int {
	return len(f.rects)
}

// CellLen returns the number of identities bucketed in cell (cx, cy).
// Coordinates outside the grid report zero.
func (f *Finder[K]) CellLen(cx, cy int) int {
	if cx < 0 || cy < 0 || cx >= f.dim || cy >= f.dim {
		return 0
	}
	return len(f.cells[cy*f.dim+cx])
}

// Dims returns the number of cells per axis and the cell size.
func (f *Finder[K]) Dims() (dim, cellSize int) {
	return f.dim, f.cellSize
}

// WorldSize returns the side length of the indexed world.
func (f *Finder[K]) WorldSize() int {
	return f.worldSize
}

// Clear unregisters every identity. Allocated cells are kept for reuse.
func (f *Finder[K]) Clear() {
	for _, cell := range f.cells {
		clear(cell)
	}
	clear(f.rects)
}

// GridStats summarises bucket occupancy.
type GridStats struct {
	Objects     int `json:"objects"`
	TotalCells  int `json:"total_cells"`
	NonEmpty    int `json:"non_empty_cells"`
	Memberships int `json:"memberships"`
	MaxPerCell  int `json:"max_per_cell"`
}

// Stats walks the grid and reports occupancy.
func (f *Finder[K]) Stats() GridStats {
	gs := GridStats{Objects: len(f.rects), TotalCells: len(f.cells)}
	for _, cell := range f.cells {
		n := len(cell)
		if n == 0 {
			continue
		}
		gs.NonEmpty++
		gs.Memberships += n
		gs.MaxPerCell = max(gs.MaxPerCell, n)
	}
	return gs
}
