package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/scroller/geom"
)

func sorted(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

// buckets returns the cells each identity is bucketed in, ignoring empty cells.
func buckets(f *Finder[int]) map[int][]int {
	out := make(map[int][]int)
	for idx, cell := range f.cells {
		for id := range cell {
			out[id] = append(out[id], idx)
		}
	}
	for id := range out {
		sort.Ints(out[id])
	}
	return out
}

// expectedBuckets derives bucket membership from the registry alone.
func expectedBuckets(f *Finder[int]) map[int][]int {
	out := make(map[int][]int)
	for id, r := range f.rects {
		s := f.CellSpan(r)
		for cy := s.MinY; cy <= s.MaxY; cy++ {
			for cx := s.MinX; cx <= s.MaxX; cx++ {
				out[id] = append(out[id], cy*f.dim+cx)
			}
		}
		sort.Ints(out[id])
	}
	return out
}

func TestNewFinderGeometry(t *testing.T) {
	tests := []struct {
		name      string
		world     int
		cell      int
		wantErr   bool
		wantDim   int
		wantCells int
	}{
		{"default", DefaultWorldSize, DefaultCellSize, false, 20, 400},
		{"single cell", 1000, 1000, false, 1, 1},
		{"not divisible", 20000, 3000, true, 0, 0},
		{"zero cell", 20000, 0, true, 0, 0},
		{"negative world", -100, 10, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFinder[int](tt.world, tt.cell)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidGeometry)
				return
			}
			require.NoError(t, err)
			dim, cell := f.Dims()
			assert.Equal(t, tt.wantDim, dim)
			assert.Equal(t, tt.cell, cell)
			assert.Equal(t, tt.wantCells, f.Stats().TotalCells)
		})
	}

	assert.Panics(t, func() { MustNewFinder[int](10, 3) })
}

func TestCellSpanClamps(t *testing.T) {
	f := NewDefaultFinder[int]()

	tests := []struct {
		name string
		r    geom.Rect
		want Span
	}{
		{"origin cell", geom.Rect{Left: 0, Top: 0, Right: 999, Bottom: 999}, Span{0, 0, 0, 0}},
		{"cell boundary", geom.Rect{Left: 999, Top: 999, Right: 1000, Bottom: 1000}, Span{0, 0, 1, 1}},
		{"negative corner", geom.Rect{Left: -500, Top: -1, Right: 10, Bottom: 10}, Span{0, 0, 0, 0}},
		{"beyond far edge", geom.Rect{Left: 19500, Top: 19500, Right: 40000, Bottom: 25000}, Span{19, 19, 19, 19}},
		{"fully outside", geom.Rect{Left: -900, Top: 30000, Right: -100, Bottom: 31000}, Span{0, 19, 0, 19}},
		{"whole world", geom.Rect{Left: 0, Top: 0, Right: 19999, Bottom: 19999}, Span{0, 0, 19, 19}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CellSpan(tt.r))
		})
	}
}

func TestScenarioAddAndQuery(t *testing.T) {
	f := NewDefaultFinder[string]()
	f.Add("X", geom.Rect{Left: 100, Top: 100, Right: 150, Bottom: 150})

	assert.Equal(t, []string{"X"}, f.Query(geom.Rect{Left: 0, Top: 0, Right: 200, Bottom: 200}))
	assert.Empty(t, f.Query(geom.Rect{Left: 5000, Top: 5000, Right: 5100, Bottom: 5100}))
}

func TestScenarioUpdateMoves(t *testing.T) {
	f := NewDefaultFinder[string]()
	f.Add("X", geom.Rect{Left: 100, Top: 100, Right: 150, Bottom: 150})
	f.Update("X", geom.Rect{Left: 5100, Top: 5100, Right: 5150, Bottom: 5150})

	assert.Empty(t, f.Query(geom.Rect{Left: 0, Top: 0, Right: 200, Bottom: 200}))
	assert.Equal(t, []string{"X"}, f.Query(geom.Rect{Left: 5000, Top: 5000, Right: 5200, Bottom: 5200}))

	r, ok := f.Rect("X")
	require.True(t, ok)
	assert.Equal(t, geom.Rect{Left: 5100, Top: 5100, Right: 5150, Bottom: 5150}, r)
	assert.Zero(t, f.CellLen(0, 0))
	assert.Equal(t, 1, f.CellLen(5, 5))
}

func TestScenarioSharedCellNoDuplicates(t *testing.T) {
	f := NewDefaultFinder[string]()
	// X covers cells (0..1, 0..1), Y covers (1..2, 1..2); they share cell (1, 1).
	f.Add("X", geom.Rect{Left: 500, Top: 500, Right: 1500, Bottom: 1500})
	f.Add("Y", geom.Rect{Left: 1200, Top: 1200, Right: 2500, Bottom: 2500})

	got, stats := f.QueryWithStats(nil, geom.Rect{Left: 1000, Top: 1000, Right: 1999, Bottom: 1999})
	sort.Strings(got)
	assert.Equal(t, []string{"X", "Y"}, got)
	assert.Equal(t, 1, stats.Cells)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 2, stats.Hits)

	// A query spanning all four of X's cells still reports X once.
	got = f.Query(geom.Rect{Left: 0, Top: 0, Right: 2999, Bottom: 2999})
	sort.Strings(got)
	assert.Equal(t, []string{"X", "Y"}, got)
}

func TestScenarioRemoveUnknown(t *testing.T) {
	f := NewDefaultFinder[string]()
	f.Add("Y", geom.Rect{Left: 10, Top: 10, Right: 20, Bottom: 20})

	require.NotPanics(t, func() { f.Remove("X") })
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, []string{"Y"}, f.Query(geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100}))
}

func TestQueryFiltersFalsePositives(t *testing.T) {
	f := NewDefaultFinder[int]()
	f.Add(1, geom.Rect{Left: 10, Top: 10, Right: 20, Bottom: 20})
	f.Add(2, geom.Rect{Left: 900, Top: 900, Right: 950, Bottom: 950})

	got, stats := f.QueryWithStats(nil, geom.Rect{Left: 0, Top: 0, Right: 100, Bottom: 100})
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 2, stats.Candidates)
	assert.Equal(t, 1, stats.FalsePositives())
}

func TestQueryUsesRegisteredRect(t *testing.T) {
	f := NewDefaultFinder[int]()
	live := geom.Rect{Left: 10, Top: 10, Right: 20, Bottom: 20}
	f.Add(1, live)

	// Moving the object without Update must not change what the index reports.
	live = live.Translate(3000, 3000)
	assert.Equal(t, []int{1}, f.Query(geom.Rect{Left: 0, Top: 0, Right: 50, Bottom: 50}))
	assert.Empty(t, f.Query(live))
}

func TestDoubleAddIsIdempotent(t *testing.T) {
	f := NewDefaultFinder[int]()
	f.Add(1, geom.Rect{Left: 100, Top: 100, Right: 150, Bottom: 150})
	f.Add(1, geom.Rect{Left: 7100, Top: 7100, Right: 7150, Bottom: 7150})

	assert.Equal(t, 1, f.Len())
	assert.Empty(t, f.Query(geom.Rect{Left: 0, Top: 0, Right: 999, Bottom: 999}))
	assert.Equal(t, []int{1}, f.Query(geom.Rect{Left: 7000, Top: 7000, Right: 7999, Bottom: 7999}))
	assert.Equal(t, expectedBuckets(f), buckets(f))
}

func TestIdempotentRemove(t *testing.T) {
	f := NewDefaultFinder[int]()
	f.Add(1, geom.Rect{Left: 0, Top: 0, Right: 1500, Bottom: 10})
	f.Add(2, geom.Rect{Left: 5, Top: 5, Right: 6, Bottom: 6})

	f.Remove(1)
	afterOnce := buckets(f)
	f.Remove(1)

	assert.Equal(t, afterOnce, buckets(f))
	assert.False(t, f.Contains(1))
	assert.Equal(t, []int{2}, f.Query(geom.Rect{Left: 0, Top: 0, Right: 2000, Bottom: 2000}))
}

func TestUpdateEqualsRemoveThenAdd(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		a := NewDefaultFinder[int]()
		b := NewDefaultFinder[int]()
		for id := 0; id < 20; id++ {
			r := randomRect(rng)
			a.Add(id, r)
			b.Add(id, r)
		}

		id := rng.Intn(20)
		next := randomRect(rng)
		a.Update(id, next)
		b.Remove(id)
		b.Add(id, next)

		require.Equal(t, b.rects, a.rects)
		require.Equal(t, buckets(b), buckets(a))
	}
}

func TestEdgeClampingQueryable(t *testing.T) {
	f := NewDefaultFinder[string]()
	f.Add("west", geom.Rect{Left: -300, Top: 500, Right: -100, Bottom: 600})
	f.Add("south-east", geom.Rect{Left: 19900, Top: 19900, Right: 25000, Bottom: 25000})
	f.Add("far", geom.Rect{Left: 50000, Top: 50000, Right: 50010, Bottom: 50010})

	assert.Equal(t, []string{"west"}, f.Query(geom.Rect{Left: -400, Top: 0, Right: 999, Bottom: 999}))
	assert.Equal(t, []string{"south-east"}, f.Query(geom.Rect{Left: 19000, Top: 19000, Right: 19999, Bottom: 19999}))
	// Clamped into the corner cell but only returned when the query truly overlaps it.
	assert.Equal(t, []string{"far"}, f.Query(geom.Rect{Left: 49000, Top: 49000, Right: 60000, Bottom: 60000}))
	assert.Equal(t, 2, f.CellLen(19, 19))
}

func TestClearAndStats(t *testing.T) {
	f := NewDefaultFinder[int]()
	f.Add(1, geom.Rect{Left: 0, Top: 0, Right: 1999, Bottom: 999}) // 2 cells
	f.Add(2, geom.Rect{Left: 500, Top: 500, Right: 600, Bottom: 600})

	gs := f.Stats()
	assert.Equal(t, 2, gs.Objects)
	assert.Equal(t, 2, gs.NonEmpty)
	assert.Equal(t, 3, gs.Memberships)
	assert.Equal(t, 2, gs.MaxPerCell)

	f.Clear()
	assert.Zero(t, f.Len())
	assert.Empty(t, f.Query(geom.Rect{Left: 0, Top: 0, Right: 19999, Bottom: 19999}))
	assert.Zero(t, f.Stats().Memberships)
}

func TestQueryIntoReusesBuffer(t *testing.T) {
	f := NewDefaultFinder[int]()
	for i := 0; i < 10; i++ {
		f.Add(i, geom.Rect{Left: i * 100, Top: 0, Right: i*100 + 50, Bottom: 50})
	}

	buf := make([]int, 0, 16)
	buf = f.QueryInto(buf[:0], geom.Rect{Left: 0, Top: 0, Right: 1000, Bottom: 100})
	assert.Len(t, buf, 10)
	buf = f.QueryInto(buf[:0], geom.Rect{Left: 0, Top: 0, Right: 120, Bottom: 100})
	assert.Equal(t, []int{0, 1}, sorted(buf))
}

func randomRect(rng *rand.Rand) geom.Rect {
	// Mostly inside the world, sometimes straddling or beyond its edges.
	x := rng.Intn(22000) - 1000
	y := rng.Intn(22000) - 1000
	w := rng.Intn(2500)
	h := rng.Intn(2500)
	return geom.Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// TestMatchesBruteForce drives random add/update/remove sequences and checks
// every query against a linear scan of the live registrations.
func TestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := NewDefaultFinder[int]()
	oracle := make(map[int]geom.Rect)

	for step := 0; step < 3000; step++ {
		id := rng.Intn(60)
		switch op := rng.Intn(10); {
		case op < 4:
			r := randomRect(rng)
			f.Add(id, r)
			oracle[id] = r
		case op < 8:
			r := randomRect(rng)
			f.Update(id, r)
			oracle[id] = r
		default:
			f.Remove(id)
			delete(oracle, id)
		}

		q := randomRect(rng)
		var want []int
		for oid, r := range oracle {
			if r.Overlaps(q) {
				want = append(want, oid)
			}
		}

		got := f.Query(q)
		require.Equal(t, sorted(want), sorted(got), "step %d query %+v", step, q)
		require.Equal(t, len(oracle), f.Len())

		seen := make(map[int]bool, len(got))
		for _, g := range got {
			require.False(t, seen[g], "duplicate %d at step %d", g, step)
			seen[g] = true
		}

		if step%100 == 0 {
			require.Equal(t, expectedBuckets(f), buckets(f), "bucket drift at step %d", step)
		}
	}
}

func BenchmarkQueryCamera(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	f := NewDefaultFinder[int]()
	for i := 0; i < 2000; i++ {
		x, y := rng.Intn(20000), rng.Intn(20000)
		f.Add(i, geom.Rect{Left: x, Top: y, Right: x + 40, Bottom: y + 40})
	}
	camera := geom.Rect{Left: 4000, Top: 4000, Right: 4800, Bottom: 4600}
	buf := make([]int, 0, 64)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = f.QueryInto(buf[:0], camera.Expand(200))
	}
}
