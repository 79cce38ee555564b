package tilemap

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/graphcost/cost/internal/hilbert"
)

// sliceMapper is a fixed in-memory Mapper, for feeding Convert/Write
// without needing a vertex- or delta-mapper fixture.
type sliceMapper struct {
	edges [][2]uint32
}

func (s sliceMapper) MapEdges(f func(x, y uint32)) error {
	for _, e := range s.edges {
		f(e[0], e[1])
	}
	return nil
}

func TestWriteOpenRoundTrip(t *testing.T) {
	src := sliceMapper{edges: [][2]uint32{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
		{1 << 16, 1 << 16},
		{(1 << 16) + 5, (1 << 16) + 2},
	}}
	dir := t.TempDir()
	prefix := filepath.Join(dir, "g")
	if err := Write(prefix, src, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	m, err := Open(prefix)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	type pair struct{ x, y uint32 }
	var got []pair
	if err := m.MapEdges(func(x, y uint32) { got = append(got, pair{x, y}) }); err != nil {
		t.Fatalf("MapEdges: %v", err)
	}
	if len(got) != len(src.edges) {
		t.Fatalf("got %d edges, want %d", len(got), len(src.edges))
	}

	want := make([]pair, len(src.edges))
	for i, e := range src.edges {
		want[i] = pair{e[0], e[1]}
	}
	sort.Slice(want, func(i, j int) bool {
		zi := hilbert.Entangle(want[i].x, want[i].y)
		zj := hilbert.Entangle(want[j].x, want[j].y)
		return zi < zj
	})
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriteOpenRoundTripDense(t *testing.T) {
	src := sliceMapper{edges: [][2]uint32{
		{0, 0},
		{1, 0},
		{1 << 24, 1 << 24},
		{(1 << 24) + 9, 3},
	}}
	dir := t.TempDir()
	prefix := filepath.Join(dir, "g")
	if err := Write(prefix, src, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	m, err := Open(prefix)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer m.Close()

	count := 0
	if err := m.MapEdges(func(x, y uint32) { count++ }); err != nil {
		t.Fatalf("MapEdges: %v", err)
	}
	if count != len(src.edges) {
		t.Errorf("MapEdges produced %d edges, want %d", count, len(src.edges))
	}
}

func TestConvertAscendingHilbertOrder(t *testing.T) {
	src := sliceMapper{edges: [][2]uint32{
		{5, 5}, {0, 0}, {2, 1}, {1, 1}, {0, 1}, {1, 0},
	}}
	var zs []uint64
	err := Convert(src, false, func(ux, uy uint16, lowers []LowerPoint) error {
		for _, p := range lowers {
			x := uint32(ux)<<16 | uint32(p.LX)
			y := uint32(uy)<<16 | uint32(p.LY)
			zs = append(zs, hilbert.Entangle(x, y))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for i := 1; i < len(zs); i++ {
		if zs[i] <= zs[i-1] {
			t.Fatalf("tile emission not in ascending Hilbert order at %d: %d then %d", i, zs[i-1], zs[i])
		}
	}
}

func TestOpenMalformedUpper(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "bad")
	if err := Write(prefix, sliceMapper{}, false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Truncate the upper file to an invalid length by overwriting it.
	badPath := prefix + ".upper"
	if err := os.WriteFile(badPath, []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	if _, err := Open(prefix); err == nil {
		t.Fatal("Open with malformed upper file: want error, got nil")
	}
}
