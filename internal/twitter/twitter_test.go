package twitter

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graphcost/cost/internal/hilbert"
)

func TestParseToHilbertSortsAscending(t *testing.T) {
	input := "5 5\n0 0\n1 0\n1 1\n0 1\n"
	var zs []uint64
	err := ParseToHilbert(strings.NewReader(input), func(z uint64) error {
		zs = append(zs, z)
		return nil
	})
	if err != nil {
		t.Fatalf("ParseToHilbert: %v", err)
	}
	want := []uint64{
		hilbert.Entangle(0, 0),
		hilbert.Entangle(1, 0),
		hilbert.Entangle(1, 1),
		hilbert.Entangle(0, 1),
		hilbert.Entangle(5, 5),
	}
	// want must itself be sorted for this comparison to be meaningful.
	for i := 1; i < len(want); i++ {
		if want[i] < want[i-1] {
			want[i-1], want[i] = want[i], want[i-1]
		}
	}
	if len(zs) != len(want) {
		t.Fatalf("got %d indices, want %d", len(zs), len(want))
	}
	for i := 1; i < len(zs); i++ {
		if zs[i] <= zs[i-1] {
			t.Fatalf("output not strictly ascending at %d: %d then %d", i, zs[i-1], zs[i])
		}
	}
	for i := range want {
		if zs[i] != want[i] {
			t.Errorf("index %d = %d, want %d", i, zs[i], want[i])
		}
	}
}

func TestParseToHilbertSkipsBlankLines(t *testing.T) {
	input := "0 0\n\n1 0\n   \n"
	count := 0
	err := ParseToHilbert(strings.NewReader(input), func(z uint64) error { count++; return nil })
	if err != nil {
		t.Fatalf("ParseToHilbert: %v", err)
	}
	if count != 2 {
		t.Errorf("ParseToHilbert visited %d indices, want 2", count)
	}
}

func TestParseToHilbertMalformedLine(t *testing.T) {
	input := "0 0\nnotanumber 3\n"
	err := ParseToHilbert(strings.NewReader(input), func(z uint64) error { return nil })
	if err == nil {
		t.Fatal("ParseToHilbert with malformed line: want error, got nil")
	}
}

func readU32File(t *testing.T, path string) []uint32 {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	out := make([]uint32, len(data)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

func TestParseToVertexProducesValidCSR(t *testing.T) {
	input := "0 1\n0 2\n1 2\n"
	dir := t.TempDir()
	prefix := filepath.Join(dir, "g")
	if err := ParseToVertex(strings.NewReader(input), prefix); err != nil {
		t.Fatalf("ParseToVertex: %v", err)
	}
	nodes := readU32File(t, prefix+".nodes")
	edges := readU32File(t, prefix+".edges")

	if len(nodes) != 4 { // vertices 0,1,2 => N+1 = 4
		t.Fatalf("nodes has %d entries, want 4: %v", len(nodes), nodes)
	}
	if nodes[len(nodes)-1] != uint32(len(edges)) {
		t.Errorf("nodes[N] = %d, want total edge count %d", nodes[len(nodes)-1], len(edges))
	}
	// vertex 0 has out-degree 2, vertex 1 has out-degree 1, vertex 2 has 0.
	deg0 := nodes[1] - nodes[0]
	deg1 := nodes[2] - nodes[1]
	deg2 := nodes[3] - nodes[2]
	if deg0 != 2 || deg1 != 1 || deg2 != 0 {
		t.Errorf("degrees = [%d,%d,%d], want [2,1,0]", deg0, deg1, deg2)
	}
}

func TestParseToVertexEmptyInput(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "empty")
	if err := ParseToVertex(strings.NewReader(""), prefix); err != nil {
		t.Fatalf("ParseToVertex: %v", err)
	}
	nodes := readU32File(t, prefix+".nodes")
	if len(nodes) != 1 || nodes[0] != 0 {
		t.Errorf("nodes for empty input = %v, want [0]", nodes)
	}
	edges := readU32File(t, prefix+".edges")
	if len(edges) != 0 {
		t.Errorf("edges for empty input = %v, want []", edges)
	}
}
