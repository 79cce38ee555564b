// Package vertexmap implements the vertex-ordered, CSR-like edge mapper:
// a pair of memory-mapped files, <prefix>.nodes and <prefix>.edges, read
// sequentially the way the teacher's internal/codestream parser walks a
// marker segment list without ever materializing the whole thing as a
// typed slice.
//
// <prefix>.nodes holds N+1 little-endian uint32 entries, the exclusive
// prefix sum of each vertex's out-degree: entry i is the offset in
// <prefix>.edges where vertex i's outgoing neighbors begin, and
// nodes[N] is the total edge count. <prefix>.edges holds that many
// little-endian uint32 destination vertex ids, grouped by source.
package vertexmap

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/graphcost/cost/internal/mmapfile"
)

// ErrFormat is returned when a file's size is inconsistent with the
// vertex/edge counts its header implies.
var ErrFormat = errors.New("vertexmap: malformed file")

const wordSize = 4

// Mapper streams edges out of a vertex-ordered CSR-like pair of files in
// source-vertex order.
type Mapper struct {
	nodes *mmapfile.File
	edges *mmapfile.File
}

// Open memory-maps prefix+".nodes" and prefix+".edges". The caller must
// Close the returned Mapper once done with it.
func Open(prefix string) (*Mapper, error) {
	nodes, err := mmapfile.Open(prefix + ".nodes")
	if err != nil {
		return nil, fmt.Errorf("vertexmap: open nodes: %w", err)
	}
	edges, err := mmapfile.Open(prefix + ".edges")
	if err != nil {
		nodes.Close()
		return nil, fmt.Errorf("vertexmap: open edges: %w", err)
	}
	nb := len(nodes.Bytes())
	if nb%wordSize != 0 || nb == 0 {
		nodes.Close()
		edges.Close()
		return nil, fmt.Errorf("vertexmap: %s: %w", prefix+".nodes", ErrFormat)
	}
	n := nb/wordSize - 1
	total := readU32(nodes.Bytes(), n)
	if int(total)*wordSize != len(edges.Bytes()) {
		nodes.Close()
		edges.Close()
		return nil, fmt.Errorf("vertexmap: %s: edge count %d disagrees with file size: %w", prefix+".edges", total, ErrFormat)
	}
	return &Mapper{nodes: nodes, edges: edges}, nil
}

func readU32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i*wordSize:])
}

// NumVertices returns N, the number of vertices the .nodes header
// declares (one fewer than its entry count).
func (m *Mapper) NumVertices() int {
	return len(m.nodes.Bytes())/wordSize - 1
}

// MapEdges invokes f once per edge, in source-vertex order, then
// destination order within a source. It satisfies cost.Mapper.
func (m *Mapper) MapEdges(f func(x, y uint32)) error {
	n := m.NumVertices()
	nb := m.nodes.Bytes()
	eb := m.edges.Bytes()
	for v := 0; v < n; v++ {
		start := readU32(nb, v)
		end := readU32(nb, v+1)
		if end < start {
			return fmt.Errorf("vertexmap: vertex %d has negative degree: %w", v, ErrFormat)
		}
		for i := start; i < end; i++ {
			f(uint32(v), readU32(eb, int(i)))
		}
	}
	return nil
}

// Close unmaps both backing files.
func (m *Mapper) Close() error {
	err1 := m.nodes.Close()
	err2 := m.edges.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
