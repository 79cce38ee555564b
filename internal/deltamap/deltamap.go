// Package deltamap implements the delta-compressed edge mapper: a
// single varint.Decoder reads a strictly increasing stream of Hilbert
// indices, each recovered by internal/hilbert.Detangle back into an
// (x, y) edge.
//
// Because the stream stores a strictly increasing sequence of Hilbert
// indices, repeated copies of the same edge entangle to the same index
// and are written once — this format collapses duplicate edges by
// construction. Callers that need multiplicity preserved must
// use internal/vertexmap or internal/tilemap instead.
package deltamap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/graphcost/cost/internal/hilbert"
	"github.com/graphcost/cost/internal/varint"
)

// Mapper streams edges out of a delta-compressed varint stream of
// Hilbert indices, in ascending Hilbert order.
type Mapper struct {
	f   *os.File
	dec *varint.Decoder
}

// Open opens path and wraps it in a buffered varint.Decoder.
func Open(path string) (*Mapper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deltamap: open: %w", err)
	}
	return &Mapper{f: f, dec: varint.NewDecoder(f)}, nil
}

// FromReader wraps an already-open reader, for callers (merge output,
// in-process pipelines) that do not have a backing file.
func FromReader(r io.Reader) *Mapper {
	return &Mapper{dec: varint.NewDecoder(r)}
}

// MapEdges invokes f once per edge, in ascending Hilbert order.
func (m *Mapper) MapEdges(f func(x, y uint32)) error {
	for {
		z, err := m.dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("deltamap: decode: %w", err)
		}
		x, y := hilbert.Detangle(z)
		f(x, y)
	}
}

// Close closes the backing file, if Open (rather than FromReader)
// created this Mapper.
func (m *Mapper) Close() error {
	if m.f == nil {
		return nil
	}
	return m.f.Close()
}

// EdgeSource is the subset of cost.Mapper that Write needs: any type
// that can stream its edges once, in any order, to a callback.
type EdgeSource interface {
	MapEdges(f func(x, y uint32)) error
}

// Write reads every edge out of m, entangles it, sorts the resulting
// indices, and writes them to path as a delta-compressed varint
// stream — the inverse of Open/MapEdges above.
func Write(path string, m EdgeSource) error {
	var zs []uint64
	if err := m.MapEdges(func(x, y uint32) {
		zs = append(zs, hilbert.Entangle(x, y))
	}); err != nil {
		return fmt.Errorf("deltamap: write: %w", err)
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i] < zs[j] })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("deltamap: create: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	var prev uint64
	for i, z := range zs {
		if i == 0 {
			if err := varint.Encode(w, z); err != nil {
				return fmt.Errorf("deltamap: encode: %w", err)
			}
		} else if z > prev {
			if err := varint.Encode(w, z-prev); err != nil {
				return fmt.Errorf("deltamap: encode: %w", err)
			}
		}
		prev = z
	}
	return w.Flush()
}
