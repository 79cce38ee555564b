package cost

import (
	"io"

	"github.com/graphcost/cost/internal/deltamap"
	"github.com/graphcost/cost/internal/tilemap"
	"github.com/graphcost/cost/internal/vertexmap"
)

// vertexMapper, tileMapper, and deltaMapper adapt the internal mappers'
// MapEdges+Close methods to the public Mapper interface plus io.Closer,
// without exposing the internal packages' concrete types in this
// package's API.
type vertexMapper struct{ m *vertexmap.Mapper }

func (v vertexMapper) MapEdges(f func(x, y uint32)) error { return v.m.MapEdges(f) }
func (v vertexMapper) Close() error                       { return v.m.Close() }

type tileMapper struct{ m *tilemap.Mapper }

func (v tileMapper) MapEdges(f func(x, y uint32)) error { return v.m.MapEdges(f) }
func (v tileMapper) Close() error                       { return v.m.Close() }

type deltaMapperAdapter struct{ m *deltamap.Mapper }

func (v deltaMapperAdapter) MapEdges(f func(x, y uint32)) error { return v.m.MapEdges(f) }
func (v deltaMapperAdapter) Close() error                       { return v.m.Close() }

// OpenVertex memory-maps the vertex-ordered CSR-like file pair
// prefix+".nodes"/prefix+".edges".
func OpenVertex(prefix string) (MapperCloser, error) {
	m, err := vertexmap.Open(prefix)
	if err != nil {
		return nil, err
	}
	return vertexMapper{m}, nil
}

// OpenTile memory-maps the two-tier Hilbert-tile file pair
// prefix+".upper"/prefix+".lower".
func OpenTile(prefix string) (MapperCloser, error) {
	m, err := tilemap.Open(prefix)
	if err != nil {
		return nil, err
	}
	return tileMapper{m}, nil
}

// OpenDelta opens the delta-compressed varint stream at path.
func OpenDelta(path string) (MapperCloser, error) {
	m, err := deltamap.Open(path)
	if err != nil {
		return nil, err
	}
	return deltaMapperAdapter{m}, nil
}

// MapperCloser is a Mapper backed by a resource (an mmap region, an
// open file) that must be released once the caller is done streaming
// edges from it.
type MapperCloser interface {
	Mapper
	io.Closer
}
