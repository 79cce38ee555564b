package cost

import (
	"github.com/graphcost/cost/internal/deltamap"
	"github.com/graphcost/cost/internal/tilemap"
)

// ConvertToTile streams every edge out of m and writes the two-tier
// Hilbert-tile representation to prefix+".upper"/prefix+".lower". When
// dense is true the converter makes 256 lower-memory passes over m
// instead of building one large in-memory tile index; see
// internal/tilemap.Convert for how the passes are partitioned.
func ConvertToTile(m Mapper, prefix string, dense bool) error {
	return tilemap.Write(prefix, m, dense)
}

// ConvertToDelta streams every edge out of m, entangles it into a
// Hilbert index, and writes the sorted, delta-compressed varint stream
// to path. Edges that entangle to the same index collapse into one
// entry in the output.
func ConvertToDelta(m Mapper, path string) error {
	return deltamap.Write(path, m)
}
