package cost

import (
	"io"

	"github.com/graphcost/cost/internal/algorithm"
)

// Stats is the aggregate edge/vertex/degree summary ComputeStats
// produces from a single pass over a Mapper's edges.
type Stats = algorithm.Stats

// DefaultDamping and DefaultIterations are PageRank's reference
// parameters, overridable via cmd/cost's --alpha/--iterations flags.
const (
	DefaultDamping    = algorithm.DefaultDamping
	DefaultIterations = algorithm.DefaultIterations
)

// ErrNoConvergence is returned by LabelPropagation if it fails to reach
// a fixpoint within the vertex count's worth of passes.
var ErrNoConvergence = algorithm.ErrNoConvergence

// ComputeStats walks m once and reports edge count, vertex count, and
// max out-degree.
func ComputeStats(m Mapper) (Stats, error) {
	return algorithm.ComputeStats(m)
}

// Print writes one "x\ty\n" line per edge in m to w.
func Print(m Mapper, w io.Writer) error {
	return algorithm.Print(m, w)
}

// PageRank runs power-iteration PageRank over m for numVertices
// vertices, with damping factor alpha over the given number of
// iterations, returning one rank per vertex.
func PageRank(m Mapper, numVertices uint32, alpha float32, iterations int) ([]float32, error) {
	return algorithm.PageRank(m, numVertices, alpha, iterations)
}

// UnionFind runs union-by-rank, path-shortened disjoint-set
// construction over m's edges for numVertices vertices, returning the
// root vertex each vertex belongs to.
func UnionFind(m Mapper, numVertices uint32) ([]uint32, error) {
	return algorithm.UnionFind(m, numVertices)
}

// LabelPropagation runs synchronous label propagation over m's edges
// for numVertices vertices, returning the fixpoint label of every
// vertex.
func LabelPropagation(m Mapper, numVertices uint32) ([]uint32, error) {
	return algorithm.LabelPropagation(m, numVertices)
}
