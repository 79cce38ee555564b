package cost

import (
	"bufio"
	"io"

	"github.com/graphcost/cost/internal/twitter"
	"github.com/graphcost/cost/internal/varint"
)

// ParseToHilbert reads whitespace-separated "src dst" vertex-id pairs
// from r and writes the resulting Hilbert indices to w as a sorted,
// delta-compressed varint stream.
func ParseToHilbert(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	var prev uint64
	first := true
	err := twitter.ParseToHilbert(r, func(z uint64) error {
		var encErr error
		if first {
			encErr = varint.Encode(bw, z)
			first = false
		} else {
			encErr = varint.Encode(bw, z-prev)
		}
		prev = z
		return encErr
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ParseToVertex reads the same "src dst" pair format as ParseToHilbert
// and writes a vertex-ordered CSR-like file pair, prefix+".nodes" and
// prefix+".edges".
func ParseToVertex(r io.Reader, prefix string) error {
	return twitter.ParseToVertex(r, prefix)
}
