package cost

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/graphcost/cost/internal/merge"
	"github.com/graphcost/cost/internal/varint"
)

// Merge k-way merges the delta-compressed varint streams at the given
// source paths and writes the result to w as a single delta-compressed,
// strictly increasing stream of Hilbert indices.
func Merge(sources []string, w io.Writer) error {
	decoders := make([]*varint.Decoder, 0, len(sources))
	for _, src := range sources {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("cost: merge: open %s: %w", src, err)
		}
		defer f.Close()
		decoders = append(decoders, varint.NewDecoder(f))
	}

	bw := bufio.NewWriter(w)
	var prev uint64
	first := true
	err := merge.Merge(decoders, func(z uint64) error {
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
		return fmt.Errorf("cost: merge: %w", err)
	}
	return bw.Flush()
}
