// Package twitter ingests whitespace-separated "src dst" vertex-id
// pairs, one edge per line, the format the reference implementation's
// text corpus pipeline reads from, and turns them into either a
// Hilbert-sorted index stream or a vertex-ordered CSR-like file pair.
//
// Parsing follows the teacher's internal/codestream approach of a
// single sequential pass with a small lookahead buffer rather than
// slurping the whole input, via bufio.Scanner.
package twitter

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/graphcost/cost/internal/hilbert"
)

// ParseToHilbert reads whitespace-separated "src dst" pairs from r, one
// per line, entangles each into a Hilbert index, sorts the resulting
// indices, and calls sink once per distinct index in strictly ascending
// order (duplicate edges yield a single call).
//
// sink is expected to encode each index as a varint delta against the
// previous call, matching the rest of the toolkit's delta-compressed
// convention; ParseToHilbert itself only guarantees strictly ascending
// order.
func ParseToHilbert(r io.Reader, sink func(z uint64) error) error {
	var zs []uint64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		x, y, ok, err := parseLine(sc.Text())
		if err != nil {
			return fmt.Errorf("twitter: line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		zs = append(zs, hilbert.Entangle(x, y))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("twitter: scan: %w", err)
	}
	sort.Slice(zs, func(i, j int) bool { return zs[i] < zs[j] })
	for i, z := range zs {
		if i > 0 && z == zs[i-1] {
			continue
		}
		if err := sink(z); err != nil {
			return fmt.Errorf("twitter: sink: %w", err)
		}
	}
	return nil
}

// ParseToVertex reads the same "src dst" pair format as ParseToHilbert
// but writes a vertex-ordered CSR-like pair, prefix+".nodes" and
// prefix+".edges", bucket-sorted by source vertex. This mirrors the
// CLI's "cost twitter <from> <prefix>" subcommand, which the command
// surface names but the filtered reference sources don't include the
// body of.
func ParseToVertex(r io.Reader, prefix string) error {
	var edges [][2]uint32
	var maxVertex uint32
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		x, y, ok, err := parseLine(sc.Text())
		if err != nil {
			return fmt.Errorf("twitter: line %d: %w", line, err)
		}
		if !ok {
			continue
		}
		edges = append(edges, [2]uint32{x, y})
		if x > maxVertex {
			maxVertex = x
		}
		if y > maxVertex {
			maxVertex = y
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("twitter: scan: %w", err)
	}

	n := int(maxVertex) + 1
	if len(edges) == 0 {
		n = 0
	}
	degree := make([]uint32, n)
	for _, e := range edges {
		degree[e[0]]++
	}
	nodes := make([]uint32, n+1)
	for v := 0; v < n; v++ {
		nodes[v+1] = nodes[v] + degree[v]
	}

	cursor := make([]uint32, n)
	copy(cursor, nodes[:n])
	edgeCol := make([]uint32, len(edges))
	for _, e := range edges {
		edgeCol[cursor[e[0]]] = e[1]
		cursor[e[0]]++
	}

	if err := writeU32File(prefix+".nodes", nodes); err != nil {
		return err
	}
	return writeU32File(prefix+".edges", edgeCol)
}

func writeU32File(path string, values []uint32) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("twitter: write %s: %w", path, err)
	}
	return nil
}

// parseLine splits a line into two unsigned vertex ids. Blank lines are
// skipped (ok=false, err=nil); anything else that fails to parse as
// exactly two whitespace-separated non-negative integers is an error.
func parseLine(s string) (x, y uint32, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false, nil
	}
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, false, fmt.Errorf("expected 2 fields, got %d: %q", len(fields), s)
	}
	xv, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, false, fmt.Errorf("parsing src %q: %w", fields[0], err)
	}
	yv, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, false, fmt.Errorf("parsing dst %q: %w", fields[1], err)
	}
	return uint32(xv), uint32(yv), true, nil
}
