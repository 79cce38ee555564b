// Package tilemap implements the two-tier Hilbert-tile edge mapper and
// the converter that builds its files from any other Mapper.
//
// A tile file pair is <prefix>.upper and <prefix>.lower. <prefix>.upper
// holds one fixed 8-byte record per non-empty tile, sorted in ascending
// H16 order: two little-endian uint16 tile coordinates (ux, uy)
// followed by a little-endian uint32 record count for that tile. This
// mirrors the teacher's internal/box.Reader.ReadBox pattern of a fixed
// header read sequentially off an mmap'd region, simplified here to a
// flat record with no TLV nesting. <prefix>.lower holds, back to back
// in the same tile order, each tile's edges as pairs of little-endian
// uint16 (lx, ly) sorted by their intra-tile Hilbert index.
package tilemap

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/graphcost/cost/internal/hilbert"
	"github.com/graphcost/cost/internal/mmapfile"
)

// ErrFormat is returned when a tile file pair's sizes are inconsistent
// with their declared record counts.
var ErrFormat = errors.New("tilemap: malformed file")

const upperRecordSize = 8 // u16 ux, u16 uy, u32 count
const lowerRecordSize = 4 // u16 lx, u16 ly

// Mapper streams edges out of a Hilbert-tile file pair in ascending
// Hilbert order.
type Mapper struct {
	upper *mmapfile.File
	lower *mmapfile.File
}

// Open memory-maps prefix+".upper" and prefix+".lower".
func Open(prefix string) (*Mapper, error) {
	upper, err := mmapfile.Open(prefix + ".upper")
	if err != nil {
		return nil, fmt.Errorf("tilemap: open upper: %w", err)
	}
	lower, err := mmapfile.Open(prefix + ".lower")
	if err != nil {
		upper.Close()
		return nil, fmt.Errorf("tilemap: open lower: %w", err)
	}
	if len(upper.Bytes())%upperRecordSize != 0 {
		upper.Close()
		lower.Close()
		return nil, fmt.Errorf("tilemap: %s: %w", prefix+".upper", ErrFormat)
	}
	return &Mapper{upper: upper, lower: lower}, nil
}

// MapEdges invokes f once per edge, walking tiles in the order they
// appear in <prefix>.upper (ascending Hilbert order, by construction of
// Convert) and, within a tile, in ascending intra-tile Hilbert order.
func (m *Mapper) MapEdges(f func(x, y uint32)) error {
	ub := m.upper.Bytes()
	lb := m.lower.Bytes()
	lowerOff := 0
	for off := 0; off < len(ub); off += upperRecordSize {
		ux := binary.LittleEndian.Uint16(ub[off:])
		uy := binary.LittleEndian.Uint16(ub[off+2:])
		count := binary.LittleEndian.Uint32(ub[off+4:])
		need := int(count) * lowerRecordSize
		if lowerOff+need > len(lb) {
			return fmt.Errorf("tilemap: tile (%d,%d) claims %d records past end of lower file: %w", ux, uy, count, ErrFormat)
		}
		for i := 0; i < int(count); i++ {
			rec := lb[lowerOff+i*lowerRecordSize:]
			lx := binary.LittleEndian.Uint16(rec)
			ly := binary.LittleEndian.Uint16(rec[2:])
			x := uint32(ux)<<16 | uint32(lx)
			y := uint32(uy)<<16 | uint32(ly)
			f(x, y)
		}
		lowerOff += need
	}
	return nil
}

// Close unmaps both backing files.
func (m *Mapper) Close() error {
	err1 := m.upper.Close()
	err2 := m.lower.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// EdgeSource is the subset of cost.Mapper that Convert/Write need: any
// type that can stream its edges once, in any order, to a callback.
type EdgeSource interface {
	MapEdges(f func(x, y uint32)) error
}

// LowerPoint is one edge's intra-tile coordinates, tagged with the
// Hilbert index used to order it within its tile.
type LowerPoint struct {
	LX, LY uint16
	idx    uint32
}

// EmitFunc receives one tile's worth of edges, already sorted into
// intra-tile Hilbert order, during Convert.
type EmitFunc func(ux, uy uint16, lowers []LowerPoint) error

// tileKey packs a tile's (ux, uy) pair into a single comparable value
// for use as a map key, independent of H16's bit layout.
type tileKey uint32

func packKey(ux, uy uint16) tileKey {
	return tileKey(uint32(ux)<<16 | uint32(uy))
}

func (k tileKey) coords() (ux, uy uint16) {
	return uint16(uint32(k) >> 16), uint16(uint32(k))
}

// Convert streams every edge out of m, buckets it by tile, sorts each
// tile's edges into intra-tile Hilbert order, sorts the tiles
// themselves into ascending H16 order, and calls emit once per
// non-empty tile in that order — the order Open/MapEdges above expect
// to find in <prefix>.upper.
//
// dense selects a coarser partitioning: edges are split into 256
// buckets keyed by the top 8 bits of their tile's H16 index, bounding
// peak memory use to one bucket at a time for inputs whose tile count
// would otherwise make the single sparse map too large to hold in RAM.
// The two modes produce the same tile order and contents; dense trades
// 256 reads of m for lower peak memory.
func Convert(m EdgeSource, dense bool, emit EmitFunc) error {
	if !dense {
		return convertSparse(m, emit)
	}
	return convertDense(m, emit)
}

func convertSparse(m EdgeSource, emit EmitFunc) error {
	buckets := make(map[tileKey][]LowerPoint)
	var walkErr error
	err := m.MapEdges(func(x, y uint32) {
		if walkErr != nil {
			return
		}
		ux, uy := uint16(x>>16), uint16(y>>16)
		lx, ly := uint16(x), uint16(y)
		orient := hilbert.TileOrientation(ux, uy)
		idx := hilbert.IntraTileIndex(orient, lx, ly)
		k := packKey(ux, uy)
		buckets[k] = append(buckets[k], LowerPoint{LX: lx, LY: ly, idx: idx})
	})
	if err != nil {
		return fmt.Errorf("tilemap: convert: %w", err)
	}
	if walkErr != nil {
		return walkErr
	}
	return emitSortedTiles(buckets, emit)
}

// convertDense makes one pass per bucket of the top 8 bits of H16 (256
// total), re-streaming m each time, so that no single in-memory
// structure ever holds more than one bucket's edges. Buckets are visited
// in ascending order, so tiles come out in ascending H16 order overall.
func convertDense(m EdgeSource, emit EmitFunc) error {
	for hi := 0; hi < 256; hi++ {
		buckets := make(map[tileKey][]LowerPoint)
		err := m.MapEdges(func(x, y uint32) {
			ux, uy := uint16(x>>16), uint16(y>>16)
			if int(hilbert.H16(ux, uy)>>24) != hi {
				return
			}
			lx, ly := uint16(x), uint16(y)
			orient := hilbert.TileOrientation(ux, uy)
			idx := hilbert.IntraTileIndex(orient, lx, ly)
			k := packKey(ux, uy)
			buckets[k] = append(buckets[k], LowerPoint{LX: lx, LY: ly, idx: idx})
		})
		if err != nil {
			return fmt.Errorf("tilemap: convert dense bucket %d: %w", hi, err)
		}
		if len(buckets) == 0 {
			continue
		}
		if err := emitSortedTiles(buckets, emit); err != nil {
			return err
		}
	}
	return nil
}

// Write runs Convert over m and writes the resulting tiles to
// prefix+".upper" and prefix+".lower", in the format Open/MapEdges
// read back.
func Write(prefix string, m EdgeSource, dense bool) error {
	upperFile, err := os.Create(prefix + ".upper")
	if err != nil {
		return fmt.Errorf("tilemap: create upper: %w", err)
	}
	defer upperFile.Close()
	lowerFile, err := os.Create(prefix + ".lower")
	if err != nil {
		return fmt.Errorf("tilemap: create lower: %w", err)
	}
	defer lowerFile.Close()

	uw := bufio.NewWriter(upperFile)
	lw := bufio.NewWriter(lowerFile)

	emit := func(ux, uy uint16, lowers []LowerPoint) error {
		var hdr [upperRecordSize]byte
		binary.LittleEndian.PutUint16(hdr[0:], ux)
		binary.LittleEndian.PutUint16(hdr[2:], uy)
		binary.LittleEndian.PutUint32(hdr[4:], uint32(len(lowers)))
		if _, err := uw.Write(hdr[:]); err != nil {
			return fmt.Errorf("tilemap: write upper record: %w", err)
		}
		var rec [lowerRecordSize]byte
		for _, p := range lowers {
			binary.LittleEndian.PutUint16(rec[0:], p.LX)
			binary.LittleEndian.PutUint16(rec[2:], p.LY)
			if _, err := lw.Write(rec[:]); err != nil {
				return fmt.Errorf("tilemap: write lower record: %w", err)
			}
		}
		return nil
	}

	if err := Convert(m, dense, emit); err != nil {
		return err
	}
	if err := uw.Flush(); err != nil {
		return fmt.Errorf("tilemap: flush upper: %w", err)
	}
	if err := lw.Flush(); err != nil {
		return fmt.Errorf("tilemap: flush lower: %w", err)
	}
	return nil
}

func emitSortedTiles(buckets map[tileKey][]LowerPoint, emit EmitFunc) error {
	keys := make([]tileKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ux1, uy1 := keys[i].coords()
		ux2, uy2 := keys[j].coords()
		return hilbert.H16(ux1, uy1) < hilbert.H16(ux2, uy2)
	})
	for _, k := range keys {
		lowers := buckets[k]
		sort.Slice(lowers, func(i, j int) bool { return lowers[i].idx < lowers[j].idx })
		ux, uy := k.coords()
		if err := emit(ux, uy, lowers); err != nil {
			return err
		}
	}
	return nil
}
