// Package hilbert implements the pointwise and tile-level Hilbert curve
// bijections over the 32-bit coordinate plane.
//
// Entangle and Detangle operate byte-wise: each coordinate is split into
// four bytes (MSB first) and fed through a precomputed per-orientation
// lookup table, one byte of x and one byte of y at a time. This yields
// the full 64-bit index in four table lookups (eight byte reads) instead
// of thirty-two per-bit steps. The tables are built once in init from a
// small bit-serial reference (step), itself derived from the standard
// xy2d construction with the roles of x and y swapped so that the
// four-point smoke test ((0,0)->0, (1,0)->1, (1,1)->2, (0,1)->3) holds.
package hilbert

// Orientation identifies one of the four rotations/reflections the
// Hilbert construction can be in when it enters a sub-square: the
// identity, a coordinate swap, a coordinate complement, or both. The
// four values form the group Z2 x Z2 (swap and complement commute),
// which is why composing two orientations is a plain XOR.
type Orientation uint8

const (
	identity Orientation = 0
	swapBit  Orientation = 1
	compBit  Orientation = 2
)

type stepResult struct {
	z    uint16
	next Orientation
}

var (
	encodeTable [4][256][256]stepResult
	decodeTable [4][65536]struct {
		x, y uint8
		next Orientation
	}
)

func init() {
	for o := Orientation(0); o < 4; o++ {
		for x := 0; x < 256; x++ {
			for y := 0; y < 256; y++ {
				z, next := step(o, uint8(x), uint8(y))
				encodeTable[o][x][y] = stepResult{z: z, next: next}
				decodeTable[o][z].x = uint8(x)
				decodeTable[o][z].y = uint8(y)
				decodeTable[o][z].next = next
			}
		}
	}
}

// step advances one orientation across the 8 bit-levels of a single byte
// of x and a single byte of y (MSB first), returning the 16 bits of
// Hilbert index those levels contribute and the orientation the next
// byte-step begins in.
func step(orient Orientation, xByte, yByte uint8) (z uint16, next Orientation) {
	swap := orient&swapBit != 0
	comp := orient&compBit != 0
	for s := uint8(0x80); s != 0; s >>= 1 {
		var rawRx, rawRy uint8
		if xByte&s != 0 {
			rawRx = 1
		}
		if yByte&s != 0 {
			rawRy = 1
		}
		effRx, effRy := rawRx, rawRy
		if comp {
			effRx ^= 1
			effRy ^= 1
		}
		if swap {
			effRx, effRy = effRy, effRx
		}
		d := (3 * effRx) ^ effRy
		z = (z << 2) | uint16(d)
		if effRy == 0 {
			if effRx == 1 {
				comp = !comp
			}
			swap = !swap
		}
	}
	if swap {
		next |= swapBit
	}
	if comp {
		next |= compBit
	}
	return z, next
}

// H16 computes the tile-level Hilbert index of a 16-bit x,16-bit y pair.
func H16(ux, uy uint16) uint32 {
	idx, _ := h16WithOrientation(ux, uy)
	return idx
}

func h16WithOrientation(ux, uy uint16) (uint32, Orientation) {
	orient := identity
	var z uint32
	for i := 0; i < 2; i++ {
		shift := uint(8 - 8*i)
		xB := uint8(ux >> shift)
		yB := uint8(uy >> shift)
		r := encodeTable[orient][xB][yB]
		z = (z << 16) | uint32(r.z)
		orient = r.next
	}
	return z, orient
}

// h16Inverse recovers (ux, uy) and the orientation left after consuming
// the tile header, from the upper 32 bits of a Hilbert index.
func h16Inverse(upper uint32) (ux, uy uint16, orient Orientation) {
	orient = identity
	for i := 0; i < 2; i++ {
		shift := uint(16 - 16*i)
		chunk := uint16(upper >> shift)
		e := decodeTable[orient][chunk]
		ux = (ux << 8) | uint16(e.x)
		uy = (uy << 8) | uint16(e.y)
		orient = e.next
	}
	return ux, uy, orient
}

// IntraTileIndex computes the Hilbert index of (lx, ly) within a tile
// that was entered with the given orientation (as returned alongside
// H16 by TileOrientation). Sorting a tile's lower records by this value
// reproduces the same order convert_to_hilbert would emit directly.
func IntraTileIndex(orient Orientation, lx, ly uint16) uint32 {
	var z uint32
	for i := 0; i < 2; i++ {
		shift := uint(8 - 8*i)
		xB := uint8(lx >> shift)
		yB := uint8(ly >> shift)
		r := encodeTable[orient][xB][yB]
		z = (z << 16) | uint32(r.z)
		orient = r.next
	}
	return z
}

// intraTileInverse recovers (lx, ly) from the lower 32 bits of a Hilbert
// index, given the orientation the enclosing tile was entered with.
func intraTileInverse(orient Orientation, lower uint32) (lx, ly uint16) {
	for i := 0; i < 2; i++ {
		shift := uint(16 - 16*i)
		chunk := uint16(lower >> shift)
		e := decodeTable[orient][chunk]
		lx = (lx << 8) | uint16(e.x)
		ly = (ly << 8) | uint16(e.y)
		orient = e.next
	}
	return lx, ly
}

// TileOrientation returns the orientation the tile (ux, uy) is entered
// with, for use with IntraTileIndex when bulk-sorting a tile's edges.
func TileOrientation(ux, uy uint16) Orientation {
	_, orient := h16WithOrientation(ux, uy)
	return orient
}

// Entangle computes z = H(x, y), the Hilbert curve index of (x, y) on
// the 2^32 x 2^32 plane. The upper 32 bits of z depend only on the
// upper 16 bits of x and y; the lower 32 bits depend on the lower 16
// bits (and the tile orientation those upper bits determine).
func Entangle(x, y uint32) uint64 {
	ux, uy := uint16(x>>16), uint16(y>>16)
	lx, ly := uint16(x), uint16(y)
	upper, orient := h16WithOrientation(ux, uy)
	lower := IntraTileIndex(orient, lx, ly)
	return uint64(upper)<<32 | uint64(lower)
}

// Detangle recovers (x, y) from z = H(x, y). Detangle(Entangle(x, y))
// equals (x, y) for every (x, y) in [0, 2^32)^2.
func Detangle(z uint64) (x, y uint32) {
	upper := uint32(z >> 32)
	lower := uint32(z)
	ux, uy, orient := h16Inverse(upper)
	lx, ly := intraTileInverse(orient, lower)
	x = uint32(ux)<<16 | uint32(lx)
	y = uint32(uy)<<16 | uint32(ly)
	return x, y
}
