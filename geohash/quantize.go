package geohash

// grid describes how a precision splits its 5·p bits between the two axes.
//
// Symbols are built least significant first from two accumulators: one
// donates three bits to the symbol and the other two, and the roles swap
// after every symbol. For odd precisions latitude donates two bits to the
// last symbol, for even precisions longitude does.
type grid struct {
	latBits  uint
	lonBits  uint
	latLeads bool
}

func gridFor(precision uint) grid {
	half := precision / 2 * 5
	if precision%2 == 1 {
		return grid{latBits: half + 2, lonBits: half + 3, latLeads: true}
	}
	return grid{latBits: half, lonBits: half}
}

func (g grid) latSize() uint32 {
	return 1 << g.latBits
}

func (g grid) lonSize() uint32 {
	return 1 << g.lonBits
}

// toAxes orders the axis indices as (two-bit donor, three-bit donor) for the last symbol.
func (g grid) toAxes(lat, lon uint32) (uint32, uint32) {
	if g.latLeads {
		return lat, lon
	}
	return lon, lat
}

func (g grid) fromAxes(a0, a1 uint32) (lat, lon uint32) {
	if g.latLeads {
		return a0, a1
	}
	return a1, a0
}

func (g grid) quantize(lat, lon float64) (latIdx, lonIdx uint32) {
	return quantizeLat(lat, g.latSize()), quantizeLon(lon, g.lonSize())
}

// quantizeLat maps a latitude onto [0, size). NaN and infinities are not supported.
func quantizeLat(lat float64, size uint32) uint32 {
	return quantize(lat, 180, size)
}

// quantizeLon maps a longitude onto [0, size). NaN and infinities are not supported.
func quantizeLon(lon float64, size uint32) uint32 {
	return quantize(lon, 360, size)
}

func quantize(v, span float64, size uint32) uint32 {
	half := span / 2
	if v >= half {
		return size - 1
	}
	if v <= -half {
		return 0
	}
	idx := uint32((v + half) * float64(size) / span)
	if idx >= size {
		idx = size - 1
	}
	return idx
}
