package geohash

import "fmt"

// packSymbol builds a 5-bit code: the three-bit donor fills bits 0, 2 and 4,
// the two-bit donor fills bits 1 and 3. Higher bits of both are ignored.
func packSymbol(three, two uint32) uint8 {
	return uint8(three&1 | two<<1&2 | three<<1&4 | two<<2&8 | three<<2&16)
}

// unpackSymbol is the inverse of packSymbol.
func unpackSymbol(code uint8) (three, two uint32) {
	c := uint32(code)
	return c&1 | c>>1&2 | c>>2&4, c>>1&1 | c>>2&2
}

// interleave writes precision symbols, last one first, consuming the low
// bits of both axes and swapping their roles after every symbol.
func interleave(a0, a1 uint32, precision uint) string {
	buf := make([]byte, precision)
	for i := int(precision) - 1; i >= 0; i-- {
		buf[i] = alphabet[packSymbol(a1, a0)]
		a0, a1 = a1>>3, a0>>2
	}
	return string(buf)
}

// deinterleave reverses interleave. hash must already be validated.
func deinterleave(hash string) (a0, a1 uint32) {
	for i := 0; i < len(hash); i++ {
		code, _ := symbolCode(hash[i])
		three, two := unpackSymbol(code)
		a0, a1 = a1<<2|two, a0<<3|three
	}
	return a0, a1
}

func checkPrecision(precision uint) error {
	if precision > MaxPrecision {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidPrecision, precision, MaxPrecision)
	}
	return nil
}

// Encode returns the geohash of precision symbols for the given point.
// Coordinates outside [-90, 90] and [-180, 180] are clamped to the edge cells.
func Encode(lat, lon float64, precision uint) (string, error) {
	if err := checkPrecision(precision); err != nil {
		return "", err
	}
	g := gridFor(precision)
	latIdx, lonIdx := g.quantize(lat, lon)
	return encodeIndex(g, latIdx, lonIdx, precision), nil
}

func encodeIndex(g grid, latIdx, lonIdx uint32, precision uint) string {
	a0, a1 := g.toAxes(latIdx, lonIdx)
	return interleave(a0, a1, precision)
}

// Decode returns the cell denoted by hash. The empty hash denotes the whole map.
func Decode(hash string) (Box, error) {
	if err := Validate(hash); err != nil {
		return Box{}, err
	}
	g := gridFor(uint(len(hash)))
	latIdx, lonIdx := g.fromAxes(deinterleave(hash))

	cellHeight := 180 / float64(g.latSize())
	cellWidth := 360 / float64(g.lonSize())
	latMin := float64(latIdx)*cellHeight - 90
	lonMin := float64(lonIdx)*cellWidth - 180

	return NewBox(latMin, latMin+cellHeight, lonMin, lonMin+cellWidth), nil
}

// DecodeCenter returns the midpoint of the cell denoted by hash.
func DecodeCenter(hash string) (lat, lon float64, err error) {
	box, err := Decode(hash)
	if err != nil {
		return 0, 0, err
	}
	lat, lon = box.Center()
	return lat, lon, nil
}
