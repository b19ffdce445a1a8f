package geohash

import (
	"fmt"
	"strings"
)

// Direction is a compass direction between edge-adjacent cells.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = [...]string{"north", "south", "east", "west"}

func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection accepts a direction name or its first letter, in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "north", "n":
		return North, nil
	case "south", "s":
		return South, nil
	case "east", "e":
		return East, nil
	case "west", "w":
		return West, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// neighbors[d][odd][code] is the symbol next to alphabet[code] in direction d.
// odd is 1 for symbols at even 0-based positions (1st, 3rd, ...).
var neighbors = [4][2]string{
	North: {"14365h7k9dcfesgujnmqp0r2twvyx8zb", "238967debc01fg45kmstqrwxuvhjyznp"},
	South: {"p0r21436x8zb9dcf5h7kjnmqesgutwvy", "bc01fg45238967deuvhjyznpkmstqrwx"},
	East:  {"238967debc01fg45kmstqrwxuvhjyznp", "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	West:  {"bc01fg45238967deuvhjyznpkmstqrwx", "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
}

// borders[d][odd] lists the symbols whose neighbour in direction d wraps
// around and carries into the previous symbol.
var borders = [4][2]string{
	North: {"prxz", "bcfguvyz"},
	South: {"028b", "0145hjnp"},
	East:  {"bcfguvyz", "prxz"},
	West:  {"0145hjnp", "028b"},
}

// borderMasks[d][odd] has bit c set when alphabet[c] is a border symbol.
var borderMasks [4][2]uint32

func init() {
	for d := range borders {
		for odd, set := range borders[d] {
			for i := 0; i < len(set); i++ {
				code, _ := symbolCode(set[i])
				borderMasks[d][odd] |= 1 << code
			}
		}
	}
}

// Adjacent returns the cell of the same precision next to hash in direction dir.
// It fails with ErrEndOfMap when no such cell exists, including for the empty hash.
func Adjacent(hash string, dir Direction) (string, error) {
	if dir < North || dir > West {
		return "", fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
	if err := Validate(hash); err != nil {
		return "", err
	}

	buf := []byte(hash)
	for i := len(buf) - 1; i >= 0; i-- {
		odd := (i + 1) % 2
		code, _ := symbolCode(buf[i])
		buf[i] = neighbors[dir][odd][code]
		if borderMasks[dir][odd]&(1<<code) == 0 {
			return string(buf), nil
		}
	}
	return "", fmt.Errorf("%w: %s of %q", ErrEndOfMap, dir, hash)
}

var compass = [...][]Direction{
	{North}, {North, East}, {East}, {South, East},
	{South}, {South, West}, {West}, {North, West},
}

// Neighbors returns the up to eight cells around hash, clockwise from north:
// N, NE, E, SE, S, SW, W, NW. Cells beyond the edge of the map are skipped.
func Neighbors(hash string) ([]string, error) {
	if err := Validate(hash); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(compass))
	for _, steps := range compass {
		if cell, ok := walk(hash, steps); ok {
			out = append(out, cell)
		}
	}
	return out, nil
}

func walk(hash string, steps []Direction) (string, bool) {
	cell := hash
	for _, dir := range steps {
		next, err := Adjacent(cell, dir)
		if err != nil {
			return "", false
		}
		cell = next
	}
	return cell, true
}
