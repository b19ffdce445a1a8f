package geohash

import "fmt"

const alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// symbolCodes maps every byte to its 5-bit code, or -1 if it is not a symbol.
var symbolCodes [256]int8

func init() {
	for i := range symbolCodes {
		symbolCodes[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		symbolCodes[alphabet[i]] = int8(i)
	}
}

func symbolCode(c byte) (uint8, bool) {
	code := symbolCodes[c]
	if code < 0 {
		return 0, false
	}
	return uint8(code), true
}

// Validate checks the length and every symbol of hash.
func Validate(hash string) error {
	if len(hash) > MaxPrecision {
		return fmt.Errorf("%w: length %d exceeds %d", ErrInvalidPrecision, len(hash), MaxPrecision)
	}
	for i := 0; i < len(hash); i++ {
		if _, ok := symbolCode(hash[i]); !ok {
			return fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, hash[i], i)
		}
	}
	return nil
}
