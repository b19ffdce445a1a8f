package geohash

import (
	"math/rand"
	"strings"
	"testing"

	mmgeohash "github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  float64
		precision uint
		expected  string
	}{
		{"jutland", 57.64911, 10.40744, 6, "u4pruy"},
		{"origin", 0, 0, 1, "s"},
		{"just below origin", -0.000001, -0.000001, 4, "7zzz"},
		{"sydney", -33.8688, 151.2093, 9, "r3gx2f77b"},
		{"north east corner", 90, 180, 3, "zzz"},
		{"north east corner full precision", 90, 180, 12, "zzzzzzzzzzzz"},
		{"south west corner", -90, -180, 3, "000"},
		{"clamped beyond the poles", 100, 200, 3, "zzz"},
		{"clamped below the poles", -100, -200, 3, "000"},
		{"zero precision", 12.3, 45.6, 0, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hash, err := Encode(test.lat, test.lon, test.precision)
			require.NoError(t, err)
			require.Equal(t, test.expected, hash)
		})
	}
}

func TestEncodeInvalidPrecision(t *testing.T) {
	_, err := Encode(0, 0, MaxPrecision+1)
	require.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestDecode(t *testing.T) {
	box, err := Decode("ezs42")
	require.NoError(t, err)
	require.InDelta(t, 42.583, box.Lat.Min, 0.001)
	require.InDelta(t, 42.627, box.Lat.Max, 0.001)
	require.InDelta(t, -5.625, box.Lon.Min, 0.001)
	require.InDelta(t, -5.581, box.Lon.Max, 0.001)
	require.InDelta(t, 180.0/4096, box.Lat.Width(), 1e-12)
	require.InDelta(t, 360.0/8192, box.Lon.Width(), 1e-12)

	t.Run("whole map", func(t *testing.T) {
		box, err := Decode("")
		require.NoError(t, err)
		require.Equal(t, NewBox(-90, 90, -180, 180), box)
	})

	t.Run("first level cell", func(t *testing.T) {
		box, err := Decode("s")
		require.NoError(t, err)
		require.Equal(t, NewBox(0, 45, 0, 45), box)
	})
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		hash     string
		expected error
	}{
		{"letter a", "u4a", ErrInvalidSymbol},
		{"letter i", "i", ErrInvalidSymbol},
		{"letter l", "l0", ErrInvalidSymbol},
		{"letter o", "0o", ErrInvalidSymbol},
		{"upper case", "U4PRUY", ErrInvalidSymbol},
		{"space", "u4 ", ErrInvalidSymbol},
		{"high byte", "u4\xff", ErrInvalidSymbol},
		{"too long", strings.Repeat("u", MaxPrecision+1), ErrInvalidPrecision},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.hash)
			require.ErrorIs(t, err, test.expected)
		})
	}
}

func TestDecodeCenter(t *testing.T) {
	lat, lon, err := DecodeCenter("s")
	require.NoError(t, err)
	require.Equal(t, 22.5, lat)
	require.Equal(t, 22.5, lon)

	_, _, err = DecodeCenter("a")
	require.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		lat := rnd.Float64()*180 - 90
		lon := rnd.Float64()*360 - 180
		precision := uint(rnd.Intn(MaxPrecision) + 1)

		hash, err := Encode(lat, lon, precision)
		require.NoError(t, err)
		require.Len(t, hash, int(precision))

		box, err := Decode(hash)
		require.NoError(t, err)
		require.Truef(t, box.Contains(lat, lon), "%s %+v does not contain (%v, %v)", hash, box, lat, lon)

		again, err := Encode(lat, lon, precision)
		require.NoError(t, err)
		require.Equal(t, hash, again)
	}
}

func TestEncodeMatchesReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		lat := rnd.Float64()*178 - 89
		lon := rnd.Float64()*358 - 179
		precision := uint(rnd.Intn(MaxPrecision) + 1)

		hash, err := Encode(lat, lon, precision)
		require.NoError(t, err)
		require.Equal(t, mmgeohash.EncodeWithPrecision(lat, lon, precision), hash)

		box, err := Decode(hash)
		require.NoError(t, err)
		ref := mmgeohash.BoundingBox(hash)
		require.InDelta(t, ref.MinLat, box.Lat.Min, 1e-9)
		require.InDelta(t, ref.MaxLat, box.Lat.Max, 1e-9)
		require.InDelta(t, ref.MinLng, box.Lon.Min, 1e-9)
		require.InDelta(t, ref.MaxLng, box.Lon.Max, 1e-9)
	}
}

func TestAlphabetLookup(t *testing.T) {
	seen := make(map[uint8]byte)
	for i := 0; i < len(alphabet); i++ {
		code, ok := symbolCode(alphabet[i])
		require.True(t, ok)
		require.Equal(t, uint8(i), code)
		require.NotContains(t, seen, code)
		seen[code] = alphabet[i]
	}

	valid := 0
	for c := 0; c < 256; c++ {
		if _, ok := symbolCode(byte(c)); ok {
			valid++
		}
	}
	require.Equal(t, len(alphabet), valid)
}

func TestPackUnpackSymbol(t *testing.T) {
	for code := uint8(0); code < 32; code++ {
		three, two := unpackSymbol(code)
		require.Less(t, three, uint32(8))
		require.Less(t, two, uint32(4))
		require.Equal(t, code, packSymbol(three, two))
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(""))
	require.NoError(t, Validate("0123456789bc"))
	require.ErrorIs(t, Validate("0123456789bcd"), ErrInvalidPrecision)
	require.ErrorIs(t, Validate("!"), ErrInvalidSymbol)
}

func TestBox(t *testing.T) {
	box := NewBox(0, 10, 20, 40)
	require.True(t, box.Valid())
	require.True(t, box.Contains(0, 20))
	require.True(t, box.Contains(10, 40))
	require.False(t, box.Contains(10.1, 30))

	lat, lon := box.Center()
	require.Equal(t, 5.0, lat)
	require.Equal(t, 30.0, lon)

	require.True(t, box.Intersects(NewBox(10, 20, 40, 50)))
	require.False(t, box.Intersects(NewBox(11, 20, 0, 50)))
	require.False(t, NewBox(1, 0, 0, 1).Valid())
}
