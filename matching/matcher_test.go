package matching

import (
	"geohash-service/geohash"
	"geohash-service/geoindex"
	"geohash-service/models"
	"testing"

	"github.com/stretchr/testify/require"
)

type cellMap map[string][]models.Point

func (m cellMap) Cell(hash string) ([]models.Point, error) {
	return m[hash], nil
}

func TestFindInNeighborhood(t *testing.T) {
	lookup := cellMap{
		"u4prvn": {{ID: "east", Tags: map[string]string{"status": "available"}}},
		"u4pruz": {{ID: "north", Tags: map[string]string{"status": "on_trip"}}},
	}

	p, err := FindInNeighborhood(lookup, 57.64911, 10.40744, 6, nil)
	require.NoError(t, err)
	require.Equal(t, "north", p.ID)

	p, err = FindInNeighborhood(lookup, 57.64911, 10.40744, 6, MatchTags(map[string]string{"status": "available"}))
	require.NoError(t, err)
	require.Equal(t, "east", p.ID)

	_, err = FindInNeighborhood(lookup, 57.64911, 10.40744, 6, MatchTags(map[string]string{"status": "offline"}))
	require.ErrorIs(t, err, ErrNoMatch)
}

func TestFindInNeighborhoodOwnCellFirst(t *testing.T) {
	lookup := cellMap{
		"u4pruy": {{ID: "here"}},
		"u4pruz": {{ID: "north"}},
	}
	p, err := FindInNeighborhood(lookup, 57.64911, 10.40744, 6, nil)
	require.NoError(t, err)
	require.Equal(t, "here", p.ID)
}

func TestFindInNeighborhoodInvalidPrecision(t *testing.T) {
	_, err := FindInNeighborhood(cellMap{}, 0, 0, 13, nil)
	require.Error(t, err)
}

func TestCellsOverIndex(t *testing.T) {
	for _, technique := range []geoindex.Technique{geoindex.GeohashingTechnique, geoindex.RTreeTechnique, geoindex.QuadtreeTechnique} {
		t.Run(string(technique), func(t *testing.T) {
			idx, err := geoindex.New(technique, geoindex.Options{Precision: 8, SearchCellLimit: 4096})
			require.NoError(t, err)
			require.NoError(t, idx.Insert(models.Point{ID: "inside", Latitude: 57.648, Longitude: 10.41}))
			require.NoError(t, idx.Insert(models.Point{ID: "north", Latitude: 57.653, Longitude: 10.41}))

			lookup := Cells(idx)
			points, err := lookup.Cell("u4pruy")
			require.NoError(t, err)
			require.Len(t, points, 1)
			require.Equal(t, "inside", points[0].ID)

			_, err = lookup.Cell("not a hash")
			require.ErrorIs(t, err, geohash.ErrInvalidSymbol)

			p, err := FindInNeighborhood(lookup, 57.64911, 10.40744, 6, MatchTags(nil))
			require.NoError(t, err)
			require.Equal(t, "inside", p.ID)
		})
	}
}

func TestFindInNeighborhoodCellsLimit(t *testing.T) {
	idx, err := geoindex.New(geoindex.GeohashingTechnique, geoindex.Options{Precision: 6, SearchCellLimit: 4096})
	require.NoError(t, err)
	require.NoError(t, idx.Insert(models.Point{ID: "here", Latitude: 57.64911, Longitude: 10.40744}))

	// a two-symbol cell spans far more six-symbol cells than the index may enumerate
	p, err := FindInNeighborhood(Cells(idx), 57.64911, 10.40744, 2, nil)
	require.ErrorIs(t, err, geohash.ErrCellsLimitExceeded)
	require.NotErrorIs(t, err, ErrNoMatch)
	require.Nil(t, p)
}

func TestFindInNeighborhoodCellIndex(t *testing.T) {
	idx := geoindex.NewCellIndex(6, 64)
	require.NoError(t, idx.Insert(models.Point{ID: "north", Latitude: 57.6535, Longitude: 10.41}))

	p, err := FindInNeighborhood(idx, 57.64911, 10.40744, 6, nil)
	require.NoError(t, err)
	require.Equal(t, "north", p.ID)

	_, err = FindInNeighborhood(idx, 57.64911, 10.40744, 5, nil)
	require.ErrorIs(t, err, geohash.ErrInvalidPrecision)
}
