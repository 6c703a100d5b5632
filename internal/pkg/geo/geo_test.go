package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	p := Point{Latitude: 14.5995, Longitude: 120.9842}
	assert.Equal(t, float64(0), HaversineDistance(p, p))
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// Manila City Hall to Rizal Monument, roughly 1.1 km apart.
	cityHall := Point{Latitude: 14.5896, Longitude: 120.9822}
	rizal := Point{Latitude: 14.5825, Longitude: 120.9787}

	d := HaversineDistance(cityHall, rizal)
	assert.InDelta(t, 880, d, 100)
}

func TestHaversineDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	a := Point{Latitude: 0, Longitude: 0}
	b := Point{Latitude: 1, Longitude: 0}

	d := HaversineDistance(a, b)
	assert.InDelta(t, 111195, d, 50)
}

func TestIsWithin(t *testing.T) {
	center := Point{Latitude: 14.5995, Longitude: 120.9842}

	// ~15 m east of center.
	near := Point{Latitude: 14.5995, Longitude: 120.98434}
	// ~1.5 km east of center.
	far := Point{Latitude: 14.5995, Longitude: 120.9982}

	assert.True(t, IsWithin(near, center, 50))
	assert.False(t, IsWithin(far, center, 50))
	assert.True(t, IsWithin(center, center, 0))
}
