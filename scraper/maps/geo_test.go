package maps

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"poimap-scraper/models"
)

func TestExtractCoordinate(t *testing.T) {
	tests := []struct {
		url    string
		status ExtractStatus
		coord  models.Coordinate
	}{
		{
			url:    "https://www.google.com/maps/place/x/data=!3d24.1477!4d120.6736!16s",
			status: CoordFound,
			coord:  models.Coordinate{Lat: 24.1477, Lng: 120.6736},
		},
		{
			url:    "https://www.google.com/maps/place/no-coords-here",
			status: CoordNoMarkers,
		},
		{
			// markers present but nothing parseable after them
			url:    "https://www.google.com/maps/place/x/data=!3d!4d!16s",
			status: CoordMalformed,
		},
		{
			url:    "https://www.google.com/maps/place/x/data=!3d25.033!16s",
			status: CoordNoMarkers,
		},
	}

	for _, tt := range tests {
		coord, status := ExtractCoordinate(tt.url)
		assert.Equal(t, tt.status, status, "url: %s", tt.url)
		if tt.status == CoordFound {
			assert.Equal(t, tt.coord, coord, "url: %s", tt.url)
		}
	}
}

func TestResolveFromSourceURL(t *testing.T) {
	searched := false
	r := NewResolver(func(string) (string, error) {
		searched = true
		return "", nil
	}, zerolog.Nop())

	p := &models.Place{Name: "A", URL: "https://maps/!3d25.04!4d121.53"}
	resolved, unresolved := r.Resolve([]*models.Place{p})

	assert.Equal(t, 1, resolved)
	assert.Zero(t, unresolved)
	assert.False(t, searched, "fallback must not run when the source URL resolves")
	assert.Equal(t, &models.Coordinate{Lat: 25.04, Lng: 121.53}, p.Coord)
}

func TestResolveFallsBackToSearch(t *testing.T) {
	var queried string
	r := NewResolver(func(name string) (string, error) {
		queried = name
		return "https://maps/landed/!3d22.62!4d120.30", nil
	}, zerolog.Nop())

	p := &models.Place{Name: "駁二藝術特區", URL: "https://maps/no-coords"}
	resolved, _ := r.Resolve([]*models.Place{p})

	assert.Equal(t, 1, resolved)
	assert.Equal(t, "駁二藝術特區", queried, "fallback searches by place name")
	assert.Equal(t, &models.Coordinate{Lat: 22.62, Lng: 120.30}, p.Coord)
}

func TestResolveKeepsUnresolvedPlaces(t *testing.T) {
	r := NewResolver(func(string) (string, error) {
		return "", fmt.Errorf("search failed")
	}, zerolog.Nop())

	places := []*models.Place{
		{Name: "No Luck", URL: "https://maps/no-coords"},
		{}, // placeholder row has no name to search for
	}
	resolved, unresolved := r.Resolve(places)

	assert.Zero(t, resolved)
	assert.Equal(t, 2, unresolved)
	for _, p := range places {
		assert.Nil(t, p.Coord, "unresolved places keep a nil coordinate")
	}
}
