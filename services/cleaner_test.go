package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poimap-scraper/models"
)

func rawPlace(name, address string) *models.Place {
	return &models.Place{
		Name:    name,
		URL:     "https://maps/" + name,
		Address: address,
		Coord:   &models.Coordinate{Lat: 25.03, Lng: 121.56},
	}
}

func TestCleanDropsUnusableRows(t *testing.T) {
	cleaner := NewCleaner(zerolog.Nop())

	noCoord := rawPlace("no-coord", "台北市信義區信義路五段7號")
	noCoord.Coord = nil
	noAddr := rawPlace("no-addr", "   ")
	keeper := rawPlace("keeper", "台北市信義區信義路五段7號")

	out := cleaner.Clean([]*models.Place{noCoord, noAddr, keeper})

	require.Len(t, out, 1)
	assert.Equal(t, "keeper", out[0].Name)
}

func TestCleanNormalizesAndDerivesCity(t *testing.T) {
	cleaner := NewCleaner(zerolog.Nop())

	raw := rawPlace("店家", "台灣台北市信義區 3F")
	out := cleaner.Clean([]*models.Place{raw})

	require.Len(t, out, 1)
	assert.Equal(t, "台北市信義區3樓", out[0].Address)
	assert.Equal(t, "台北市", out[0].City)

	// the raw row itself is untouched
	assert.Equal(t, "台灣台北市信義區 3F", raw.Address)
}

func TestCleanParsesHours(t *testing.T) {
	cleaner := NewCleaner(zerolog.Nop())

	timed := rawPlace("timed", "台北市信義區信義路五段7號")
	timed.Hours = "2024.05.01(Wed) 18:00 - 20:00"
	freeForm := rawPlace("free-form", "台北市信義區信義路五段7號")
	freeForm.Hours = "每週末營業"

	out := cleaner.Clean([]*models.Place{timed, freeForm})
	require.Len(t, out, 2)

	require.NotNil(t, out[0].Start)
	require.NotNil(t, out[0].End)
	assert.Equal(t, time.Date(2024, time.May, 1, 18, 0, 0, 0, time.UTC), *out[0].Start)
	assert.Equal(t, time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC), *out[0].End)

	// free-form hours keep the row, with null times
	assert.Nil(t, out[1].Start)
	assert.Nil(t, out[1].End)
	assert.Equal(t, "每週末營業", out[1].Hours)
}
