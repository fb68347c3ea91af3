package services

import (
	"strings"

	"github.com/rs/zerolog"

	"poimap-scraper/models"
)

// Cleaner turns the merged raw dataset into the cleaned projection: rows
// without a coordinate or an address are dropped, the rest get a normalized
// address, a derived locality, and parsed start/end times.
type Cleaner struct {
	log zerolog.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(log zerolog.Logger) *Cleaner {
	return &Cleaner{log: log}
}

// Clean derives the cleaned dataset. The raw places are never mutated.
func (c *Cleaner) Clean(raw []*models.Place) []*models.CleanPlace {
	out := make([]*models.CleanPlace, 0, len(raw))
	droppedCoord, droppedAddr, unparsedTimes := 0, 0, 0

	for _, p := range raw {
		if p.Coord == nil {
			droppedCoord++
			continue
		}
		if strings.TrimSpace(p.Address) == "" {
			droppedAddr++
			continue
		}

		address := NormalizeAddress(p.Address)
		clean := &models.CleanPlace{
			Name:    p.Name,
			Rating:  p.Rating,
			Reviews: p.Reviews,
			URL:     p.URL,
			Address: address,
			Hours:   p.Hours,
			Coord:   *p.Coord,
			City:    ExtractLocality(address),
		}

		if start, end, ok := ParseTimeSpan(p.Hours); ok {
			clean.Start = &start
			clean.End = &end
		} else {
			// row survives with null times
			unparsedTimes++
		}

		out = append(out, clean)
	}

	c.log.Info().
		Int("in", len(raw)).
		Int("out", len(out)).
		Int("dropped_no_coordinate", droppedCoord).
		Int("dropped_no_address", droppedAddr).
		Int("unparsed_times", unparsedTimes).
		Msg("cleaning pass done")
	return out
}
