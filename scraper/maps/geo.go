package maps

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"poimap-scraper/browser"
	"poimap-scraper/config"
	"poimap-scraper/models"
)

// coordPattern matches the coordinate pair Maps embeds in canonical URLs.
var coordPattern = regexp.MustCompile(`!3d([\d.]+)!4d([\d.]+)`)

// ExtractStatus tells why extraction yielded no coordinate. Both miss
// variants resolve to "not found" for control flow; the distinction only
// feeds diagnostics.
type ExtractStatus int

const (
	CoordFound ExtractStatus = iota
	CoordNoMarkers
	CoordMalformed
)

// ExtractCoordinate pulls the embedded !3d/!4d pair out of a Maps URL.
func ExtractCoordinate(rawURL string) (models.Coordinate, ExtractStatus) {
	if !strings.Contains(rawURL, "!3d") || !strings.Contains(rawURL, "!4d") {
		return models.Coordinate{}, CoordNoMarkers
	}

	m := coordPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return models.Coordinate{}, CoordMalformed
	}

	lat, latErr := strconv.ParseFloat(m[1], 64)
	lng, lngErr := strconv.ParseFloat(m[2], 64)
	if latErr != nil || lngErr != nil {
		return models.Coordinate{}, CoordMalformed
	}

	return models.Coordinate{Lat: lat, Lng: lng}, CoordFound
}

// SearchFunc runs a fresh interactive search for a place name and returns
// the canonical URL the session lands on.
type SearchFunc func(name string) (string, error)

// Resolver assigns coordinates to harvested places: first from the source
// URL, then through a fallback re-search keyed by the place name.
type Resolver struct {
	search SearchFunc
	log    zerolog.Logger
}

// NewResolver creates a Resolver using the given fallback search.
func NewResolver(search SearchFunc, log zerolog.Logger) *Resolver {
	return &Resolver{search: search, log: log}
}

// Resolve fills in coordinates for the whole batch and reports how many
// places resolved and how many stayed unresolved. Unresolved places keep a
// nil coordinate and survive the harvest; the cleaning pass drops them later.
func (r *Resolver) Resolve(places []*models.Place) (resolved, unresolved int) {
	for _, p := range places {
		if r.resolveOne(p) {
			resolved++
		} else {
			unresolved++
		}
	}
	return resolved, unresolved
}

func (r *Resolver) resolveOne(p *models.Place) bool {
	coord, status := ExtractCoordinate(p.URL)
	if status == CoordFound {
		p.Coord = &coord
		return true
	}

	switch status {
	case CoordMalformed:
		r.log.Warn().Str("url", p.URL).Msg("coordinate markers present but unparseable")
	case CoordNoMarkers:
		r.log.Debug().Str("url", p.URL).Msg("url carries no coordinate markers")
	}

	// placeholder rows have no name to search for
	if p.Name == "" {
		return false
	}

	landed, err := r.search(p.Name)
	if err != nil {
		r.log.Warn().Err(err).Str("name", p.Name).Msg("fallback search failed")
		return false
	}

	coord, status = ExtractCoordinate(landed)
	if status != CoordFound {
		r.log.Warn().Str("name", p.Name).Str("url", landed).Msg("place left unresolved")
		return false
	}

	p.Coord = &coord
	return true
}

// how long the fallback session waits for Maps to settle on a canonical URL
const fallbackSettle = 2 * time.Second

// FallbackSearch returns a SearchFunc that opens a throwaway headless
// session, searches for the name, and reports the URL Maps redirects to.
func FallbackSearch(cfg *config.Config, log zerolog.Logger) SearchFunc {
	return func(name string) (string, error) {
		agent, err := browser.Open(true)
		if err != nil {
			return "", fmt.Errorf("maps: fallback session: %w", err)
		}
		defer agent.Close()

		if err := agent.Navigate(cfg.MapsURL); err != nil {
			return "", err
		}

		h := NewHarvester(agent, cfg, log)
		if err := h.Search(name); err != nil {
			return "", err
		}
		time.Sleep(fallbackSettle)

		return agent.CurrentURL()
	}
}
