package models

import "time"

// Coordinate is a latitude/longitude pair. It always comes from a pattern
// embedded in a Maps URL or from a fallback search, never from hand entry.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Unit identifies one (locality, category) search job. It is the granularity
// of checkpointing: a unit is either fully committed or not done at all.
type Unit struct {
	Locality string
	Category string
}

// Keyword returns the search text typed into the Maps search box.
func (u Unit) Keyword() string {
	return u.Locality + " " + u.Category
}

// Place holds one harvested point of interest as read from the result list
// and its detail page. Empty string fields mean the value could not be read;
// a nil Coord means no coordinate could be resolved.
type Place struct {
	Name      string
	Rating    string
	Reviews   string
	URL       string
	Address   string
	Hours     string
	Coord     *Coordinate
	ScrapedAt time.Time
}

// CleanPlace is the read-only projection produced by the cleaning pass.
// Every CleanPlace has a coordinate and a normalized address; Start/End stay
// nil when the hours text matches none of the recognized range shapes.
type CleanPlace struct {
	Name    string
	Rating  string
	Reviews string
	URL     string
	Address string
	Hours   string
	Coord   Coordinate
	City    string
	Start   *time.Time
	End     *time.Time
}
