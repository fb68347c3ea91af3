package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"poimap-scraper/models"
)

var placeHeader = []string{
	"name", "rating", "reviews", "url", "address", "hours", "lat", "lng", "scraped_at",
}

var cleanHeader = []string{
	"name", "rating", "reviews", "url", "address", "hours", "lat", "lng",
	"city", "start_time", "end_time",
}

// writePlaces writes the batch to path with a header row. The write goes to
// a temp file first and is renamed into place, so an aborted run never
// leaves a half-written file that would pass for a finished one.
func writePlaces(path string, places []*models.Place) error {
	rows := make([][]string, 0, len(places))
	for _, p := range places {
		lat, lng := "", ""
		if p.Coord != nil {
			lat = strconv.FormatFloat(p.Coord.Lat, 'f', -1, 64)
			lng = strconv.FormatFloat(p.Coord.Lng, 'f', -1, 64)
		}
		scrapedAt := ""
		if !p.ScrapedAt.IsZero() {
			scrapedAt = p.ScrapedAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			p.Name, p.Rating, p.Reviews, p.URL, p.Address, p.Hours, lat, lng, scrapedAt,
		})
	}
	return writeCSV(path, placeHeader, rows)
}

// ReadPlaces loads a places CSV written by writePlaces.
func ReadPlaces(path string) ([]*models.Place, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv: %q has no header row", path)
	}

	places := make([]*models.Place, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(placeHeader) {
			return nil, fmt.Errorf("csv: %q: short row", path)
		}
		p := &models.Place{
			Name:    rec[0],
			Rating:  rec[1],
			Reviews: rec[2],
			URL:     rec[3],
			Address: rec[4],
			Hours:   rec[5],
		}
		if rec[6] != "" && rec[7] != "" {
			lat, latErr := strconv.ParseFloat(rec[6], 64)
			lng, lngErr := strconv.ParseFloat(rec[7], 64)
			if latErr == nil && lngErr == nil {
				p.Coord = &models.Coordinate{Lat: lat, Lng: lng}
			}
		}
		if rec[8] != "" {
			if t, err := time.Parse(time.RFC3339, rec[8]); err == nil {
				p.ScrapedAt = t
			}
		}
		places = append(places, p)
	}
	return places, nil
}

// WriteCleanPlaces writes the cleaned projection to path.
func WriteCleanPlaces(path string, places []*models.CleanPlace) error {
	rows := make([][]string, 0, len(places))
	for _, p := range places {
		start, end := "", ""
		if p.Start != nil {
			start = p.Start.Format(time.RFC3339)
		}
		if p.End != nil {
			end = p.End.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			p.Name, p.Rating, p.Reviews, p.URL, p.Address, p.Hours,
			strconv.FormatFloat(p.Coord.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Coord.Lng, 'f', -1, 64),
			p.City, start, end,
		})
	}
	return writeCSV(path, cleanHeader, rows)
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("csv: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(row)
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("csv: write %q: %w", path, writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("csv: finalize %q: %w", path, err)
	}
	return nil
}
