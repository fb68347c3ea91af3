package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"poimap-scraper/models"
)

// CleanPlaceWriter is the interface the cleaning pipeline writes through.
type CleanPlaceWriter interface {
	Write(places []*models.CleanPlace) error
	Close() error
}

// PostgresWriter persists the cleaned dataset to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

var _ CleanPlaceWriter = (*PostgresWriter)(nil)

// NewPostgresWriter opens a connection, runs the schema migration, and
// returns a ready-to-use writer.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS places (
			id         SERIAL PRIMARY KEY,
			name       TEXT         NOT NULL,
			rating     TEXT         NOT NULL DEFAULT '',
			reviews    TEXT         NOT NULL DEFAULT '',
			url        TEXT         UNIQUE NOT NULL,
			address    TEXT         NOT NULL,
			hours      TEXT         NOT NULL DEFAULT '',
			latitude   NUMERIC(10,7) NOT NULL,
			longitude  NUMERIC(10,7) NOT NULL,
			city       TEXT         NOT NULL DEFAULT '',
			start_time TIMESTAMPTZ  NULL,
			end_time   TIMESTAMPTZ  NULL,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_places_city ON places(city);
		CREATE INDEX IF NOT EXISTS idx_places_start_time ON places(start_time);
	`)
	return err
}

// Clear deletes all existing rows.
func (pw *PostgresWriter) Clear() error {
	if _, err := pw.db.Exec("DELETE FROM places"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the stored dataset with the given cleaned places.
func (pw *PostgresWriter) Write(places []*models.CleanPlace) error {
	if len(places) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(places); i += batchSize {
		end := i + batchSize
		if end > len(places) {
			end = len(places)
		}
		if err := pw.insertBatch(places[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.CleanPlace) error {
	const cols = 11
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, p := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			p.Name, p.Rating, p.Reviews, p.URL, p.Address, p.Hours,
			p.Coord.Lat, p.Coord.Lng, p.City, p.Start, p.End)
	}

	query := fmt.Sprintf(`
		INSERT INTO places (name, rating, reviews, url, address, hours, latitude, longitude, city, start_time, end_time)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
