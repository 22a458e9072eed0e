package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"guitar-scraper/models"
)

// PostgresWriter persists cleaned guitar sales to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
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
		CREATE TABLE IF NOT EXISTS guitar_sales (
			id          SERIAL PRIMARY KEY,
			final       NUMERIC(12,2) NOT NULL,
			asking      NUMERIC(12,2),
			name        TEXT NOT NULL,
			sale_date   TEXT NOT NULL DEFAULT '',
			condition   TEXT NOT NULL DEFAULT '',
			brand       TEXT NOT NULL,
			model_year  INT,
			model_color TEXT NOT NULL DEFAULT 'NA',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_guitar_sales_brand ON guitar_sales(brand);
		CREATE INDEX IF NOT EXISTS idx_guitar_sales_final ON guitar_sales(final);
		CREATE INDEX IF NOT EXISTS idx_guitar_sales_year  ON guitar_sales(model_year);
	`)
	return err
}

// Clear deletes all existing sales from the table. Each transform run
// replaces the previous dataset wholesale.
func (pw *PostgresWriter) Clear() error {
	if _, err := pw.db.Exec("DELETE FROM guitar_sales"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write batch-inserts all cleaned rows, clearing old data first.
func (pw *PostgresWriter) Write(rows []models.CleanedRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.insertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []models.CleanedRow) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*8)

	for idx := range batch {
		r := &batch[idx]
		base := idx * 8
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))

		asking := sql.NullFloat64{Float64: r.Asking, Valid: r.HasAsking()}
		year := sql.NullInt64{Int64: int64(r.ModelYear), Valid: r.HasYear()}
		valueArgs = append(valueArgs,
			r.Final, asking, r.Name, r.Date, r.Condition, r.Brand, year, r.ModelColor)
	}

	query := fmt.Sprintf(`
		INSERT INTO guitar_sales (final, asking, name, sale_date, condition, brand, model_year, model_color)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored sales — used by the insight service.
func (pw *PostgresWriter) FetchAll() ([]models.CleanedRow, error) {
	dbRows, err := pw.db.Query(`
		SELECT final, asking, name, sale_date, condition, brand, model_year, model_color
		FROM guitar_sales
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer dbRows.Close()

	var rows []models.CleanedRow
	for dbRows.Next() {
		var r models.CleanedRow
		var asking sql.NullFloat64
		var year sql.NullInt64
		if err := dbRows.Scan(
			&r.Final, &asking, &r.Name, &r.Date, &r.Condition,
			&r.Brand, &year, &r.ModelColor,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		r.Asking = math.NaN()
		if asking.Valid {
			r.Asking = asking.Float64
		}
		if year.Valid {
			r.ModelYear = int(year.Int64)
		}
		rows = append(rows, r)
	}
	return rows, dbRows.Err()
}
