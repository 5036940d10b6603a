package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mishwar/go-mishwar/internal/models"
)

// PostgresAdapter keeps both collections in one key-value table. The
// collection stays a JSON document rather than one row per booking: the
// store always saves a whole collection at a time, so a document upsert
// matches the write pattern exactly.
type PostgresAdapter struct {
	db *sqlx.DB
}

func NewPostgresAdapter(db *sqlx.DB) (*PostgresAdapter, error) {
	schema := `
		CREATE TABLE IF NOT EXISTS booking_collections (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure booking_collections table: %w", err)
	}
	return &PostgresAdapter{db: db}, nil
}

func (a *PostgresAdapter) Load(ctx context.Context, key string) (map[string]*models.BookingRecord, error) {
	var payload []byte
	query := `SELECT payload FROM booking_collections WHERE key = $1`
	err := a.db.GetContext(ctx, &payload, query, key)
	if err == sql.ErrNoRows {
		return map[string]*models.BookingRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	collection := map[string]*models.BookingRecord{}
	if err := json.Unmarshal(payload, &collection); err != nil {
		return nil, fmt.Errorf("corrupt collection %s: %w", key, err)
	}
	return collection, nil
}

func (a *PostgresAdapter) Save(ctx context.Context, key string, collection map[string]*models.BookingRecord) error {
	payload, err := json.Marshal(collection)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO booking_collections (key, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET payload = $2, updated_at = $3
	`
	_, err = a.db.ExecContext(ctx, query, key, payload, time.Now())
	return err
}
