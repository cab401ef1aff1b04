package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

// Store persists the latest service-status snapshot, one row per route.
type Store interface {
	Upsert(ctx context.Context, statuses []models.RouteStatus) error
	ReadAll(ctx context.Context) ([]models.CachedStatus, error)
}

// PGStore keeps the snapshot in the service_status_cache table.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Upsert overwrites the cached row for every route, timestamped now.
// The table only ever holds the latest snapshot.
func (s *PGStore) Upsert(ctx context.Context, statuses []models.RouteStatus) error {
	now := time.Now()

	batch := &pgx.Batch{}
	for _, rs := range statuses {
		texts := make([]string, 0, len(rs.Messages))
		for _, msg := range rs.Messages {
			texts = append(texts, msg.Text)
		}

		batch.Queue(`
			INSERT INTO service_status_cache (route_id, status, message, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (route_id) DO UPDATE
			SET status = EXCLUDED.status,
			    message = EXCLUDED.message,
			    updated_at = EXCLUDED.updated_at
		`, rs.ID, rs.Status.String(), strings.Join(texts, "|"), now)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert status row %d: %w", i, err)
		}
	}

	return nil
}

// ReadAll returns the most recent snapshot, route by route.
func (s *PGStore) ReadAll(ctx context.Context) ([]models.CachedStatus, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT route_id, status, message, updated_at
		FROM service_status_cache
		ORDER BY route_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to read status cache: %w", err)
	}
	defer rows.Close()

	var cached []models.CachedStatus
	for rows.Next() {
		var cs models.CachedStatus
		if err := rows.Scan(&cs.RouteID, &cs.Status, &cs.Message, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status row: %w", err)
		}
		cached = append(cached, cs)
	}

	return cached, rows.Err()
}
