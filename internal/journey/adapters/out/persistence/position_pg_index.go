package persistence

import (
	"context"
	"fmt"

	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"

	"github.com/jackc/pgx/v5/pgxpool"
)

// positionPgIndex — пишущая сторона геоиндекса текущих позиций.
// Одна строка на journey, GiST-индекс по geography-точке.
type positionPgIndex struct {
	pool *pgxpool.Pool
}

func NewPositionPgIndex(pool *pgxpool.Pool) out.PositionIndex {
	return &positionPgIndex{pool: pool}
}

func (r *positionPgIndex) Upsert(ctx context.Context, journeyID string, longitude, latitude float64) error {
	query := `
		INSERT INTO journey_positions (journey_id, position, updated_at)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, now())
		ON CONFLICT (journey_id)
		DO UPDATE SET position = EXCLUDED.position, updated_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, journeyID, longitude, latitude); err != nil {
		return fmt.Errorf("upsert position: %w", err)
	}
	return nil
}

func (r *positionPgIndex) Remove(ctx context.Context, journeyID string) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM journey_positions WHERE journey_id = $1`, journeyID); err != nil {
		return fmt.Errorf("remove position: %w", err)
	}
	return nil
}
