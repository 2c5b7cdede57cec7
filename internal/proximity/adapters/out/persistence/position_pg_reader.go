package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jacantwell/kairos-backend/internal/proximity/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
)

// positionPgReader читает геоиндекс текущих позиций (PostGIS)
type positionPgReader struct {
	pool *pgxpool.Pool
}

func NewPositionPgReader(pool *pgxpool.Pool) out.PositionReader {
	return &positionPgReader{pool: pool}
}

func (r *positionPgReader) Origin(ctx context.Context, journeyID string) (*domain.Origin, error) {
	query := `
		SELECT j.owner_id,
		       ST_X(p.position::geometry),
		       ST_Y(p.position::geometry)
		FROM journeys j
		LEFT JOIN journey_positions p ON p.journey_id = j.id
		WHERE j.id = $1`

	var (
		ownerID  string
		lon, lat *float64
	)
	err := r.pool.QueryRow(ctx, query, journeyID).Scan(&ownerID, &lon, &lat)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("query origin: %w", err)
	}

	origin := &domain.Origin{
		JourneyID: journeyID,
		OwnerID:   ownerID,
	}
	if lon != nil && lat != nil {
		origin.Position = &domain.Position{Longitude: *lon, Latitude: *lat}
	}
	return origin, nil
}

func (r *positionPgReader) Near(ctx context.Context, origin domain.Position, radiusMeters float64, limit int, excludeJourneyID string) ([]domain.Neighbor, error) {
	// geography: ST_DWithin и ST_Distance считают метры по сфере
	query := `
		SELECT journey_id,
		       ST_X(position::geometry),
		       ST_Y(position::geometry),
		       ST_Distance(position, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance_meters
		FROM journey_positions
		WHERE journey_id <> $3
		  AND ST_DWithin(position, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $4)
		ORDER BY distance_meters ASC, journey_id ASC
		LIMIT $5`

	rows, err := r.pool.Query(ctx, query, origin.Longitude, origin.Latitude, excludeJourneyID, radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("query neighbors: %w", err)
	}
	defer rows.Close()

	neighbors := make([]domain.Neighbor, 0)
	for rows.Next() {
		var n domain.Neighbor
		if err := rows.Scan(&n.JourneyID, &n.Position.Longitude, &n.Position.Latitude, &n.DistanceMeters); err != nil {
			return nil, fmt.Errorf("scan neighbor: %w", err)
		}
		neighbors = append(neighbors, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate neighbors: %w", err)
	}

	return neighbors, nil
}
