package persistence

import (
	"context"
	"errors"
	"fmt"

	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type journeyPgRepository struct {
	pool *pgxpool.Pool
}

func NewJourneyPgRepository(pool *pgxpool.Pool) out.JourneyRepository {
	return &journeyPgRepository{pool: pool}
}

func (r *journeyPgRepository) Create(ctx context.Context, j *domain.Journey) error {
	query := `
		INSERT INTO journeys (id, owner_id, name, description, active, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		j.ID, j.OwnerID, j.Name, j.Description, j.Active, j.Completed, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert journey: %w", err)
	}
	return nil
}

func (r *journeyPgRepository) GetByID(ctx context.Context, id string) (*domain.Journey, error) {
	query := `
		SELECT id, owner_id, name, description, active, completed, created_at
		FROM journeys
		WHERE id = $1
	`

	var j domain.Journey
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&j.ID, &j.OwnerID, &j.Name, &j.Description, &j.Active, &j.Completed, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJourneyNotFound
		}
		return nil, fmt.Errorf("query journey: %w", err)
	}
	return &j, nil
}

func (r *journeyPgRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Journey, error) {
	query := `
		SELECT id, owner_id, name, description, active, completed, created_at
		FROM journeys
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query journeys: %w", err)
	}
	defer rows.Close()

	var journeys []domain.Journey
	for rows.Next() {
		var j domain.Journey
		if err := rows.Scan(&j.ID, &j.OwnerID, &j.Name, &j.Description, &j.Active, &j.Completed, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan journey: %w", err)
		}
		journeys = append(journeys, j)
	}
	return journeys, rows.Err()
}

func (r *journeyPgRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE journeys SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update journey active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrJourneyNotFound
	}
	return nil
}

func (r *journeyPgRepository) DeactivateByOwner(ctx context.Context, ownerID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE journeys SET active = false WHERE owner_id = $1 AND active = true`, ownerID)
	if err != nil {
		return fmt.Errorf("deactivate journeys: %w", err)
	}
	return nil
}

func (r *journeyPgRepository) SetCompleted(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE journeys SET completed = true, active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("complete journey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrJourneyNotFound
	}
	return nil
}

func (r *journeyPgRepository) Delete(ctx context.Context, id string) error {
	// Маркеры и запись в journey_positions удаляются каскадом (FK ON DELETE CASCADE)
	result, err := r.pool.Exec(ctx, `DELETE FROM journeys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete journey: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrJourneyNotFound
	}
	return nil
}
