package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const markerColumns = `id, journey_id, kind, longitude, latitude, name, notes,
	happened_at, estimated_at, sequence_index, created_at`

type markerPgRepository struct {
	pool *pgxpool.Pool
}

func NewMarkerPgRepository(pool *pgxpool.Pool) out.MarkerRepository {
	return &markerPgRepository{pool: pool}
}

// Put вставляет маркер на свободный индекс. Конкурентный писатель,
// занявший тот же индекс, проявляется как 23505 -> ErrSequenceConflict,
// дальше арбитром выступает уникальный constraint, не блокировка.
func (r *markerPgRepository) Put(ctx context.Context, m *domain.Marker) error {
	if err := domain.ValidateCoordinate(m.Longitude, m.Latitude); err != nil {
		return err
	}

	query := `
		INSERT INTO markers (` + markerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.JourneyID, string(m.Kind), m.Longitude, m.Latitude,
		m.Name, m.Notes, m.HappenedAt, m.EstimatedAt, m.SequenceIndex, m.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// InsertAt сдвигает хвост последовательности и вставляет маркер в одной
// транзакции. Advisory lock сериализует конкурентные вставки в один journey;
// уникальный constraint объявлен DEFERRABLE, поэтому промежуточное состояние
// сдвига внутри транзакции не конфликтует.
func (r *markerPgRepository) InsertAt(ctx context.Context, m *domain.Marker) error {
	if err := domain.ValidateCoordinate(m.Longitude, m.Latitude); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, m.JourneyID); err != nil {
		return fmt.Errorf("acquire journey lock: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE markers
		SET sequence_index = sequence_index + 1
		WHERE journey_id = $1 AND sequence_index >= $2
	`, m.JourneyID, m.SequenceIndex); err != nil {
		return fmt.Errorf("shift sequence: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO markers (`+markerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		m.ID, m.JourneyID, string(m.Kind), m.Longitude, m.Latitude,
		m.Name, m.Notes, m.HappenedAt, m.EstimatedAt, m.SequenceIndex, m.CreatedAt); err != nil {
		return mapWriteError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *markerPgRepository) GetSequence(ctx context.Context, journeyID string) ([]domain.Marker, error) {
	query := `
		SELECT ` + markerColumns + `
		FROM markers
		WHERE journey_id = $1
		ORDER BY sequence_index
	`

	rows, err := r.pool.Query(ctx, query, journeyID)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	var markers []domain.Marker
	for rows.Next() {
		var (
			m    domain.Marker
			kind string
		)
		if err := rows.Scan(&m.ID, &m.JourneyID, &kind, &m.Longitude, &m.Latitude,
			&m.Name, &m.Notes, &m.HappenedAt, &m.EstimatedAt, &m.SequenceIndex, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		m.Kind = domain.MarkerKind(kind)
		markers = append(markers, m)
	}
	return markers, rows.Err()
}

// ConvertToJourney меняет вид маркера на месте. Guard kind = 'plan' делает
// переход односторонним: если маркер уже сконвертирован конкурентным вызовом,
// затронется 0 строк и вызывающий получит ErrSequenceConflict для перечитывания.
func (r *markerPgRepository) ConvertToJourney(ctx context.Context, journeyID, markerID string, happenedAt time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE markers
		SET kind = 'journey', happened_at = $3, estimated_at = NULL
		WHERE id = $1 AND journey_id = $2 AND kind = 'plan'
	`, markerID, journeyID, happenedAt)
	if err != nil {
		return fmt.Errorf("convert marker: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrSequenceConflict
	}
	return nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation: индекс занят другим маркером
			return domain.ErrSequenceConflict
		case "23514": // check_violation: границы координат
			return domain.ErrInvalidCoordinate
		case "23503": // foreign_key_violation: journey удален
			return domain.ErrJourneyNotFound
		}
	}
	return fmt.Errorf("write marker: %w", err)
}
