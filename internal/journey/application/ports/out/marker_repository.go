package out

import (
	"context"
	"time"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// MarkerRepository — хранилище маркеров (Marker Store).
// Нумерацию целевого индекса вычисляет вызывающий; занятый индекс
// хранилище отклоняет с domain.ErrSequenceConflict.
type MarkerRepository interface {
	// Put вставляет маркер на свободный SequenceIndex.
	// Возвращает domain.ErrInvalidCoordinate или domain.ErrSequenceConflict.
	Put(ctx context.Context, m *domain.Marker) error

	// InsertAt вставляет маркер на занятый индекс, сдвигая все маркеры
	// с SequenceIndex >= m.SequenceIndex на +1. Сдвиг и вставка выполняются
	// в одной транзакции под per-journey блокировкой.
	InsertAt(ctx context.Context, m *domain.Marker) error

	// GetSequence возвращает полную последовательность journey
	// по возрастанию SequenceIndex
	GetSequence(ctx context.Context, journeyID string) ([]domain.Marker, error)

	// ConvertToJourney меняет вид маркера plan -> journey на месте
	// (SequenceIndex не меняется). Если маркер уже не plan,
	// возвращает domain.ErrSequenceConflict — состояние нужно перечитать.
	ConvertToJourney(ctx context.Context, journeyID, markerID string, happenedAt time.Time) error
}
