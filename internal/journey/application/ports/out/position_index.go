package out

import "context"

// PositionIndex — запись в геоиндекс текущих позиций.
// Ровно одна живая запись на journey; Upsert заменяет, не накапливает.
type PositionIndex interface {
	// Upsert идемпотентен при повторном одинаковом входе
	Upsert(ctx context.Context, journeyID string, longitude, latitude float64) error

	// Remove вызывается при удалении journey
	Remove(ctx context.Context, journeyID string) error
}
