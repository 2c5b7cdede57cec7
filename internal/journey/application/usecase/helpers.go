package usecase

import (
	"context"

	out "github.com/jacantwell/kairos-backend/internal/journey/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/observability"
)

// loadOwnedJourney читает journey и проверяет владельца.
// Транспорт аутентифицирует вызывающего; ядро доверяет переданному callerID.
func loadOwnedJourney(ctx context.Context, repo out.JourneyRepository, journeyID, callerID string) (*domain.Journey, error) {
	j, err := repo.GetByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !j.IsOwnedBy(callerID) {
		return nil, domain.ErrNotOwner
	}
	return j, nil
}

func countMarkerWrite(metrics *observability.Collector, kind domain.MarkerKind, op string) {
	if metrics != nil {
		metrics.MarkerWrites.WithLabelValues(string(kind), op).Inc()
	}
}
