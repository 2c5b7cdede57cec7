package usecase

import (
	"context"
	"fmt"

	"github.com/jacantwell/kairos-backend/internal/proximity/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/proximity/application/ports/out"
	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
	"github.com/jacantwell/kairos-backend/internal/shared/observability"
)

type getNeighborsUseCase struct {
	positions out.PositionReader
	policy    config.ProximityConfig
	metrics   *observability.Collector
	log       *logger.Logger
}

func NewGetNeighborsUseCase(
	positions out.PositionReader,
	policy config.ProximityConfig,
	metrics *observability.Collector,
	log *logger.Logger,
) in.GetNeighborsUseCase {
	return &getNeighborsUseCase{
		positions: positions,
		policy:    policy,
		metrics:   metrics,
		log:       log,
	}
}

func (uc *getNeighborsUseCase) Execute(ctx context.Context, input in.GetNeighborsInput) (*in.GetNeighborsOutput, error) {
	radius := input.RadiusMeters
	if radius <= 0 {
		radius = uc.policy.DefaultRadiusMeters
	}
	if radius > uc.policy.MaxRadiusMeters {
		radius = uc.policy.MaxRadiusMeters
	}

	limit := input.Limit
	if limit <= 0 {
		limit = uc.policy.DefaultLimit
	}
	if limit > uc.policy.MaxLimit {
		limit = uc.policy.MaxLimit
	}

	origin, err := uc.positions.Origin(ctx, input.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	if origin.OwnerID != input.CallerID {
		return nil, domain.ErrNotOwner
	}
	if origin.Position == nil {
		return nil, domain.ErrNoCurrentPosition
	}

	neighbors, err := uc.positions.Near(ctx, *origin.Position, radius, limit, input.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("query neighbors: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.NeighborQueries.Inc()
	}

	uc.log.Debug(logger.Entry{
		Action:    "neighbors_resolved",
		Message:   fmt.Sprintf("found %d neighbors within %.0fm", len(neighbors), radius),
		JourneyID: input.JourneyID,
	})

	return &in.GetNeighborsOutput{
		JourneyID:    input.JourneyID,
		Origin:       *origin.Position,
		RadiusMeters: radius,
		Neighbors:    neighbors,
	}, nil
}
