package usecase

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	in "github.com/jacantwell/kairos-backend/internal/proximity/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/proximity/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/config"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

const (
	callerID  = "user-1"
	journeyID = "journey-a"
)

var testPolicy = config.ProximityConfig{
	DefaultRadiusMeters: 10000,
	MaxRadiusMeters:     100000,
	DefaultLimit:        50,
	MaxLimit:            200,
}

// fakePositionReader считает расстояния хаверсином (orb/geo),
// как PostGIS geography по сфере
type fakePositionReader struct {
	origins   map[string]*domain.Origin
	positions map[string]orb.Point // journeyID -> (lon, lat)
}

func (f *fakePositionReader) Origin(_ context.Context, journeyID string) (*domain.Origin, error) {
	o, ok := f.origins[journeyID]
	if !ok {
		return nil, domain.ErrJourneyNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakePositionReader) Near(_ context.Context, origin domain.Position, radiusMeters float64, limit int, excludeJourneyID string) ([]domain.Neighbor, error) {
	from := orb.Point{origin.Longitude, origin.Latitude}
	var out []domain.Neighbor
	for id, pt := range f.positions {
		if id == excludeJourneyID {
			continue
		}
		dist := geo.Distance(from, pt)
		if dist > radiusMeters {
			continue
		}
		out = append(out, domain.Neighbor{
			JourneyID:      id,
			Position:       domain.Position{Longitude: pt[0], Latitude: pt[1]},
			DistanceMeters: dist,
		})
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].DistanceMeters != out[k].DistanceMeters {
			return out[i].DistanceMeters < out[k].DistanceMeters
		}
		return out[i].JourneyID < out[k].JourneyID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newFixture(positions map[string]orb.Point) (in.GetNeighborsUseCase, *fakePositionReader) {
	reader := &fakePositionReader{
		origins: map[string]*domain.Origin{
			journeyID: {
				JourneyID: journeyID,
				OwnerID:   callerID,
				Position:  &domain.Position{Longitude: 0, Latitude: 0},
			},
		},
		positions: positions,
	}
	uc := NewGetNeighborsUseCase(reader, testPolicy, nil, logger.NewLogger("test"))
	return uc, reader
}

func neighborIDs(neighbors []domain.Neighbor) []string {
	ids := make([]string, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.JourneyID
	}
	return ids
}

func TestGetNeighborsWithinRadius(t *testing.T) {
	uc, _ := newFixture(map[string]orb.Point{
		journeyID:   {0, 0},           // сам origin, должен быть исключен
		"journey-b": {0.001, 0.001},   // ~157 м
		"journey-c": {1, 1},           // ~157 км
	})

	out, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: journeyID,
	})
	if err != nil {
		t.Fatalf("get neighbors: %v", err)
	}

	if len(out.Neighbors) != 1 || out.Neighbors[0].JourneyID != "journey-b" {
		t.Fatalf("expected only journey-b within 10km, got %v", neighborIDs(out.Neighbors))
	}
	d := out.Neighbors[0].DistanceMeters
	if d < 150 || d > 165 {
		t.Errorf("expected ~157m to journey-b, got %.1f", d)
	}
	if out.RadiusMeters != testPolicy.DefaultRadiusMeters {
		t.Errorf("expected default radius, got %.0f", out.RadiusMeters)
	}
}

func TestGetNeighborsRadiusCap(t *testing.T) {
	uc, _ := newFixture(map[string]orb.Point{
		"journey-b": {0.001, 0.001}, // ~157 м
		"journey-c": {0.45, 0},      // ~50 км
		"journey-d": {2, 0},         // ~222 км, за пределами cap
	})

	out, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:     callerID,
		JourneyID:    journeyID,
		RadiusMeters: 1e9, // усекается до 100 км
	})
	if err != nil {
		t.Fatalf("get neighbors: %v", err)
	}

	ids := neighborIDs(out.Neighbors)
	if len(ids) != 2 || ids[0] != "journey-b" || ids[1] != "journey-c" {
		t.Fatalf("expected [journey-b journey-c] in distance order, got %v", ids)
	}
	if out.RadiusMeters != testPolicy.MaxRadiusMeters {
		t.Errorf("radius must be capped at %.0f, got %.0f", testPolicy.MaxRadiusMeters, out.RadiusMeters)
	}
}

func TestGetNeighborsLimit(t *testing.T) {
	uc, _ := newFixture(map[string]orb.Point{
		"journey-b": {0.001, 0},
		"journey-c": {0.002, 0},
		"journey-d": {0.003, 0},
	})

	out, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: journeyID,
		Limit:     2,
	})
	if err != nil {
		t.Fatalf("get neighbors: %v", err)
	}

	ids := neighborIDs(out.Neighbors)
	if len(ids) != 2 || ids[0] != "journey-b" || ids[1] != "journey-c" {
		t.Fatalf("expected 2 nearest neighbors, got %v", ids)
	}
}

func TestGetNeighborsTieBreakByJourneyID(t *testing.T) {
	// одинаковое расстояние с двух сторон от origin
	uc, _ := newFixture(map[string]orb.Point{
		"journey-z": {0.001, 0},
		"journey-b": {-0.001, 0},
	})

	out, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: journeyID,
	})
	if err != nil {
		t.Fatalf("get neighbors: %v", err)
	}

	ids := neighborIDs(out.Neighbors)
	if len(ids) != 2 || ids[0] != "journey-b" || ids[1] != "journey-z" {
		t.Fatalf("expected journey-id tie-break order, got %v", ids)
	}
}

func TestGetNeighborsNoCurrentPosition(t *testing.T) {
	uc, reader := newFixture(nil)
	reader.origins[journeyID].Position = nil

	_, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: journeyID,
	})
	if !errors.Is(err, domain.ErrNoCurrentPosition) {
		t.Errorf("expected ErrNoCurrentPosition, got %v", err)
	}
}

func TestGetNeighborsNotOwner(t *testing.T) {
	uc, _ := newFixture(nil)

	_, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  "user-2",
		JourneyID: journeyID,
	})
	if !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestGetNeighborsJourneyNotFound(t *testing.T) {
	uc, _ := newFixture(nil)

	_, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: "missing",
	})
	if !errors.Is(err, domain.ErrJourneyNotFound) {
		t.Errorf("expected ErrJourneyNotFound, got %v", err)
	}
}

func TestGetNeighborsEmptyIndex(t *testing.T) {
	uc, _ := newFixture(nil)

	out, err := uc.Execute(context.Background(), in.GetNeighborsInput{
		CallerID:  callerID,
		JourneyID: journeyID,
	})
	if err != nil {
		t.Fatalf("get neighbors: %v", err)
	}
	if len(out.Neighbors) != 0 {
		t.Errorf("expected empty result, got %v", neighborIDs(out.Neighbors))
	}
}
