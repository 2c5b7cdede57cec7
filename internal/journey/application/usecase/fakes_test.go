package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
	"github.com/jacantwell/kairos-backend/internal/shared/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger("test")
}

// fakeJourneyRepo — in-memory замена JourneyRepository
type fakeJourneyRepo struct {
	mu       sync.Mutex
	journeys map[string]*domain.Journey
}

func newFakeJourneyRepo(journeys ...*domain.Journey) *fakeJourneyRepo {
	repo := &fakeJourneyRepo{journeys: make(map[string]*domain.Journey)}
	for _, j := range journeys {
		cp := *j
		repo.journeys[j.ID] = &cp
	}
	return repo
}

func (r *fakeJourneyRepo) Create(_ context.Context, j *domain.Journey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *j
	r.journeys[j.ID] = &cp
	return nil
}

func (r *fakeJourneyRepo) GetByID(_ context.Context, id string) (*domain.Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.journeys[id]
	if !ok {
		return nil, domain.ErrJourneyNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJourneyRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Journey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Journey
	for _, j := range r.journeys {
		if j.OwnerID == ownerID {
			out = append(out, *j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (r *fakeJourneyRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.journeys[id]
	if !ok {
		return domain.ErrJourneyNotFound
	}
	j.Active = active
	return nil
}

func (r *fakeJourneyRepo) DeactivateByOwner(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.journeys {
		if j.OwnerID == ownerID {
			j.Active = false
		}
	}
	return nil
}

func (r *fakeJourneyRepo) SetCompleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.journeys[id]
	if !ok {
		return domain.ErrJourneyNotFound
	}
	j.Completed = true
	j.Active = false
	return nil
}

func (r *fakeJourneyRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.journeys[id]; !ok {
		return domain.ErrJourneyNotFound
	}
	delete(r.journeys, id)
	return nil
}

// fakeMarkerRepo воспроизводит контракт Marker Store: занятый индекс
// отклоняется, InsertAt сдвигает хвост, ConvertToJourney меняет вид на месте
type fakeMarkerRepo struct {
	mu      sync.Mutex
	markers map[string][]domain.Marker // journeyID -> сортировано по SequenceIndex
}

func newFakeMarkerRepo() *fakeMarkerRepo {
	return &fakeMarkerRepo{markers: make(map[string][]domain.Marker)}
}

func (r *fakeMarkerRepo) Put(_ context.Context, m *domain.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.markers[m.JourneyID] {
		if existing.SequenceIndex == m.SequenceIndex {
			return domain.ErrSequenceConflict
		}
	}
	r.markers[m.JourneyID] = append(r.markers[m.JourneyID], *m)
	r.sortLocked(m.JourneyID)
	return nil
}

func (r *fakeMarkerRepo) InsertAt(_ context.Context, m *domain.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.markers[m.JourneyID]
	for i := range seq {
		if seq[i].SequenceIndex >= m.SequenceIndex {
			seq[i].SequenceIndex++
		}
	}
	r.markers[m.JourneyID] = append(seq, *m)
	r.sortLocked(m.JourneyID)
	return nil
}

func (r *fakeMarkerRepo) GetSequence(_ context.Context, journeyID string) ([]domain.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Marker, len(r.markers[journeyID]))
	copy(out, r.markers[journeyID])
	return out, nil
}

func (r *fakeMarkerRepo) ConvertToJourney(_ context.Context, journeyID, markerID string, happenedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seq := r.markers[journeyID]
	for i := range seq {
		if seq[i].ID == markerID {
			if seq[i].Kind != domain.MarkerKindPlan {
				return domain.ErrSequenceConflict
			}
			seq[i].Kind = domain.MarkerKindJourney
			ts := happenedAt
			seq[i].HappenedAt = &ts
			seq[i].EstimatedAt = nil
			return nil
		}
	}
	return domain.ErrMarkerNotFound
}

func (r *fakeMarkerRepo) sortLocked(journeyID string) {
	seq := r.markers[journeyID]
	sort.Slice(seq, func(i, k int) bool { return seq[i].SequenceIndex < seq[k].SequenceIndex })
}

// fakePositionIndex запоминает последний Upsert на journey
type fakePositionIndex struct {
	mu        sync.Mutex
	positions map[string][2]float64 // journeyID -> (lon, lat)
	upserts   int
}

func newFakePositionIndex() *fakePositionIndex {
	return &fakePositionIndex{positions: make(map[string][2]float64)}
}

func (f *fakePositionIndex) Upsert(_ context.Context, journeyID string, longitude, latitude float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions[journeyID] = [2]float64{longitude, latitude}
	f.upserts++
	return nil
}

func (f *fakePositionIndex) Remove(_ context.Context, journeyID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.positions, journeyID)
	return nil
}

func (f *fakePositionIndex) position(journeyID string) ([2]float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pos, ok := f.positions[journeyID]
	return pos, ok
}

// fakePublisher считает опубликованные события
type fakePublisher struct {
	mu               sync.Mutex
	created          int
	deleted          int
	appended         int
	converted        int
	positionChanges  int
	lastPositionLon  float64
	lastPositionLat  float64
	lastPositionUser string
}

func (p *fakePublisher) PublishJourneyCreated(_ context.Context, _ *domain.Journey) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created++
	return nil
}

func (p *fakePublisher) PublishJourneyDeleted(_ context.Context, _, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted++
	return nil
}

func (p *fakePublisher) PublishMarkerAppended(_ context.Context, _ string, _ *domain.Marker) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.appended++
	return nil
}

func (p *fakePublisher) PublishMarkerConverted(_ context.Context, _ string, _ *domain.Marker) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.converted++
	return nil
}

func (p *fakePublisher) PublishPositionChanged(_ context.Context, _, ownerID string, longitude, latitude float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.positionChanges++
	p.lastPositionLon = longitude
	p.lastPositionLat = latitude
	p.lastPositionUser = ownerID
	return nil
}
