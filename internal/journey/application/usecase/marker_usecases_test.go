package usecase

import (
	"context"
	"errors"
	"testing"

	in "github.com/jacantwell/kairos-backend/internal/journey/application/ports/in"
	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

const (
	ownerID     = "user-1"
	strangerID  = "user-2"
	journeyID   = "journey-1"
	journeyName = "andes crossing"
)

type markerFixture struct {
	journeyRepo *fakeJourneyRepo
	markerRepo  *fakeMarkerRepo
	posIndex    *fakePositionIndex
	publisher   *fakePublisher

	appendPlan    in.AppendPlanMarkerUseCase
	appendJourney in.AppendJourneyMarkerUseCase
	insertJourney in.InsertJourneyMarkerUseCase
	convertPlan   in.ConvertNextPlanUseCase
	getMarkers    in.GetMarkersUseCase
}

func newMarkerFixture() *markerFixture {
	f := &markerFixture{
		journeyRepo: newFakeJourneyRepo(&domain.Journey{ID: journeyID, OwnerID: ownerID, Name: journeyName}),
		markerRepo:  newFakeMarkerRepo(),
		posIndex:    newFakePositionIndex(),
		publisher:   &fakePublisher{},
	}
	log := testLogger()
	f.appendPlan = NewAppendPlanMarkerUseCase(f.journeyRepo, f.markerRepo, f.publisher, nil, log)
	f.appendJourney = NewAppendJourneyMarkerUseCase(f.journeyRepo, f.markerRepo, f.posIndex, f.publisher, nil, log)
	f.insertJourney = NewInsertJourneyMarkerUseCase(f.journeyRepo, f.markerRepo, f.posIndex, f.publisher, nil, log)
	f.convertPlan = NewConvertNextPlanUseCase(f.journeyRepo, f.markerRepo, f.posIndex, f.publisher, nil, log)
	f.getMarkers = NewGetMarkersUseCase(f.journeyRepo, f.markerRepo)
	return f
}

func (f *markerFixture) appendInput(lon, lat float64) in.AppendMarkerInput {
	return in.AppendMarkerInput{
		CallerID:  ownerID,
		JourneyID: journeyID,
		Longitude: lon,
		Latitude:  lat,
	}
}

func (f *markerFixture) mustSequence(t *testing.T) []domain.Marker {
	t.Helper()
	markers, err := f.getMarkers.Execute(context.Background(), ownerID, journeyID)
	if err != nil {
		t.Fatalf("get markers: %v", err)
	}
	if err := domain.ValidateContiguous(markers); err != nil {
		t.Fatalf("sequence not contiguous: %+v", markers)
	}
	return markers
}

func TestAppendRoundTrip(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	// чередуем journey и plan appends
	for i := 0; i < 6; i++ {
		input := f.appendInput(float64(i), float64(i))
		var err error
		if i%2 == 0 {
			_, err = f.appendJourney.Execute(ctx, input)
		} else {
			_, err = f.appendPlan.Execute(ctx, input)
		}
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	markers := f.mustSequence(t)
	if len(markers) != 6 {
		t.Fatalf("expected 6 markers, got %d", len(markers))
	}
	for i, m := range markers {
		if m.SequenceIndex != i {
			t.Errorf("marker %d has index %d", i, m.SequenceIndex)
		}
		if m.Longitude != float64(i) {
			t.Errorf("marker %d out of order: lon=%f", i, m.Longitude)
		}
	}
}

func TestAppendJourneyMarkerRefreshesPosition(t *testing.T) {
	f := newMarkerFixture()

	out, err := f.appendJourney.Execute(context.Background(), f.appendInput(10, 20))
	if err != nil {
		t.Fatalf("append journey marker: %v", err)
	}
	if out.Marker.Kind != domain.MarkerKindJourney {
		t.Errorf("expected journey kind, got %s", out.Marker.Kind)
	}
	if out.Marker.HappenedAt == nil {
		t.Error("expected happened_at to default to now")
	}

	pos, ok := f.posIndex.position(journeyID)
	if !ok {
		t.Fatal("expected position index entry")
	}
	if pos != [2]float64{10, 20} {
		t.Errorf("unexpected indexed position: %v", pos)
	}
	if f.publisher.positionChanges != 1 {
		t.Errorf("expected 1 position change event, got %d", f.publisher.positionChanges)
	}
	if f.publisher.lastPositionUser != ownerID {
		t.Errorf("position event addressed to %q", f.publisher.lastPositionUser)
	}
}

func TestAppendPlanMarkerDoesNotTouchPosition(t *testing.T) {
	f := newMarkerFixture()

	out, err := f.appendPlan.Execute(context.Background(), f.appendInput(10, 20))
	if err != nil {
		t.Fatalf("append plan marker: %v", err)
	}
	if out.Marker.Kind != domain.MarkerKindPlan {
		t.Errorf("expected plan kind, got %s", out.Marker.Kind)
	}

	if _, ok := f.posIndex.position(journeyID); ok {
		t.Error("plan marker must not create a position index entry")
	}
	if f.publisher.positionChanges != 0 {
		t.Errorf("expected no position change events, got %d", f.publisher.positionChanges)
	}
}

func TestAppendInvalidCoordinate(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	if _, err := f.appendPlan.Execute(ctx, f.appendInput(181, 0)); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := f.appendJourney.Execute(ctx, f.appendInput(0, -91)); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if markers := f.mustSequence(t); len(markers) != 0 {
		t.Errorf("rejected writes must not persist, got %d markers", len(markers))
	}
}

func TestAppendNotOwner(t *testing.T) {
	f := newMarkerFixture()
	input := f.appendInput(0, 0)
	input.CallerID = strangerID

	if _, err := f.appendJourney.Execute(context.Background(), input); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestAppendJourneyNotFound(t *testing.T) {
	f := newMarkerFixture()
	input := f.appendInput(0, 0)
	input.JourneyID = "missing"

	if _, err := f.appendPlan.Execute(context.Background(), input); !errors.Is(err, domain.ErrJourneyNotFound) {
		t.Errorf("expected ErrJourneyNotFound, got %v", err)
	}
}

func TestInsertBeforeNextPlan(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	// journey @ (0.0001, 0.0001), plan @ (0,0), plan @ (1,1)
	if _, err := f.appendJourney.Execute(ctx, f.appendInput(0.0001, 0.0001)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.appendPlan.Execute(ctx, f.appendInput(0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.appendPlan.Execute(ctx, f.appendInput(1, 1)); err != nil {
		t.Fatal(err)
	}

	out, err := f.insertJourney.Execute(ctx, f.appendInput(0.5, 0.5))
	if err != nil {
		t.Fatalf("insert journey marker: %v", err)
	}
	if out.Marker.SequenceIndex != 1 {
		t.Errorf("expected insert at index 1, got %d", out.Marker.SequenceIndex)
	}

	markers := f.mustSequence(t)
	if len(markers) != 4 {
		t.Fatalf("expected 4 markers, got %d", len(markers))
	}

	wantKinds := []domain.MarkerKind{
		domain.MarkerKindJourney,
		domain.MarkerKindJourney,
		domain.MarkerKindPlan,
		domain.MarkerKindPlan,
	}
	for i, want := range wantKinds {
		if markers[i].Kind != want {
			t.Errorf("index %d: expected %s, got %s", i, want, markers[i].Kind)
		}
	}

	// сдвинутые plan-маркеры сохранили порядок
	if markers[2].Longitude != 0 || markers[3].Longitude != 1 {
		t.Errorf("plan markers out of order: %+v", markers[2:])
	}

	// вставленный маркер — текущая позиция
	cur, ok := domain.CurrentPosition(markers)
	if !ok || cur.ID != out.Marker.ID {
		t.Errorf("expected inserted marker to be current position, got %+v", cur)
	}
	pos, _ := f.posIndex.position(journeyID)
	if pos != [2]float64{0.5, 0.5} {
		t.Errorf("position index not refreshed: %v", pos)
	}
}

func TestInsertWithoutPendingPlan(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	// пустой journey
	if _, err := f.insertJourney.Execute(ctx, f.appendInput(0, 0)); !errors.Is(err, domain.ErrNoPendingPlanMarker) {
		t.Errorf("expected ErrNoPendingPlanMarker on empty journey, got %v", err)
	}

	// только journey-маркеры
	if _, err := f.appendJourney.Execute(ctx, f.appendInput(1, 1)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.insertJourney.Execute(ctx, f.appendInput(2, 2)); !errors.Is(err, domain.ErrNoPendingPlanMarker) {
		t.Errorf("expected ErrNoPendingPlanMarker, got %v", err)
	}
}

func TestConvertAdvancesPosition(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.appendPlan.Execute(ctx, f.appendInput(float64(i), float64(i))); err != nil {
			t.Fatal(err)
		}
	}

	convert := in.ConvertNextPlanInput{CallerID: ownerID, JourneyID: journeyID}

	// первая конвертация: plan @ index 0
	out, err := f.convertPlan.Execute(ctx, convert)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if out.Marker.SequenceIndex != 0 || out.Marker.Kind != domain.MarkerKindJourney {
		t.Errorf("unexpected converted marker: %+v", out.Marker)
	}
	if out.Marker.HappenedAt == nil {
		t.Error("converted marker must carry happened_at")
	}

	// вторая конвертация продвигает позицию на index 1
	out, err = f.convertPlan.Execute(ctx, convert)
	if err != nil {
		t.Fatalf("second convert: %v", err)
	}
	if out.Marker.SequenceIndex != 1 {
		t.Errorf("expected conversion at index 1, got %d", out.Marker.SequenceIndex)
	}

	pos, _ := f.posIndex.position(journeyID)
	if pos != [2]float64{1, 1} {
		t.Errorf("position index should follow conversion: %v", pos)
	}
	if f.publisher.converted != 2 {
		t.Errorf("expected 2 converted events, got %d", f.publisher.converted)
	}

	markers := f.mustSequence(t)
	if len(markers) != 3 {
		t.Errorf("convert must not change sequence length, got %d", len(markers))
	}
}

func TestConvertExhaustedIsStableFailure(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()
	convert := in.ConvertNextPlanInput{CallerID: ownerID, JourneyID: journeyID}

	if _, err := f.appendPlan.Execute(ctx, f.appendInput(0, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := f.convertPlan.Execute(ctx, convert); err != nil {
		t.Fatalf("convert: %v", err)
	}

	// plan-маркеров не осталось: каждая следующая попытка падает одинаково
	// и ничего не мутирует
	for i := 0; i < 3; i++ {
		if _, err := f.convertPlan.Execute(ctx, convert); !errors.Is(err, domain.ErrNoPendingPlanMarker) {
			t.Fatalf("attempt %d: expected ErrNoPendingPlanMarker, got %v", i, err)
		}
	}

	markers := f.mustSequence(t)
	if len(markers) != 1 || markers[0].Kind != domain.MarkerKindJourney {
		t.Errorf("failed converts must not mutate sequence: %+v", markers)
	}
}

func TestConvertEmptyJourney(t *testing.T) {
	f := newMarkerFixture()
	convert := in.ConvertNextPlanInput{CallerID: ownerID, JourneyID: journeyID}

	if _, err := f.convertPlan.Execute(context.Background(), convert); !errors.Is(err, domain.ErrNoPendingPlanMarker) {
		t.Errorf("expected ErrNoPendingPlanMarker, got %v", err)
	}
}

func TestCurrentPositionMonotonic(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	lastIndex := -1
	check := func(step string) {
		t.Helper()
		markers := f.mustSequence(t)
		cur, ok := domain.CurrentPosition(markers)
		if !ok {
			t.Fatalf("%s: expected current position", step)
		}
		if cur.SequenceIndex <= lastIndex {
			t.Fatalf("%s: position index went from %d to %d", step, lastIndex, cur.SequenceIndex)
		}
		lastIndex = cur.SequenceIndex
	}

	if _, err := f.appendJourney.Execute(ctx, f.appendInput(0, 0)); err != nil {
		t.Fatal(err)
	}
	check("append journey")

	for i := 0; i < 2; i++ {
		if _, err := f.appendPlan.Execute(ctx, f.appendInput(float64(i+1), 0)); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := f.insertJourney.Execute(ctx, f.appendInput(0.5, 0)); err != nil {
		t.Fatal(err)
	}
	check("insert")

	convert := in.ConvertNextPlanInput{CallerID: ownerID, JourneyID: journeyID}
	if _, err := f.convertPlan.Execute(ctx, convert); err != nil {
		t.Fatal(err)
	}
	check("convert")
}

func TestGetMarkersRequiresOwnership(t *testing.T) {
	f := newMarkerFixture()

	if _, err := f.getMarkers.Execute(context.Background(), strangerID, journeyID); !errors.Is(err, domain.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
}

func TestAppendSequenceConflictSurfaces(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	// имитируем гонку: конкурент занял индекс между чтением и записью
	if _, err := f.appendPlan.Execute(ctx, f.appendInput(0, 0)); err != nil {
		t.Fatal(err)
	}
	conflicting := &domain.Marker{
		ID:            "race",
		JourneyID:     journeyID,
		Kind:          domain.MarkerKindPlan,
		SequenceIndex: 0,
	}
	if err := f.markerRepo.Put(ctx, conflicting); !errors.Is(err, domain.ErrSequenceConflict) {
		t.Fatalf("expected ErrSequenceConflict from store, got %v", err)
	}
}

func TestManyAppendsStayContiguous(t *testing.T) {
	f := newMarkerFixture()
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if _, err := f.appendPlan.Execute(ctx, f.appendInput(float64(i%180), float64(i%90))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	markers := f.mustSequence(t)
	if len(markers) != 50 {
		t.Fatalf("expected 50 markers, got %d", len(markers))
	}
	if markers[49].SequenceIndex != 49 {
		t.Errorf("unexpected final index %d", markers[49].SequenceIndex)
	}
}
