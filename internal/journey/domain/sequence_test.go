package domain

import "testing"

func seq(kinds ...MarkerKind) []Marker {
	markers := make([]Marker, len(kinds))
	for i, k := range kinds {
		markers[i] = Marker{
			ID:            string(rune('a' + i)),
			JourneyID:     "j1",
			Kind:          k,
			SequenceIndex: i,
		}
	}
	return markers
}

func TestCurrentPositionEmpty(t *testing.T) {
	if _, ok := CurrentPosition(nil); ok {
		t.Fatal("expected no current position for empty sequence")
	}
}

func TestCurrentPositionPlanOnly(t *testing.T) {
	markers := seq(MarkerKindPlan, MarkerKindPlan, MarkerKindPlan)
	if _, ok := CurrentPosition(markers); ok {
		t.Fatal("expected no current position for plan-only sequence")
	}
}

func TestCurrentPositionHighestJourneyMarker(t *testing.T) {
	markers := seq(MarkerKindJourney, MarkerKindJourney, MarkerKindPlan, MarkerKindPlan)
	cur, ok := CurrentPosition(markers)
	if !ok {
		t.Fatal("expected current position")
	}
	if cur.SequenceIndex != 1 {
		t.Errorf("expected current position at index 1, got %d", cur.SequenceIndex)
	}
}

func TestCurrentPositionIgnoresTrailingPlans(t *testing.T) {
	// journey-маркер между plan-маркерами остается текущей позицией
	markers := seq(MarkerKindPlan, MarkerKindJourney, MarkerKindPlan)
	cur, ok := CurrentPosition(markers)
	if !ok || cur.SequenceIndex != 1 {
		t.Fatalf("expected current position at index 1, got %+v ok=%v", cur, ok)
	}
}

func TestNextPendingPlanEmpty(t *testing.T) {
	if _, ok := NextPendingPlan(nil); ok {
		t.Fatal("expected no pending plan for empty sequence")
	}
}

func TestNextPendingPlanNoCurrentPosition(t *testing.T) {
	markers := seq(MarkerKindPlan, MarkerKindPlan)
	next, ok := NextPendingPlan(markers)
	if !ok {
		t.Fatal("expected pending plan")
	}
	if next.SequenceIndex != 0 {
		t.Errorf("expected first plan at index 0, got %d", next.SequenceIndex)
	}
}

func TestNextPendingPlanAfterCurrentPosition(t *testing.T) {
	markers := seq(MarkerKindJourney, MarkerKindJourney, MarkerKindPlan, MarkerKindPlan)
	next, ok := NextPendingPlan(markers)
	if !ok {
		t.Fatal("expected pending plan")
	}
	if next.SequenceIndex != 2 {
		t.Errorf("expected pending plan at index 2, got %d", next.SequenceIndex)
	}
}

func TestNextPendingPlanSkipsPlansBehindPosition(t *testing.T) {
	// plan до текущей позиции больше не pending
	markers := seq(MarkerKindPlan, MarkerKindJourney, MarkerKindPlan)
	next, ok := NextPendingPlan(markers)
	if !ok {
		t.Fatal("expected pending plan")
	}
	if next.SequenceIndex != 2 {
		t.Errorf("expected pending plan at index 2, got %d", next.SequenceIndex)
	}
}

func TestNextPendingPlanAllConverted(t *testing.T) {
	markers := seq(MarkerKindJourney, MarkerKindJourney)
	if _, ok := NextPendingPlan(markers); ok {
		t.Fatal("expected no pending plan when all markers are journey-kind")
	}
}

func TestNextSequenceIndex(t *testing.T) {
	if got := NextSequenceIndex(nil); got != 0 {
		t.Errorf("expected 0 for empty sequence, got %d", got)
	}
	markers := seq(MarkerKindJourney, MarkerKindPlan)
	if got := NextSequenceIndex(markers); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestValidateContiguous(t *testing.T) {
	markers := seq(MarkerKindJourney, MarkerKindPlan, MarkerKindPlan)
	if err := ValidateContiguous(markers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	markers[2].SequenceIndex = 5
	if err := ValidateContiguous(markers); err == nil {
		t.Fatal("expected error for gap in sequence")
	}
}

func TestMarkerKindValid(t *testing.T) {
	if !MarkerKindPlan.Valid() || !MarkerKindJourney.Valid() {
		t.Fatal("expected known kinds to be valid")
	}
	if MarkerKind("waypoint").Valid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}

func TestValidateCoordinate(t *testing.T) {
	cases := []struct {
		name     string
		lon, lat float64
		wantErr  bool
	}{
		{"origin", 0, 0, false},
		{"bounds", 180, 90, false},
		{"negative bounds", -180, -90, false},
		{"longitude too big", 180.1, 0, true},
		{"longitude too small", -181, 0, true},
		{"latitude too big", 0, 90.5, true},
		{"latitude too small", 0, -91, true},
	}
	for _, tc := range cases {
		err := ValidateCoordinate(tc.lon, tc.lat)
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}
