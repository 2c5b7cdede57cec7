package domain

import "time"

// MarkerKind — закрытый тип вида маркера.
// Переход разрешен только plan -> journey, обратного нет.
type MarkerKind string

const (
	// MarkerKindPlan — запланированная будущая позиция
	MarkerKindPlan MarkerKind = "plan"

	// MarkerKindJourney — подтвержденная достигнутая позиция
	MarkerKindJourney MarkerKind = "journey"
)

// Valid проверяет, что вид маркера известен
func (k MarkerKind) Valid() bool {
	return k == MarkerKindPlan || k == MarkerKindJourney
}

// Marker — одна точка в последовательности journey.
// SequenceIndex уникален и непрерывен в рамках своего journey (0..n-1).
type Marker struct {
	ID            string     `json:"id"`
	JourneyID     string     `json:"journey_id"`
	Kind          MarkerKind `json:"kind"`
	Longitude     float64    `json:"longitude"`
	Latitude      float64    `json:"latitude"`
	Name          string     `json:"name"`
	Notes         string     `json:"notes"`
	HappenedAt    *time.Time `json:"happened_at,omitempty"`  // для journey-маркеров
	EstimatedAt   *time.Time `json:"estimated_at,omitempty"` // для plan-маркеров
	SequenceIndex int        `json:"sequence_index"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ValidateCoordinate проверяет границы координат: долгота [-180,180], широта [-90,90]
func ValidateCoordinate(longitude, latitude float64) error {
	if longitude < -180 || longitude > 180 || latitude < -90 || latitude > 90 {
		return ErrInvalidCoordinate
	}
	return nil
}
