package domain

// Position — текущая позиция journey на сфере (WGS84)
type Position struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Neighbor — journey в радиусе видимости, с расстоянием от origin.
// Сортировка: по расстоянию, при равенстве — по journey_id.
type Neighbor struct {
	JourneyID      string   `json:"journey_id"`
	Position       Position `json:"position"`
	DistanceMeters float64  `json:"distance_meters"`
}

// Origin — точка отсчета neighbor-запроса: владелец journey и его
// текущая позиция (nil, если journey еще не содержит journey-маркеров)
type Origin struct {
	JourneyID string
	OwnerID   string
	Position  *Position
}
