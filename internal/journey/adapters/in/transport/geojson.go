package transport

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/jacantwell/kairos-backend/internal/journey/domain"
)

// markersToFeatureCollection представляет последовательность маркеров как
// GeoJSON FeatureCollection (по одной Point-фиче на маркер, в порядке
// sequence_index)
func markersToFeatureCollection(markers []domain.Marker) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for i := range markers {
		m := &markers[i]
		f := geojson.NewFeature(orb.Point{m.Longitude, m.Latitude})
		f.ID = m.ID
		f.Properties = geojson.Properties{
			"kind":           string(m.Kind),
			"sequence_index": m.SequenceIndex,
		}
		if m.Name != "" {
			f.Properties["name"] = m.Name
		}
		if m.Notes != "" {
			f.Properties["notes"] = m.Notes
		}
		if m.HappenedAt != nil {
			f.Properties["happened_at"] = m.HappenedAt.Format(time.RFC3339)
		}
		if m.EstimatedAt != nil {
			f.Properties["estimated_at"] = m.EstimatedAt.Format(time.RFC3339)
		}
		fc.Append(f)
	}

	return fc
}
