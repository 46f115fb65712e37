package store

import "github.com/safepaws-ai/safepaws-backend/internal/docstore"

// Hotspot categories.
const (
	HotspotBiteRisk    = "Bite Risk"
	HotspotDisease     = "Disease"
	HotspotFeedingArea = "Feeding Area"
	HotspotAccident    = "Accident Prone"
)

// hotspotColors maps a risk level to the marker colour rendered on the map.
// Every assessment creates a hotspot regardless of level — the colour carries
// the severity.
var hotspotColors = map[string]string{
	"Low Risk":      "#10b981",
	"Moderate Risk": "#3b82f6",
	"High Risk":     "#f59e0b",
	"Critical Risk": "#ef4444",
}

// HotspotColorFor returns the marker colour for a risk level, grey for an
// unknown level.
func HotspotColorFor(level string) string {
	if c, ok := hotspotColors[level]; ok {
		return c
	}
	return "#6b7280"
}

// Hotspot is a map annotation derived from assessments, cases, and SOS
// reports.
type Hotspot struct {
	ID         string  `json:"id"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Risk       int     `json:"risk"`
	Cases      int     `json:"cases"`
	Color      string  `json:"color"`
	Place      string  `json:"place"`
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	ReportedBy string  `json:"reported_by"`
	CreatedAt  string  `json:"created_at"`
}

// NewHotspotParams carries the caller-supplied fields for a new annotation.
type NewHotspotParams struct {
	Lat, Lon   float64
	Risk       int
	Color      string
	Place      string
	Category   string
	Label      string
	ReportedBy string
}

// AppendHotspot persists a new hotspot annotation.
func (s *Store) AppendHotspot(p NewHotspotParams) (Hotspot, error) {
	h := Hotspot{
		ID:         s.newID("HS"),
		Lat:        p.Lat,
		Lon:        p.Lon,
		Risk:       p.Risk,
		Cases:      1,
		Color:      p.Color,
		Place:      p.Place,
		Category:   p.Category,
		Label:      p.Label,
		ReportedBy: p.ReportedBy,
		CreatedAt:  s.timestamp(),
	}
	list := s.ListHotspots()
	list = append(list, h)
	if err := docstore.Write(s.b, colHotspots, list); err != nil {
		return Hotspot{}, err
	}
	return h, nil
}

// ListHotspots returns every annotation.
func (s *Store) ListHotspots() []Hotspot {
	return docstore.Read(s.b, colHotspots, []Hotspot{})
}

// HotspotsByCategory filters annotations by category.
func (s *Store) HotspotsByCategory(category string) []Hotspot {
	out := []Hotspot{}
	for _, h := range s.ListHotspots() {
		if h.Category == category {
			out = append(out, h)
		}
	}
	return out
}
