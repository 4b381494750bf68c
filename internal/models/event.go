package models

// Event represents a discoverable happening surfaced to the user, whether
// AI-recommended, search-matched, or user-created.
type Event struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Date                string              `json:"date"` // display-formatted free text from upstream
	Location            string              `json:"location"`
	Category            string              `json:"category"`
	Price               string              `json:"price,omitempty"`
	ImageURL            string              `json:"imageUrl,omitempty"`
	Link                string              `json:"link,omitempty"`
	RecommendationLevel RecommendationLevel `json:"recommendationLevel,omitempty"`
	Justification       string              `json:"justification,omitempty"`
	Coordinates         *Coordinates        `json:"coordinates,omitempty"`
	IsUserCreated       bool                `json:"isUserCreated,omitempty"`
}

// RecommendationLevel classifies how strongly the assistant endorses an event.
type RecommendationLevel string

const (
	RecommendationHigh     RecommendationLevel = "Highly Recommended"
	RecommendationConsider RecommendationLevel = "Consider"
	RecommendationNot      RecommendationLevel = "Not Recommended"
)

// IsValid reports whether the level is one of the known values.
func (l RecommendationLevel) IsValid() bool {
	switch l {
	case RecommendationHigh, RecommendationConsider, RecommendationNot:
		return true
	}
	return false
}

// Coordinates holds a map placement for an event.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsDisplayable reports whether the event satisfies the invariants normalized
// events must carry: a non-empty id plus guaranteed image and link fallbacks.
func (e *Event) IsDisplayable() bool {
	return e.ID != "" && e.ImageURL != "" && e.Link != ""
}
