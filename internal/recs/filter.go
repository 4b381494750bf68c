package recs

import (
	"strings"

	"github.com/citysense/citysense/internal/models"
)

// CategoryAll is the identity filter value.
const CategoryAll = "All"

// Merge concatenates user-created events ahead of fetched ones. User events
// take display priority and are deliberately not deduplicated against the
// fetched set.
func Merge(userEvents, fetched []models.Event) []models.Event {
	merged := make([]models.Event, 0, len(userEvents)+len(fetched))
	merged = append(merged, userEvents...)
	merged = append(merged, fetched...)
	return merged
}

// FilterByCategory keeps events whose category equals or contains the filter
// value. The loose substring match tolerates compound AI-generated category
// strings like "Music & Nightlife". Passing CategoryAll returns the input
// unchanged. Pure, order-preserving, idempotent.
func FilterByCategory(events []models.Event, category string) []models.Event {
	if category == CategoryAll || category == "" {
		return events
	}

	needle := strings.ToLower(category)
	kept := make([]models.Event, 0, len(events))
	for _, event := range events {
		have := strings.ToLower(event.Category)
		if have == needle || strings.Contains(have, needle) {
			kept = append(kept, event)
		}
	}
	return kept
}

// TopPicks keeps highly recommended events plus every user-created event,
// regardless of any recommendation level the user event carries.
func TopPicks(events []models.Event) []models.Event {
	picks := make([]models.Event, 0, len(events))
	for _, event := range events {
		if event.IsUserCreated || event.RecommendationLevel == models.RecommendationHigh {
			picks = append(picks, event)
		}
	}
	return picks
}
