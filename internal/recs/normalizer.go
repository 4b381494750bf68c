package recs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/citysense/citysense/internal/models"
)

// Normalizer repairs raw collaborator output into valid Event records.
// Malformed payloads never raise: they degrade to an empty list, logged so a
// parse failure is distinguishable from a genuinely empty answer in logs only.
type Normalizer struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	return &Normalizer{logger: logger, now: time.Now}
}

// rawEvent is the tolerant parse target for one collaborator record. Every
// field is optional; repair happens after parsing.
type rawEvent struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Date                string              `json:"date"`
	Location            string              `json:"location"`
	Category            string              `json:"category"`
	Price               string              `json:"price"`
	ImageURL            string              `json:"imageUrl"`
	Link                string              `json:"link"`
	RecommendationLevel string              `json:"recommendationLevel"`
	Justification       string              `json:"justification"`
	Coordinates         *models.Coordinates `json:"coordinates"`
}

// Normalize parses raw collaborator text and repairs each record into a valid
// Event. Output order matches input order; date and price strings pass through
// untouched. sourcePrefix tags synthesized ids ("ai", "search", "chat").
func (n *Normalizer) Normalize(raw, city, sourcePrefix string) []models.Event {
	payload := stripCodeFences(raw)
	if strings.TrimSpace(payload) == "" {
		return []models.Event{}
	}

	records, err := parseRecords(payload)
	if err != nil {
		// Absorbed here: callers see an empty list, the log is the only
		// place a parse failure differs from a genuinely empty answer.
		n.logger.Warn("discarding unparseable collaborator response",
			"error", &ParseError{Snippet: snippet(payload), Err: err})
		return []models.Event{}
	}

	// One stamp per fetch keeps synthesized ids unique across reload cycles.
	stamp := n.now().UnixMilli()
	cityPrefix := cityPrefix3(city)

	events := make([]models.Event, 0, len(records))
	for i, r := range records {
		event := models.Event{
			ID:            r.ID,
			Title:         r.Title,
			Description:   r.Description,
			Date:          r.Date,
			Location:      r.Location,
			Category:      r.Category,
			Price:         r.Price,
			ImageURL:      r.ImageURL,
			Link:          r.Link,
			Justification: r.Justification,
			Coordinates:   r.Coordinates,
		}

		if level := models.RecommendationLevel(r.RecommendationLevel); level.IsValid() {
			event.RecommendationLevel = level
		}

		if strings.TrimSpace(event.ID) == "" {
			event.ID = fmt.Sprintf("%s-%s-%d-%d", sourcePrefix, cityPrefix, i, stamp)
		}
		if event.ImageURL == "" {
			event.ImageURL = placeholderImage(event.Title, i)
		}
		if event.Link == "" {
			event.Link = fallbackLink(event.Title, city)
		}

		events = append(events, event)
	}

	return events
}

// parseRecords accepts either a bare JSON array or an object wrapping it
// under an "events" key, since models alternate between the two shapes.
func parseRecords(payload string) ([]rawEvent, error) {
	var records []rawEvent
	if err := json.Unmarshal([]byte(payload), &records); err == nil {
		return records, nil
	}

	var wrapped struct {
		Events []rawEvent `json:"events"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapped); err != nil {
		return nil, fmt.Errorf("json parse error: %w", err)
	}
	if wrapped.Events == nil {
		return nil, fmt.Errorf("no events array in response object")
	}
	return wrapped.Events, nil
}

// stripCodeFences removes a markdown code fence wrapper if present.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json" etc.)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func placeholderImage(title string, index int) string {
	seed := stripWhitespace(title)
	if seed == "" {
		seed = "event"
	}
	return fmt.Sprintf("https://picsum.photos/seed/%s%d/600/400", url.PathEscape(seed), index)
}

func fallbackLink(title, city string) string {
	query := url.QueryEscape(strings.TrimSpace(title + " " + city))
	return "https://www.google.com/search?q=" + query
}

func cityPrefix3(city string) string {
	c := stripWhitespace(strings.ToLower(city))
	if len(c) > 3 {
		c = c[:3]
	}
	if c == "" {
		c = "unk"
	}
	return c
}

func snippet(payload string) string {
	const max = 120
	if len(payload) <= max {
		return payload
	}
	return payload[:max] + "..."
}
