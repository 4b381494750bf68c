package models

import (
	"fmt"
	"strings"
)

// ValidationError reports user input that blocks a submit. It never persists
// partial state and maps to a client error at the API boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UserProfile is the viewer's durable preference state.
type UserProfile struct {
	Name             string   `json:"name"`
	Onboarded        bool     `json:"onboarded"`
	Interests        []string `json:"interests"`
	SpotifyConnected bool     `json:"spotifyConnected"`
	TopArtists       []string `json:"topArtists"`
	CurrentCity      string   `json:"currentCity"`
}

// ValidateOnboarding checks the fields a completed onboarding must provide.
// Failures block the submit only; nothing partial is persisted.
func (p *UserProfile) ValidateOnboarding() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if len(p.Interests) == 0 {
		return &ValidationError{Field: "interests", Reason: "select at least one"}
	}
	for _, interest := range p.Interests {
		if strings.TrimSpace(interest) == "" {
			return &ValidationError{Field: "interests", Reason: "must be non-empty strings"}
		}
	}
	return nil
}

// UserEventInput is the payload for a user-authored event before it is
// assigned an id and merged into the feed.
type UserEventInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	Location    string       `json:"location"`
	Category    string       `json:"category"`
	Price       string       `json:"price,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`
	Link        string       `json:"link,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Validate checks the minimum fields a user-created event must carry.
func (in *UserEventInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(in.Date) == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if strings.TrimSpace(in.Location) == "" {
		return &ValidationError{Field: "location", Reason: "required"}
	}
	return nil
}
