// Package profile persists the viewer's durable state: the profile itself,
// user-created events, and the saved-event id set. Everything lives in the
// shared key-value store under fixed keys.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/citysense/citysense/internal/models"
	"github.com/citysense/citysense/internal/store"
)

const (
	profileKey    = "citysense_user_profile"
	userEventsKey = "citysense_user_events"
	savedIDsKey   = "savedEvents"
)

// Repository reads and writes the viewer's persisted state.
type Repository struct {
	store  store.Store
	logger *slog.Logger
}

// NewRepository creates a profile repository over the given store.
func NewRepository(s store.Store, logger *slog.Logger) *Repository {
	return &Repository{store: s, logger: logger}
}

// GetProfile returns the stored profile, or (nil, nil) when the user has not
// onboarded yet. A corrupted record degrades to absent.
func (r *Repository) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	raw, ok, err := r.store.Get(ctx, profileKey)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		r.logger.Warn("stored profile corrupted, treating as absent", "error", err)
		return nil, nil
	}
	return &profile, nil
}

// SaveProfile validates and persists a completed onboarding. Validation
// failure blocks the write entirely.
func (r *Repository) SaveProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := profile.ValidateOnboarding(); err != nil {
		return err
	}
	profile.Onboarded = true

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := r.store.Set(ctx, profileKey, string(payload)); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// UpdateCity persists a newly resolved city on the stored profile.
func (r *Repository) UpdateCity(ctx context.Context, city string) error {
	profile, err := r.GetProfile(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no profile to update")
	}

	profile.CurrentCity = city
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return r.store.Set(ctx, profileKey, string(payload))
}

// Reset removes the profile, user events, and saved ids.
func (r *Repository) Reset(ctx context.Context) error {
	for _, key := range []string{profileKey, userEventsKey, savedIDsKey} {
		if err := r.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("reset %q: %w", key, err)
		}
	}
	return nil
}

// UserEvents returns the ordered list of user-created events.
func (r *Repository) UserEvents(ctx context.Context) ([]models.Event, error) {
	raw, ok, err := r.store.Get(ctx, userEventsKey)
	if err != nil {
		return nil, fmt.Errorf("read user events: %w", err)
	}
	if !ok {
		return []models.Event{}, nil
	}

	var events []models.Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		r.logger.Warn("stored user events corrupted, treating as empty", "error", err)
		return []models.Event{}, nil
	}
	return events, nil
}

// AddUserEvent validates the input, assigns an id, and appends it to the
// persisted list. The created event is returned.
func (r *Repository) AddUserEvent(ctx context.Context, in models.UserEventInput) (models.Event, error) {
	if err := in.Validate(); err != nil {
		return models.Event{}, err
	}

	event := models.Event{
		ID:            "user-" + uuid.NewString(),
		Title:         in.Title,
		Description:   in.Description,
		Date:          in.Date,
		Location:      in.Location,
		Category:      in.Category,
		Price:         in.Price,
		ImageURL:      in.ImageURL,
		Link:          in.Link,
		Coordinates:   in.Coordinates,
		IsUserCreated: true,
	}

	events, err := r.UserEvents(ctx)
	if err != nil {
		return models.Event{}, err
	}
	events = append(events, event)

	payload, err := json.Marshal(events)
	if err != nil {
		return models.Event{}, fmt.Errorf("encode user events: %w", err)
	}
	if err := r.store.Set(ctx, userEventsKey, string(payload)); err != nil {
		return models.Event{}, fmt.Errorf("write user events: %w", err)
	}
	return event, nil
}

// SavedIDs returns the set of saved event ids.
func (r *Repository) SavedIDs(ctx context.Context) (map[string]bool, error) {
	raw, ok, err := r.store.Get(ctx, savedIDsKey)
	if err != nil {
		return nil, fmt.Errorf("read saved ids: %w", err)
	}

	saved := make(map[string]bool)
	if !ok {
		return saved, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		r.logger.Warn("stored saved ids corrupted, treating as empty", "error", err)
		return saved, nil
	}
	for _, id := range ids {
		saved[id] = true
	}
	return saved, nil
}

// ToggleSaved flips membership of id in the saved set and reports the new
// state.
func (r *Repository) ToggleSaved(ctx context.Context, id string) (bool, error) {
	saved, err := r.SavedIDs(ctx)
	if err != nil {
		return false, err
	}

	nowSaved := !saved[id]
	if nowSaved {
		saved[id] = true
	} else {
		delete(saved, id)
	}

	ids := make([]string, 0, len(saved))
	for savedID := range saved {
		ids = append(ids, savedID)
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return false, fmt.Errorf("encode saved ids: %w", err)
	}
	if err := r.store.Set(ctx, savedIDsKey, string(payload)); err != nil {
		return false, fmt.Errorf("write saved ids: %w", err)
	}
	return nowSaved, nil
}
