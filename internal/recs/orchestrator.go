package recs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/citysense/citysense/internal/models"
)

// State is the orchestrator's load lifecycle phase.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// GenericLoadError is the only message shown to users for collaborator
// failures during a daily load.
const GenericLoadError = "We couldn't load recommendations right now. Please try again."

// RecommendationSource produces raw collaborator text for the three AI-backed
// calls. Responses are untrusted free text; all repair happens downstream.
type RecommendationSource interface {
	DailyRecommendations(ctx context.Context, city string, interests []string) (string, error)
	SearchEvents(ctx context.Context, city, query string) (string, error)
	CityFromCoordinates(ctx context.Context, lat, lng float64) (string, error)
}

// Locator resolves the viewer's position.
type Locator interface {
	Locate(ctx context.Context) (lat, lng float64, err error)
}

// Recorder receives cache and collaborator telemetry. Implementations must
// tolerate concurrent calls.
type Recorder interface {
	CacheHit()
	CacheMiss()
	CollaboratorRequest(op, outcome string)
}

// Orchestrator coordinates the cached daily feed, ad-hoc search, and city
// resolution into one pipeline, and owns the Loading/Ready/Failed state
// machine. One daily load or search is in flight at a time per instance.
type Orchestrator struct {
	source      RecommendationSource
	locator     Locator
	cache       *Cache
	normalizer  *Normalizer
	recorder    Recorder
	logger      *slog.Logger
	defaultCity string
	callTimeout time.Duration
	now         func() time.Time

	mu        sync.Mutex
	state     State
	lastError string
}

// NewOrchestrator wires the event pipeline. callTimeout bounds each
// collaborator call so a hung request resolves to Failed instead of pinning
// the Loading state.
func NewOrchestrator(source RecommendationSource, locator Locator, cache *Cache, normalizer *Normalizer, recorder Recorder, logger *slog.Logger, defaultCity string, callTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		source:      source,
		locator:     locator,
		cache:       cache,
		normalizer:  normalizer,
		recorder:    recorder,
		logger:      logger,
		defaultCity: defaultCity,
		callTimeout: callTimeout,
		now:         time.Now,
		state:       StateIdle,
	}
}

// State returns the current lifecycle state and, when Failed, the
// user-facing message.
func (o *Orchestrator) State() (State, string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state, o.lastError
}

// LoadDaily returns the day's recommendations for the profile's city and
// interests. A cache hit returns immediately with no collaborator call; a
// miss fetches, normalizes, rotates the cache scope, and stores the result.
// Collaborator failures transition to Failed and are never retried here.
func (o *Orchestrator) LoadDaily(ctx context.Context, profile models.UserProfile) ([]models.Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateLoading
	o.lastError = ""

	key := MakeKey(profile.CurrentCity, profile.Interests, o.now())

	if cached, hit := o.cache.Get(ctx, key); hit {
		o.record(func(r Recorder) { r.CacheHit() })
		o.state = StateReady
		o.logger.Debug("daily feed served from cache", "key", key, "count", len(cached))
		return cached, nil
	}
	o.record(func(r Recorder) { r.CacheMiss() })

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	raw, err := o.source.DailyRecommendations(callCtx, profile.CurrentCity, profile.Interests)
	if err != nil {
		o.record(func(r Recorder) { r.CollaboratorRequest("daily", "error") })
		o.state = StateFailed
		o.lastError = GenericLoadError
		o.logger.Error("daily recommendation fetch failed", "city", profile.CurrentCity, "error", err)
		return nil, &CollaboratorError{Op: "daily recommendations", Err: err}
	}
	o.record(func(r Recorder) { r.CollaboratorRequest("daily", "ok") })

	events := o.normalizer.Normalize(raw, profile.CurrentCity, "ai")

	// Rotate the scope before writing so only today's line survives.
	o.cache.EvictStale(ctx, key)
	o.cache.Put(ctx, key, events)

	o.state = StateReady
	o.logger.Info("daily feed fetched", "city", profile.CurrentCity, "count", len(events))
	return events, nil
}

// Search runs a keyword search, always bypassing the cache. A failing or
// empty result yields an empty list rather than an error, so callers can show
// a "no results" state distinct from a hard failure.
func (o *Orchestrator) Search(ctx context.Context, city, query string) []models.Event {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.state = StateLoading
	o.lastError = ""

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	raw, err := o.source.SearchEvents(callCtx, city, query)
	if err != nil {
		o.record(func(r Recorder) { r.CollaboratorRequest("search", "error") })
		o.logger.Warn("search failed, returning empty result", "city", city, "query", query, "error", err)
		o.state = StateReady
		return []models.Event{}
	}
	o.record(func(r Recorder) { r.CollaboratorRequest("search", "ok") })

	events := o.normalizer.Normalize(raw, city, "search")
	o.state = StateReady
	return events
}

// ResolveCity determines the profile's current city: geolocate, then resolve
// coordinates to a city name via the collaborator, falling back to the
// configured default on any failure. Once the profile carries a city it is
// returned as-is until the profile is reset.
func (o *Orchestrator) ResolveCity(ctx context.Context, profile *models.UserProfile) string {
	if profile.CurrentCity != "" {
		return profile.CurrentCity
	}

	city := o.defaultCity

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	lat, lng, err := o.locator.Locate(callCtx)
	if err != nil {
		o.logger.Warn("geolocation failed, using default city", "default", city, "error", err)
		profile.CurrentCity = city
		return city
	}

	resolved, err := o.source.CityFromCoordinates(callCtx, lat, lng)
	if err != nil || resolved == "" {
		o.record(func(r Recorder) { r.CollaboratorRequest("geocode", "error") })
		o.logger.Warn("city resolution failed, using default city", "default", city, "error", err)
		profile.CurrentCity = city
		return city
	}
	o.record(func(r Recorder) { r.CollaboratorRequest("geocode", "ok") })

	profile.CurrentCity = resolved
	return resolved
}

func (o *Orchestrator) record(fn func(Recorder)) {
	if o.recorder != nil {
		fn(o.recorder)
	}
}
