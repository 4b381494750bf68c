package recs

import (
	"reflect"
	"testing"

	"github.com/citysense/citysense/internal/models"
)

func TestMergePutsUserEventsFirst(t *testing.T) {
	user := []models.Event{{ID: "u-1", IsUserCreated: true}}
	fetched := []models.Event{{ID: "f-1"}, {ID: "f-2"}}

	merged := Merge(user, fetched)
	if len(merged) != 3 {
		t.Fatalf("expected 3 events, got %d", len(merged))
	}
	if merged[0].ID != "u-1" || merged[1].ID != "f-1" || merged[2].ID != "f-2" {
		t.Errorf("unexpected order: %v", merged)
	}
}

func TestMergeToleratesDuplicates(t *testing.T) {
	// Duplicates between user and fetched sets are kept by design.
	user := []models.Event{{ID: "same", IsUserCreated: true}}
	fetched := []models.Event{{ID: "same"}}

	if got := Merge(user, fetched); len(got) != 2 {
		t.Errorf("expected duplicates preserved, got %d events", len(got))
	}
}

func TestFilterByCategoryAllIsIdentity(t *testing.T) {
	events := []models.Event{{ID: "1", Category: "Music"}, {ID: "2", Category: "Food"}}

	got := FilterByCategory(events, CategoryAll)
	if !reflect.DeepEqual(got, events) {
		t.Errorf("CategoryAll should be identity, got %v", got)
	}
}

func TestFilterByCategoryLooseMatch(t *testing.T) {
	events := []models.Event{
		{ID: "1", Category: "Music"},
		{ID: "2", Category: "Music & Nightlife"},
		{ID: "3", Category: "Food"},
	}

	got := FilterByCategory(events, "Music")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("expected events 1 and 2, got %v", got)
	}
}

func TestFilterByCategoryIsIdempotent(t *testing.T) {
	events := []models.Event{
		{ID: "1", Category: "Music"},
		{ID: "2", Category: "Food & Drink"},
		{ID: "3", Category: "Live Music"},
	}

	once := FilterByCategory(events, "Music")
	twice := FilterByCategory(once, "Music")
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter not idempotent: %v vs %v", once, twice)
	}
}

func TestTopPicksPromotesUserEventsRegardlessOfLevel(t *testing.T) {
	events := []models.Event{
		{ID: "high", RecommendationLevel: models.RecommendationHigh},
		{ID: "consider", RecommendationLevel: models.RecommendationConsider},
		{ID: "user-not", RecommendationLevel: models.RecommendationNot, IsUserCreated: true},
		{ID: "plain"},
	}

	got := TopPicks(events)
	if len(got) != 2 {
		t.Fatalf("expected 2 picks, got %d: %v", len(got), got)
	}
	if got[0].ID != "high" || got[1].ID != "user-not" {
		t.Errorf("expected [high user-not] in input order, got %v", got)
	}
}
