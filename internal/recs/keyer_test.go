package recs

import (
	"strings"
	"testing"
	"time"
)

func TestMakeKeyIgnoresInterestOrder(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	a := MakeKey("Miami, USA", []string{"Jazz", "Food", "Art"}, now)
	b := MakeKey("Miami, USA", []string{"Art", "Jazz", "Food"}, now)

	if a != b {
		t.Errorf("keys differ across interest orderings:\n%s\n%s", a, b)
	}
}

func TestMakeKeyNormalizesCity(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	a := MakeKey("Miami, USA", []string{"Jazz"}, now)
	b := MakeKey("  miami,usa ", []string{"jazz"}, now)

	if a != b {
		t.Errorf("keys differ across city spellings:\n%s\n%s", a, b)
	}

	if !strings.Contains(a, "_miami,usa_") {
		t.Errorf("expected whitespace-stripped lowercase city in key, got %s", a)
	}
}

func TestMakeKeyIncorporatesCalendarDay(t *testing.T) {
	morning := time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC)

	if MakeKey("Miami", []string{"Jazz"}, morning) != MakeKey("Miami", []string{"Jazz"}, evening) {
		t.Error("key changed within the same day")
	}
	if MakeKey("Miami", []string{"Jazz"}, morning) == MakeKey("Miami", []string{"Jazz"}, tomorrow) {
		t.Error("key did not rotate across the day boundary")
	}
}

func TestMakeKeyShape(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	key := MakeKey("Miami, USA", []string{"Jazz", "Food"}, now)

	want := CachePrefix + "2025-06-15_miami,usa_food,jazz"
	if key != want {
		t.Errorf("key = %s, want %s", key, want)
	}
}
