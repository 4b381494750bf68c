package models

import "testing"

func TestRecommendationLevelIsValid(t *testing.T) {
	valid := []RecommendationLevel{RecommendationHigh, RecommendationConsider, RecommendationNot}
	for _, level := range valid {
		if !level.IsValid() {
			t.Errorf("expected %q to be valid", level)
		}
	}

	invalid := []RecommendationLevel{"", "Maybe", "highly recommended"}
	for _, level := range invalid {
		if level.IsValid() {
			t.Errorf("expected %q to be invalid", level)
		}
	}
}

func TestEventIsDisplayable(t *testing.T) {
	event := Event{
		ID:       "ai-mia-0-123",
		Title:    "Jazz Night",
		ImageURL: "https://picsum.photos/seed/jazznight0/600/400",
		Link:     "https://www.google.com/search?q=Jazz+Night+Miami",
	}
	if !event.IsDisplayable() {
		t.Error("expected fully normalized event to be displayable")
	}

	missing := []Event{
		{Title: "no id", ImageURL: "x", Link: "y"},
		{ID: "a", ImageURL: "", Link: "y"},
		{ID: "a", ImageURL: "x", Link: ""},
	}
	for i, e := range missing {
		if e.IsDisplayable() {
			t.Errorf("case %d: expected event with missing field to be non-displayable", i)
		}
	}
}

func TestValidateOnboarding(t *testing.T) {
	profile := UserProfile{Name: "Dana", Interests: []string{"Jazz", "Food"}}
	if err := profile.ValidateOnboarding(); err != nil {
		t.Fatalf("expected valid profile, got %v", err)
	}

	tests := []struct {
		name    string
		profile UserProfile
	}{
		{name: "blank name", profile: UserProfile{Name: "  ", Interests: []string{"Jazz"}}},
		{name: "no interests", profile: UserProfile{Name: "Dana"}},
		{name: "blank interest", profile: UserProfile{Name: "Dana", Interests: []string{" "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.profile.ValidateOnboarding(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestUserEventInputValidate(t *testing.T) {
	in := UserEventInput{Title: "Block Party", Date: "Saturday, 7 PM", Location: "5th Ave"}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}

	in.Title = ""
	if err := in.Validate(); err == nil {
		t.Fatal("expected error for missing title")
	}
}
