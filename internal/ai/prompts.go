package ai

import (
	"fmt"
	"strings"
)

const eventJSONSchema = `[
  {
    "id": "stable-string-id",
    "title": "Event name",
    "description": "One or two sentences about the event",
    "date": "Display-ready date and time, e.g. 'Saturday, June 14, 8 PM'",
    "location": "Venue name and street",
    "category": "One of: Music, Food & Drink, Arts & Culture, Sports, Nightlife, Outdoors, Community, Other",
    "price": "Display-ready price, e.g. 'Free' or '$25'",
    "imageUrl": "Direct image URL if known, otherwise omit",
    "link": "Official or ticketing URL if known, otherwise omit",
    "recommendationLevel": "Highly Recommended | Consider | Not Recommended",
    "justification": "Why this level, given the user's interests",
    "coordinates": {"lat": 0.0, "lng": 0.0}
  }
]`

func systemPrompt(opts GenerateOptions) string {
	var b strings.Builder
	b.WriteString(`CRITICAL: You MUST output ONLY valid JSON. Do not include any text before or after the JSON. Do not wrap it in markdown code blocks.

You are CitySense, a local event discovery concierge. You surface real, current happenings: concerts, markets, exhibitions, pop-ups, sports, community gatherings.

Guidelines:
- Prefer events happening today or in the next few days
- Tailor recommendationLevel and justification to the stated interests
- Never invent ticketing URLs; omit the link field when unsure
- Keep descriptions short and concrete`)

	if opts.EnableWebSearch {
		b.WriteString("\n- Use the most current information available to you")
	}

	b.WriteString("\n\nOutput Format: a JSON array of event objects with this exact structure:\n")
	b.WriteString(eventJSONSchema)
	return b.String()
}

func dailyRecommendationsPrompt(city string, interests []string) string {
	return fmt.Sprintf(
		"Recommend 8 events happening in %s today or this week for someone interested in: %s. "+
			"Rank the best matches first and set recommendationLevel for every event.",
		city, strings.Join(interests, ", "))
}

func searchPrompt(city, query string) string {
	return fmt.Sprintf(
		"Find events in %s matching the search %q. Return up to 10 results as the JSON array. "+
			"If nothing matches, return an empty JSON array [].",
		city, query)
}

const geocodeSystemPrompt = `You are a reverse geocoder. Given coordinates, respond with ONLY the nearest major city formatted as "City, Country". No explanation, no punctuation beyond the comma.`

func cityFromCoordinatesPrompt(lat, lng float64) string {
	return fmt.Sprintf("Coordinates: %.4f, %.4f", lat, lng)
}

const chatSystemPrompt = `You are CitySense, a friendly local concierge chatting with a visitor. Answer questions about the city, its neighborhoods, and things to do.

When you suggest specific events, append ONE fenced block at the end of your reply:
` + "```json" + `
[ ...event objects in the standard CitySense schema... ]
` + "```" + `
Keep the conversational part of the reply outside the fence. If you have no concrete events to suggest, omit the fence entirely.`

// trimCityName strips quotes, fences, and stray whitespace from a one-line
// geocode reply.
func trimCityName(raw string) string {
	city := strings.TrimSpace(raw)
	city = strings.Trim(city, "`\"'")
	if idx := strings.IndexByte(city, '\n'); idx >= 0 {
		city = city[:idx]
	}
	return strings.TrimSpace(city)
}
