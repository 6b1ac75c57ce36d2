package utils

// Planner instructions, one per planning stage
const (
	ITINERARY_INSTRUCTIONS = `Plan a full itinerary for the trip.
Visit the requested cities in the given order and split the trip dates between them.
For every city give the date range of the stay and one day plan per day with activities,
and restaurants where the traveler asked for them. Explain why each activity suits the traveler.`

	REFINE_INSTRUCTIONS = `Refine the given itinerary using the traveler input and the user feedback.
Keep the structure of the itinerary and change only what the feedback asks for.`

	HOTELS_INSTRUCTIONS = `You are the best at searching apartments for the user.
For each of the input cities recommend at least 5 different apartment options for the given dates.
Give the right booking url and details for each apartment.`

	CONSENSUS_INSTRUCTIONS = `Based on the selected dates, the preferences of every traveler and the destination,
plan a trip that will satisfy everyone. Start by outlining where all travelers' preferences intersect.
Only use date ranges inside the feasible windows and no shorter than the minimum length.
Select up to 3 of the most suitable date ranges and propose a per-day list of activities for each.
Every plan must have exactly one day plan per day between its start and end date, and a summary
that accurately but concisely describes the planned activities.`

	COVER_IMAGE_PROMPT = "A beautiful stock background image for a trip called '%s' with the following summary: %s"
)

// Answer shapes sent to the planner
const (
	ITINERARY_SCHEMA = `{
  "name": "string, something funny",
  "city_plans": [{
    "city": "string",
    "date_range": "YYYY-MM-DD to YYYY-MM-DD",
    "day_plans": [{
      "date": "YYYY-MM-DD",
      "activities": [{"name": "string", "location": "string", "description": "string", "why_its_suitable": "string"}],
      "restaurants": [{"name": "string", "location": "string", "description": "string", "cuisine": "string", "rating": 4.5}]
    }]
  }]
}`

	HOTELS_SCHEMA = `{
  "hotels_plans": [{
    "city": "string",
    "dates": "YYYY-MM-DD to YYYY-MM-DD",
    "listings": [{"name": "string", "description": "string", "address": "string", "price": "string", "url": "string"}]
  }]
}`

	PROPOSED_PLANS_SCHEMA = `{
  "plans": [{
    "duration_days": 3,
    "start_date": "YYYY-MM-DD",
    "end_date": "YYYY-MM-DD",
    "name": "string",
    "summary": "string",
    "day_plans": [{
      "activities": [{"name": "string", "description": "string", "location": "string", "preliminary_length": "3 hours", "cost": 20}]
    }]
  }]
}`
)
