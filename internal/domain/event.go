package domain

import "time"

// EventCategory classifies events for listing and search.
type EventCategory string

const (
	CategoryGeneral          EventCategory = "GENERAL"
	CategoryMusic            EventCategory = "MUSIC"
	CategoryTechnology       EventCategory = "TECHNOLOGY"
	CategoryFoodAndDrink     EventCategory = "FOOD_AND_DRINK"
	CategoryArtsAndCulture   EventCategory = "ARTS_AND_CULTURE"
	CategorySportsAndFitness EventCategory = "SPORTS_AND_FITNESS"
	CategoryBusiness         EventCategory = "BUSINESS"
)

// Valid reports whether the category is a known value.
func (c EventCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryMusic, CategoryTechnology, CategoryFoodAndDrink,
		CategoryArtsAndCulture, CategorySportsAndFitness, CategoryBusiness:
		return true
	}
	return false
}

// Event occupies a venue for the half-open interval [StartTime, EndTime).
type Event struct {
	ID          string
	Title       string
	Description string
	Price       float64
	StartTime   time.Time
	EndTime     time.Time
	VenueID     string
	Category    EventCategory
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overlaps reports whether [StartTime, EndTime) intersects [start, end).
// Intervals that only touch at a boundary do not overlap.
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && start.Before(e.EndTime)
}
