package spell

import "strings"

// protectedTerms is the static table of words the corrector must never
// touch: calendar terms, continents, oceans and similar proper nouns that a
// small dictionary would otherwise flag as misspellings. All lowercase.
var protectedTerms = map[string]struct{}{
	// weekdays
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {},
	"friday": {}, "saturday": {}, "sunday": {},
	// months
	"january": {}, "february": {}, "march": {}, "april": {}, "may": {},
	"june": {}, "july": {}, "august": {}, "september": {}, "october": {},
	"november": {}, "december": {},
	// continents
	"africa": {}, "antarctica": {}, "asia": {}, "australia": {},
	"europe": {}, "america": {},
	// oceans and seas
	"atlantic": {}, "pacific": {}, "indian": {}, "arctic": {},
	"mediterranean": {}, "caribbean": {},
	// compass regions that OCR text capitalizes inconsistently
	"north": {}, "south": {}, "east": {}, "west": {},
	// seasons
	"spring": {}, "summer": {}, "autumn": {}, "winter": {},
}

// IsProtectedTerm reports whether word (any casing) is in the static
// protected-term table.
func IsProtectedTerm(word string) bool {
	_, ok := protectedTerms[strings.ToLower(word)]
	return ok
}
