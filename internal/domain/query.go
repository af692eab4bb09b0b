package domain

import (
	"strings"
	"unicode/utf8"
)

// SortBy selects the single ordering applied to a perfume listing.
type SortBy string

const (
	SortPopularity SortBy = "popularity"
	SortRating     SortBy = "rating"
	SortNewest     SortBy = "newest"
	SortName       SortBy = "name"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100

	DefaultSuggestionLimit = 8
	MaxSuggestionLimit     = 20
	MinSuggestionQuery     = 2
)

// ListQuery holds the filters, sort key and page of a perfume listing.
// Empty Search, Gender and Season apply no filter.
type ListQuery struct {
	Skip   int
	Limit  int
	Search string
	Gender string
	Season string
	SortBy SortBy
}

// NewListQuery returns a query with the default page and sort.
func NewListQuery() ListQuery {
	return ListQuery{Limit: DefaultListLimit, SortBy: SortPopularity}
}

// Validate rejects out-of-range paging and unknown sort keys.
func (q ListQuery) Validate() error {
	if q.Skip < 0 {
		return Invalid("skip", "must be greater than or equal to 0")
	}
	if q.Limit < 1 || q.Limit > MaxListLimit {
		return Invalid("limit", "must be between 1 and %d", MaxListLimit)
	}
	switch q.SortBy {
	case SortPopularity, SortRating, SortNewest, SortName:
	default:
		return Invalid("sort_by", "must be one of popularity, rating, newest, name")
	}
	return nil
}

// SuggestionQuery drives the typeahead lookup over brand and name.
type SuggestionQuery struct {
	Q     string
	Limit int
}

// Validate trims Q and checks its length and the limit bounds.
func (q *SuggestionQuery) Validate() error {
	q.Q = strings.TrimSpace(q.Q)
	if utf8.RuneCountInString(q.Q) < MinSuggestionQuery {
		return Invalid("q", "must be at least %d characters", MinSuggestionQuery)
	}
	if q.Limit < 1 || q.Limit > MaxSuggestionLimit {
		return Invalid("limit", "must be between 1 and %d", MaxSuggestionLimit)
	}
	return nil
}
