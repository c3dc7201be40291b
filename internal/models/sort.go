package models

import (
	"fmt"

	"github.com/starford/goldstar/internal/apperr"
)

// SortBy names the field people are ordered by.
type SortBy string

// Sort keys.
const (
	SortByName         SortBy = "name"
	SortByStars        SortBy = "stars"
	SortByDateAdded    SortBy = "dateAdded"
	SortByLastStarDate SortBy = "lastStarDate"
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortBy converts s into a SortBy.
func ParseSortBy(s string) (SortBy, error) {
	switch v := SortBy(s); v {
	case SortByName, SortByStars, SortByDateAdded, SortByLastStarDate:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", apperr.ErrInvalidSort, s)
}

// ParseSortOrder converts s into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(s); v {
	case SortAsc, SortDesc:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown sort order %q", apperr.ErrInvalidSort, s)
}

// Flip returns the opposite direction.
func (o SortOrder) Flip() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}
