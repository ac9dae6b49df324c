package booking

import (
	"strings"

	"github.com/sharebay/service-sharing/internal/pkg/domain"
)

// FilterState names a temporal/status bucket used to slice booking lists.
// PAST, CURRENT and FUTURE are evaluated against the query instant; WAITING
// and REJECTED match the stored status.
type FilterState string

const (
	FilterAll      FilterState = "ALL"
	FilterCurrent  FilterState = "CURRENT"
	FilterPast     FilterState = "PAST"
	FilterFuture   FilterState = "FUTURE"
	FilterWaiting  FilterState = "WAITING"
	FilterRejected FilterState = "REJECTED"
)

// ParseFilterState parses a filter token case-insensitively. Unknown tokens
// are an error, never a silent empty result.
func ParseFilterState(s string) (FilterState, error) {
	state := FilterState(strings.ToUpper(s))
	switch state {
	case FilterAll, FilterCurrent, FilterPast, FilterFuture, FilterWaiting, FilterRejected:
		return state, nil
	}
	return "", domain.NewInvalidFilterError("Unknown state: " + s)
}
