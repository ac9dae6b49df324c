package booking

import "fmt"

// Status represents the approval state of a booking. It is a pure state tag;
// display text lives in a separate lookup table so the state machine stays
// locale independent.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

var statusTitles = map[Status]string{
	StatusWaiting:  "new booking, awaiting the owner's decision",
	StatusApproved: "booking approved by the item owner",
	StatusRejected: "booking rejected by the item owner",
	StatusCanceled: "booking canceled by its creator",
}

// AnnotationExcludedStatuses are never considered when computing the last or
// next booking of an item, nor when checking for a finished booking.
var AnnotationExcludedStatuses = []Status{StatusRejected, StatusCanceled}

// IsValid returns true if the status is a recognized booking status.
func (s Status) IsValid() bool {
	_, exists := statusTitles[s]
	return exists
}

// CanDecide reports whether an approve/reject decision is still allowed.
// Only APPROVED blocks a re-decision: a REJECTED booking may later be flipped
// to APPROVED. The asymmetry is deliberate policy.
func (s Status) CanDecide() bool {
	return s != StatusApproved
}

// Title returns the human-readable description of the status.
func (s Status) Title() string {
	return statusTitles[s]
}

// String returns the wire representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a stored string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
