package enums

import "fmt"

// MeetupStatus captures the lifecycle of a meetup. Only planned exists today;
// the column is an enum so future states stay a migration away.
type MeetupStatus string

const (
	MeetupStatusPlanned MeetupStatus = "planned"
)

var validMeetupStatuses = []MeetupStatus{
	MeetupStatusPlanned,
}

// String implements fmt.Stringer.
func (m MeetupStatus) String() string {
	return string(m)
}

// IsValid reports whether the value matches a known MeetupStatus.
func (m MeetupStatus) IsValid() bool {
	for _, candidate := range validMeetupStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMeetupStatus converts raw input into a MeetupStatus.
func ParseMeetupStatus(value string) (MeetupStatus, error) {
	for _, candidate := range validMeetupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meetup status %q", value)
}
