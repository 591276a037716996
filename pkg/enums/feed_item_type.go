package enums

import "fmt"

// FeedItemType distinguishes piece content kinds. Text is the only kind the
// service accepts today.
type FeedItemType string

const (
	FeedItemTypeText FeedItemType = "text"
)

var validFeedItemTypes = []FeedItemType{
	FeedItemTypeText,
}

// String implements fmt.Stringer.
func (f FeedItemType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FeedItemType.
func (f FeedItemType) IsValid() bool {
	for _, candidate := range validFeedItemTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFeedItemType converts raw input into a FeedItemType.
func ParseFeedItemType(value string) (FeedItemType, error) {
	for _, candidate := range validFeedItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid feed item type %q", value)
}
