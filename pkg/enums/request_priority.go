package enums

import "fmt"

// RequestPriority ranks how urgently a purchase request should be handled.
type RequestPriority string

const (
	RequestPriorityNormal RequestPriority = "normal"
	RequestPriorityHigh   RequestPriority = "high"
	RequestPriorityUrgent RequestPriority = "urgent"
)

var validRequestPriorities = []RequestPriority{
	RequestPriorityNormal,
	RequestPriorityHigh,
	RequestPriorityUrgent,
}

// String implements fmt.Stringer.
func (p RequestPriority) String() string {
	return string(p)
}

// IsValid reports whether the value is a known RequestPriority.
func (p RequestPriority) IsValid() bool {
	for _, candidate := range validRequestPriorities {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseRequestPriority converts raw input into a RequestPriority.
func ParseRequestPriority(value string) (RequestPriority, error) {
	for _, candidate := range validRequestPriorities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request priority %q", value)
}
