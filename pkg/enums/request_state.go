package enums

import "fmt"

// RequestState tracks the lifecycle of a purchase request.
type RequestState string

const (
	RequestStatePending   RequestState = "pending"
	RequestStateApproved  RequestState = "approved"
	RequestStateRejected  RequestState = "rejected"
	RequestStateOrdered   RequestState = "ordered"
	RequestStateInTransit RequestState = "in_transit"
	RequestStateReceived  RequestState = "received"
	RequestStateCancelled RequestState = "cancelled"
)

var validRequestStates = []RequestState{
	RequestStatePending,
	RequestStateApproved,
	RequestStateRejected,
	RequestStateOrdered,
	RequestStateInTransit,
	RequestStateReceived,
	RequestStateCancelled,
}

// requestStateTransitions enumerates every legal forward edge. Cancellation is
// reachable from any non-terminal state and is therefore listed explicitly on
// each source state.
var requestStateTransitions = map[RequestState][]RequestState{
	RequestStatePending:   {RequestStateApproved, RequestStateRejected, RequestStateCancelled},
	RequestStateApproved:  {RequestStateOrdered, RequestStateCancelled},
	RequestStateOrdered:   {RequestStateInTransit, RequestStateReceived, RequestStateCancelled},
	RequestStateInTransit: {RequestStateReceived, RequestStateCancelled},
}

// String implements fmt.Stringer.
func (s RequestState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RequestState.
func (s RequestState) IsValid() bool {
	for _, candidate := range validRequestStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s RequestState) IsTerminal() bool {
	switch s {
	case RequestStateReceived, RequestStateRejected, RequestStateCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
func (s RequestState) CanTransitionTo(target RequestState) bool {
	for _, candidate := range requestStateTransitions[s] {
		if candidate == target {
			return true
		}
	}
	return false
}

// ParseRequestState converts raw input into a RequestState.
func ParseRequestState(value string) (RequestState, error) {
	for _, candidate := range validRequestStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid request state %q", value)
}
