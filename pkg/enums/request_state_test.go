package enums

import "testing"

func TestRequestStateTransitions(t *testing.T) {
	tests := []struct {
		from    RequestState
		to      RequestState
		allowed bool
	}{
		{RequestStatePending, RequestStateApproved, true},
		{RequestStatePending, RequestStateRejected, true},
		{RequestStatePending, RequestStateCancelled, true},
		{RequestStatePending, RequestStateOrdered, false},
		{RequestStatePending, RequestStateReceived, false},
		{RequestStateApproved, RequestStateOrdered, true},
		{RequestStateApproved, RequestStateCancelled, true},
		{RequestStateApproved, RequestStateReceived, false},
		{RequestStateOrdered, RequestStateInTransit, true},
		{RequestStateOrdered, RequestStateReceived, true},
		{RequestStateOrdered, RequestStateCancelled, true},
		{RequestStateInTransit, RequestStateReceived, true},
		{RequestStateInTransit, RequestStateCancelled, true},
		{RequestStateInTransit, RequestStateOrdered, false},
		{RequestStateReceived, RequestStateCancelled, false},
		{RequestStateRejected, RequestStateApproved, false},
		{RequestStateCancelled, RequestStatePending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v, got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestRequestStateTerminal(t *testing.T) {
	terminal := []RequestState{RequestStateReceived, RequestStateRejected, RequestStateCancelled}
	for _, state := range terminal {
		if !state.IsTerminal() {
			t.Fatalf("expected %s to be terminal", state)
		}
		for _, target := range validRequestStates {
			if state.CanTransitionTo(target) {
				t.Fatalf("terminal state %s must not transition to %s", state, target)
			}
		}
	}

	for _, state := range []RequestState{RequestStatePending, RequestStateApproved, RequestStateOrdered, RequestStateInTransit} {
		if state.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", state)
		}
		if !state.CanTransitionTo(RequestStateCancelled) {
			t.Fatalf("non-terminal state %s must allow cancellation", state)
		}
	}
}

func TestParseRequestState(t *testing.T) {
	for _, state := range validRequestStates {
		parsed, err := ParseRequestState(string(state))
		if err != nil {
			t.Fatalf("parse %s: %v", state, err)
		}
		if parsed != state {
			t.Fatalf("expected %s, got %s", state, parsed)
		}
	}
	if _, err := ParseRequestState("partially_received"); err == nil {
		t.Fatalf("expected error for unknown state")
	}
}
