// Package verification models the customer registration flow as an explicit
// state machine. The remote record carries the state as a small tag set; this
// package derives the state from the tags and validates transitions before
// any tag write is attempted.
package verification

import (
	"fmt"

	"brassmart/internal/domain"
)

// State is a customer's position in the registration flow.
type State int

const (
	// Unregistered means no remote record, or one without flow tags.
	Unregistered State = iota
	// Pending means an invitation has been sent but the email is unconfirmed.
	Pending
	// EmailVerified means the email is confirmed but registration details
	// (phone, address) are outstanding.
	EmailVerified
	// Complete means the customer finished registration.
	Complete
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending-verification"
	case EmailVerified:
		return "email-verified"
	case Complete:
		return "registration-complete"
	default:
		return "unregistered"
	}
}

// Tag returns the tag that represents the state on the remote record, or ""
// for Unregistered.
func (s State) Tag() string {
	switch s {
	case Pending:
		return domain.TagPendingVerification
	case EmailVerified:
		return domain.TagEmailVerified
	case Complete:
		return domain.TagRegistrationComplete
	default:
		return ""
	}
}

// FromTags derives the state from a remote tag set. When several flow tags
// are present (a partially failed earlier write), the most advanced one wins.
func FromTags(tags []string) State {
	state := Unregistered
	for _, t := range tags {
		switch t {
		case domain.TagPendingVerification:
			if state < Pending {
				state = Pending
			}
		case domain.TagEmailVerified:
			if state < EmailVerified {
				state = EmailVerified
			}
		case domain.TagRegistrationComplete:
			state = Complete
		}
	}
	return state
}

// Transition validates a step in the flow. The flow is strictly linear:
// Unregistered → Pending → EmailVerified → Complete.
func Transition(from, to State) error {
	if to == from+1 {
		return nil
	}
	return fmt.Errorf("invalid verification transition %s → %s", from, to)
}

// ApplyTransition rewrites a tag set for a validated transition: the old flow
// tag is removed, the new one appended, and unrelated tags pass through
// untouched.
func ApplyTransition(tags []string, from, to State) ([]string, error) {
	if err := Transition(from, to); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(tags)+1)
	for _, t := range tags {
		if t == from.Tag() {
			continue
		}
		out = append(out, t)
	}
	if tag := to.Tag(); tag != "" {
		out = append(out, tag)
	}
	return out, nil
}
