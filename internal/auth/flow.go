package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for event/state pairs the login flow
// does not allow.
var ErrInvalidTransition = errors.New("auth: invalid login transition")

// State is the login state of one browser.
type State int

const (
	Anonymous State = iota
	Pending
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event drives the login state machine.
type Event int

const (
	Login Event = iota
	CallbackSucceeded
	CallbackFailed
	Logout
)

func (e Event) String() string {
	switch e {
	case Login:
		return "login"
	case CallbackSucceeded:
		return "callback_succeeded"
	case CallbackFailed:
		return "callback_failed"
	case Logout:
		return "logout"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Transition returns the state reached from s on e:
//
//	Anonymous|Pending|Authenticated + Login → Pending
//	Pending + CallbackSucceeded           → Authenticated
//	Pending + CallbackFailed              → Anonymous
//	any + Logout                          → Anonymous
//
// Everything else is ErrInvalidTransition.
func Transition(s State, e Event) (State, error) {
	switch e {
	case Logout:
		return Anonymous, nil
	case Login:
		return Pending, nil
	case CallbackSucceeded:
		if s == Pending {
			return Authenticated, nil
		}
	case CallbackFailed:
		if s == Pending {
			return Anonymous, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}

// CurrentState derives the state from what a request carries: a state
// cookie means Pending, otherwise a session identity means Authenticated.
func CurrentState(hasIdentity, hasStateCookie bool) State {
	switch {
	case hasStateCookie:
		return Pending
	case hasIdentity:
		return Authenticated
	default:
		return Anonymous
	}
}

// NewState returns 32 random bytes, base64url encoded, for the OAuth state
// parameter.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("auth: state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
