package domain

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of an auction.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusReady    Status = "READY"
	StatusOpen     Status = "OPEN"
	StatusExtended Status = "EXTENDED"
	StatusClosed   Status = "CLOSED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReady, StatusOpen, StatusExtended, StatusClosed, StatusCanceled:
		return true
	}
	return false
}

// Action is a caller-triggered lifecycle operation.
type Action string

const (
	ActionCreate  Action = "create"
	ActionConfirm Action = "confirm"
	ActionCancel  Action = "cancel"
	ActionClose   Action = "close"
	ActionReopen  Action = "reopen"
	ActionExtend  Action = "extend"
	ActionUpdate  Action = "update"
)

// Facts are the time inputs the guards look at. NewEndTime is only read by
// extend.
type Facts struct {
	Now        time.Time
	StartTime  time.Time
	EndTime    time.Time
	NewEndTime time.Time
}

type rule struct {
	from []Status
	// returned when current is not in from
	wrongState error
	guard      func(f Facts) error
	to         func(f Facts) Status
}

func always(s Status) func(Facts) Status {
	return func(Facts) Status { return s }
}

func notEnded(f Facts) error {
	if f.Now.After(f.EndTime) {
		return ErrAuctionAlreadyEnded
	}
	return nil
}

var transitions = map[Action]rule{
	ActionConfirm: {
		from:       []Status{StatusPending},
		wrongState: ErrAuctionNotPending,
		to: func(f Facts) Status {
			if f.Now.Before(f.StartTime) {
				return StatusReady
			}
			return StatusOpen
		},
	},
	ActionCancel: {
		from:       []Status{StatusPending},
		wrongState: ErrAuctionNotCancellable,
		to:         always(StatusCanceled),
	},
	ActionClose: {
		from:       []Status{StatusOpen, StatusExtended},
		wrongState: ErrAuctionNotClosable,
		to:         always(StatusClosed),
	},
	ActionReopen: {
		from:       []Status{StatusClosed},
		wrongState: ErrAuctionNotClosed,
		guard:      notEnded,
		to:         always(StatusOpen),
	},
	ActionExtend: {
		from:       []Status{StatusOpen, StatusExtended},
		wrongState: ErrAuctionNotOpen,
		guard: func(f Facts) error {
			if err := notEnded(f); err != nil {
				return err
			}
			if !f.NewEndTime.After(f.EndTime) {
				return ErrInvalidNewEndTime
			}
			return nil
		},
		to: always(StatusExtended),
	},
	ActionUpdate: {
		from:       []Status{StatusPending},
		wrongState: ErrAuctionNotPending,
		to:         always(StatusPending),
	},
}

// Transition returns the status reached by applying action to current, or
// the error of the first failing check. It has no side effects.
func Transition(current Status, action Action, facts Facts) (Status, error) {
	r, ok := transitions[action]
	if !ok {
		return current, fmt.Errorf("auction: no transition for action %q", action)
	}

	allowed := false
	for _, s := range r.from {
		if s == current {
			allowed = true
			break
		}
	}
	if !allowed {
		return current, r.wrongState
	}

	if r.guard != nil {
		if err := r.guard(facts); err != nil {
			return current, err
		}
	}
	return r.to(facts), nil
}
