/*
Package game
File: errors.go
Description:
    Rejections of game commands.
    A command collects every failed precondition as a Reason and returns
    them together in one *RejectedError.
*/

package game

import (
	"errors"
	"strings"
)

// Reason is one failed precondition of a command.
// Reasons are errors, so errors.Is(err, ReasonInsufficientCash) works on
// any rejection that includes it.
type Reason string

const (
	ReasonNonPositiveAmount     Reason = "amount must be positive"
	ReasonInsufficientCash      Reason = "not enough cash"
	ReasonInsufficientSpace     Reason = "not enough space"
	ReasonInsufficientInventory Reason = "not enough inventory"
	ReasonExceedsDebt           Reason = "amount exceeds debt"
	ReasonLoanTooLarge          Reason = "loan too large"
	ReasonNoStashHouse          Reason = "no stash house here"
	ReasonStashHouseExists      Reason = "already own a stash house here"
	ReasonStashFull             Reason = "not enough space in the stash house"
	ReasonStashInsufficient     Reason = "not enough in the stash house"
	ReasonWeaponNotOwned        Reason = "weapon not owned"
	ReasonFeatureDisabled       Reason = "not available in this edition"
	ReasonSameLocation          Reason = "already there"
	ReasonUnknownItem           Reason = "unknown item"
	ReasonEncounterPending      Reason = "deal with the police first"
	ReasonNoEncounter           Reason = "no police encounter"
	ReasonGameOver              Reason = "game is over"
)

func (r Reason) Error() string { return string(r) }

// RejectedError reports a command that left the game unchanged.
type RejectedError struct {
	Op      string   // Command name, e.g. "buy"
	Reasons []Reason // Every precondition that failed
}

func (e *RejectedError) Error() string {
	parts := make([]string, len(e.Reasons))
	for i, r := range e.Reasons {
		parts[i] = string(r)
	}
	return "cannot " + e.Op + ": " + strings.Join(parts, ", ")
}

// Is matches any contained Reason.
func (e *RejectedError) Is(target error) bool {
	r, ok := target.(Reason)
	return ok && e.Has(r)
}

// Has reports whether r is among the reasons.
func (e *RejectedError) Has(r Reason) bool {
	for _, x := range e.Reasons {
		if x == r {
			return true
		}
	}
	return false
}

// Reasons extracts the rejection reasons from err, or nil.
func Reasons(err error) []Reason {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Reasons
	}
	return nil
}

// rejection collects failed preconditions for one command.
type rejection struct {
	op      string
	reasons []Reason
}

func (r *rejection) check(failed bool, reason Reason) {
	if failed {
		r.reasons = append(r.reasons, reason)
	}
}

func (r *rejection) failed() bool { return len(r.reasons) > 0 }

func (r *rejection) err() error {
	if !r.failed() {
		return nil
	}
	return &RejectedError{Op: r.op, Reasons: r.reasons}
}
