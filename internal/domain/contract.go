package domain

import "fmt"

type ContractStatus string

const (
	ContractStatusCreated   ContractStatus = "CREATED"
	ContractStatusConfirmed ContractStatus = "CONFIRMED"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// VehicleEffect is what a contract transition does to the vehicle it holds.
type VehicleEffect int

const (
	VehicleEffectNone VehicleEffect = iota
	// VehicleEffectMarkRented flips the vehicle to RENTED.
	VehicleEffectMarkRented
	// VehicleEffectRelease flips the vehicle to AVAILABLE unless another
	// active reservation still occupies it today.
	VehicleEffectRelease
)

type transition struct {
	to     ContractStatus
	effect VehicleEffect
}

var contractTransitions = map[ContractStatus][]transition{
	ContractStatusCreated: {
		{ContractStatusConfirmed, VehicleEffectMarkRented},
		{ContractStatusCancelled, VehicleEffectRelease},
	},
	ContractStatusConfirmed: {
		{ContractStatusActive, VehicleEffectNone},
		{ContractStatusCancelled, VehicleEffectRelease},
	},
	ContractStatusActive: {
		{ContractStatusCompleted, VehicleEffectRelease},
		{ContractStatusCancelled, VehicleEffectRelease},
	},
	ContractStatusCompleted: {},
	ContractStatusCancelled: {},
}

func (s ContractStatus) IsValid() bool {
	_, ok := contractTransitions[s]
	return ok
}

func (s ContractStatus) IsTerminal() bool {
	return len(contractTransitions[s]) == 0
}

// IsActive is true for every status that still holds the vehicle.
func (s ContractStatus) IsActive() bool {
	return s.IsValid() && !s.IsTerminal()
}

func (s ContractStatus) CanTransitionTo(target ContractStatus) bool {
	_, ok := s.lookup(target)
	return ok
}

func (s ContractStatus) lookup(target ContractStatus) (transition, bool) {
	for _, t := range contractTransitions[s] {
		if t.to == target {
			return t, true
		}
	}
	return transition{}, false
}

func (s ContractStatus) String() string {
	return string(s)
}

func ParseContractStatus(s string) (ContractStatus, error) {
	status := ContractStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown contract status %q", ErrValidation, s)
	}
	return status, nil
}

// Transition validates from -> to and returns the vehicle side effect to apply.
func Transition(from, to ContractStatus) (VehicleEffect, error) {
	t, ok := from.lookup(to)
	if !ok {
		reason := "transition not allowed"
		if from.IsTerminal() {
			reason = "contract is in a terminal state"
		}
		return VehicleEffectNone, &TransitionError{From: from, To: to, Reason: reason}
	}
	return t.effect, nil
}

// TransitionError describes a rejected contract transition.
type TransitionError struct {
	From   ContractStatus
	To     ContractStatus
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal state transition %s -> %s: %s", e.From, e.To, e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalStateTransition
}
