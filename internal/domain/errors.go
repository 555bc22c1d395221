package domain

import "errors"

var (
	// Validation
	ErrValidation          = errors.New("validation failed")
	ErrInvalidInterval     = errors.New("end date must be after start date")
	ErrPastStartDate       = errors.New("start date is in the past")
	ErrMaxDurationExceeded = errors.New("rental duration exceeds the maximum")
	ErrMissingLicense      = errors.New("customer has no driving licence on file")
	ErrInvalidPricingInput = errors.New("invalid pricing input")

	// Eligibility
	ErrInactiveCustomer = errors.New("customer account is inactive")
	ErrMinorCustomer    = errors.New("customer is under the legal age")

	// Conflict
	ErrVehicleUnavailable = errors.New("vehicle is not available for the requested dates")
	ErrCustomerOverlap    = errors.New("customer already has a reservation overlapping the requested dates")

	// State
	ErrIllegalStateTransition = errors.New("illegal state transition")

	// Storage
	ErrNotFound           = errors.New("not found")
	ErrDuplicateNumber    = errors.New("reservation number already exists")
	ErrConfirmationFailed = errors.New("reservation created but confirmation failed")

	ErrUnauthorized = errors.New("unauthorized")
)

type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindEligibility
	KindConflict
	KindState
	KindNotFound
	KindUnauthorized
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindEligibility:
		return "eligibility"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindStorage:
		return "storage"
	}
	return "unknown"
}

var errorKinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrConfirmationFailed, KindStorage},
	{ErrValidation, KindValidation},
	{ErrInvalidInterval, KindValidation},
	{ErrPastStartDate, KindValidation},
	{ErrMaxDurationExceeded, KindValidation},
	{ErrMissingLicense, KindValidation},
	{ErrInvalidPricingInput, KindValidation},
	{ErrInactiveCustomer, KindEligibility},
	{ErrMinorCustomer, KindEligibility},
	{ErrVehicleUnavailable, KindConflict},
	{ErrCustomerOverlap, KindConflict},
	{ErrIllegalStateTransition, KindState},
	{ErrNotFound, KindNotFound},
	{ErrUnauthorized, KindUnauthorized},
	{ErrDuplicateNumber, KindStorage},
}

// KindOf classifies err. Anything not recognised is treated as a storage
// failure when non-nil.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindStorage
}
