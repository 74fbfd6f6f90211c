package vehicle

import "errors"

var (
	ErrInvalidStatus    = errors.New("invalid vehicle status")
	ErrInvalidDailyRate = errors.New("daily rate must be positive")
	ErrInvalidDeposit   = errors.New("deposit cannot be negative")
	ErrEmptyPlate       = errors.New("license plate is required")
	ErrAlreadyHeld      = errors.New("vehicle is already held")
	ErrNotHeld          = errors.New("vehicle is not held")
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusUnavailable:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
