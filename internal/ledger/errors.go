package ledger

import "errors"

var (
	ErrInvalidRule        = errors.New("invalid recurrence rule")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidInstrument  = errors.New("invalid funding instrument")
	ErrInvalidAccount     = errors.New("invalid account")
)

// IsValidation reports whether err was raised by construction-time validation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRule) ||
		errors.Is(err, ErrInvalidTransaction) ||
		errors.Is(err, ErrInvalidInstrument) ||
		errors.Is(err, ErrInvalidAccount)
}
