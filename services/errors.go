package services

import (
	"errors"
	"fmt"
)

// Expected failure conditions returned by the engines. Controllers translate
// these into HTTP responses; anything else is treated as a server error.
var (
	// ErrNotFound covers both missing resources and enrollment gate failures;
	// access failures are deliberately indistinguishable from missing rows.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks malformed or semantically invalid submissions.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTenantNotFound means the requested subdomain has no tenant record.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrDataIntegrity marks corrupt content data (e.g. a question without a
	// correct choice). Surfaced as a server-side configuration error.
	ErrDataIntegrity = errors.New("data integrity error")
)

// invalidInput wraps ErrInvalidInput with a user-facing detail message.
func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}

// Detail strips the sentinel prefix from a wrapped input error so the message
// can be placed into a field-level errors map.
func Detail(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidInput, ErrDataIntegrity} {
		prefix := sentinel.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}
