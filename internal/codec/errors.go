package codec

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophprofile/internal/models"
)

// ErrInvalidText is returned by CheckText for a field that is not valid
// UTF-8. JSON replaces such bytes with U+FFFD, so they would not survive a
// save and load.
var ErrInvalidText = errors.New("text is not valid UTF-8")

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("profile decode failed")

// DecodeError reports stored profile bytes that do not match the expected
// schema: absent, truncated, mistyped, or written by a newer version.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// CheckText reports the first text field of p that Encode cannot store
// verbatim.
func CheckText(p models.Profile) error {
	fields := []struct{ name, value string }{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"gender", string(p.Gender)},
		{"password", p.Password},
	}
	for _, f := range fields {
		if !utf8.ValidString(f.value) {
			return fmt.Errorf("%s: %w", f.name, ErrInvalidText)
		}
	}
	return nil
}

func decodeErr(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}
