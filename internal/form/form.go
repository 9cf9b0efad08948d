// Package form holds the state of the profile form, validates it and
// converts it to and from the stored record.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophprofile/internal/codec"
	"github.com/dmitrijs2005/gophprofile/internal/models"
)

var (
	ErrFirstNameRequired = errors.New("first name is required")
	ErrLastNameRequired  = errors.New("last name is required")
	ErrInvalidEmail      = errors.New("email must contain @")
	ErrPasswordRequired  = errors.New("password is required")
	ErrPasswordMismatch  = errors.New("passwords do not match")
	ErrUnknownGender     = errors.New("unknown gender")
	ErrInvalidText       = codec.ErrInvalidText
)

// Fields is the editable form state. ConfirmPassword and Photo never reach
// the profile record.
type Fields struct {
	FirstName       string
	LastName        string
	Email           string
	Birthday        models.Date
	Gender          models.Gender
	Password        string
	ConfirmPassword string

	Photo *models.DecodedImage
}

// New returns an empty form with the default gender and today's date.
func New() *Fields {
	return &Fields{
		Gender:   models.GenderMale,
		Birthday: models.Today(),
	}
}

// FromProfile fills a form from a stored record. The confirmation field is
// set to the stored password so an untouched form validates.
func FromProfile(p models.Profile) *Fields {
	return &Fields{
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Birthday:        p.Birthday,
		Gender:          p.Gender,
		Password:        p.Password,
		ConfirmPassword: p.Password,
	}
}

// Hydrate replaces the form contents with whatever was loaded. A nil profile
// keeps the current field values; a nil image clears nothing.
func (f *Fields) Hydrate(p *models.Profile, img *models.DecodedImage) {
	if p != nil {
		photo := f.Photo
		*f = *FromProfile(*p)
		f.Photo = photo
	}
	if img != nil {
		f.Photo = img
	}
}

// Profile builds the record to be saved.
func (f *Fields) Profile() models.Profile {
	return models.Profile{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Birthday:  f.Birthday,
		Gender:    f.Gender,
		Password:  f.Password,
	}
}

// Validate reports every rule the form breaks, joined with errors.Join.
func (f *Fields) Validate() error {
	var errs []error

	if strings.TrimSpace(f.FirstName) == "" {
		errs = append(errs, ErrFirstNameRequired)
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs = append(errs, ErrLastNameRequired)
	}
	if !strings.Contains(f.Email, "@") {
		errs = append(errs, ErrInvalidEmail)
	}
	if _, err := ParseGender(string(f.Gender)); err != nil {
		errs = append(errs, err)
	}
	if f.Password == "" {
		errs = append(errs, ErrPasswordRequired)
	} else if f.Password != f.ConfirmPassword {
		errs = append(errs, ErrPasswordMismatch)
	}
	if err := codec.CheckText(f.Profile()); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (f *Fields) Valid() bool { return f.Validate() == nil }

// PasswordMismatch is true only once both password fields are filled in and
// differ, which is when the form shows its inline warning.
func (f *Fields) PasswordMismatch() bool {
	return f.Password != "" && f.ConfirmPassword != "" && f.Password != f.ConfirmPassword
}

// ParseGender matches s against models.Genders ignoring case.
func ParseGender(s string) (models.Gender, error) {
	s = strings.TrimSpace(s)
	for _, g := range models.Genders {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}
