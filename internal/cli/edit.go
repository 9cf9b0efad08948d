package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophprofile/internal/common"
	"github.com/dmitrijs2005/gophprofile/internal/form"
	"github.com/dmitrijs2005/gophprofile/internal/models"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// readSecret reads a password without echo on a terminal and falls back to a
// plain line read when input is piped.
func (a *App) readSecret(prompt string) (string, error) {
	if !isTerminal(stdinFd()) {
		return GetSimpleText(a.reader, prompt, a.out)
	}
	pw, err := GetPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Edit walks through every form field, validates the result and saves it.
// Empty input keeps the current value.
func (a *App) Edit(ctx context.Context) error {
	f := a.snapshot()

	var err error
	if f.FirstName, err = GetTextOrKeep(a.reader, "First name", f.FirstName, a.out); err != nil {
		return fmt.Errorf("get first name: %w", err)
	}
	if f.LastName, err = GetTextOrKeep(a.reader, "Last name", f.LastName, a.out); err != nil {
		return fmt.Errorf("get last name: %w", err)
	}
	if f.Email, err = GetTextOrKeep(a.reader, "Email", f.Email, a.out); err != nil {
		return fmt.Errorf("get email: %w", err)
	}

	birthday, err := GetTextOrKeep(a.reader, "Birthday (YYYY-MM-DD)", f.Birthday.String(), a.out)
	if err != nil {
		return fmt.Errorf("get birthday: %w", err)
	}
	if f.Birthday, err = models.ParseDate(birthday); err != nil {
		return err
	}

	gender, err := GetTextOrKeep(a.reader, fmt.Sprintf("Gender %v", models.Genders), string(f.Gender), a.out)
	if err != nil {
		return fmt.Errorf("get gender: %w", err)
	}
	if f.Gender, err = form.ParseGender(gender); err != nil {
		return err
	}

	if err := a.editPassword(&f); err != nil {
		return err
	}

	if err := f.Validate(); err != nil {
		for _, e := range unjoin(err) {
			printlnFn(" -", e)
		}
		return errInvalidForm
	}

	if err := a.manager.SaveProfile(ctx, f.Profile()); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	a.mu.Lock()
	photo := a.form.Photo
	*a.form = f
	a.form.Photo = photo
	a.mu.Unlock()

	printlnFn("Profile saved")
	return nil
}

// editPassword asks for a new password and its confirmation. An empty first
// entry keeps the current one.
func (a *App) editPassword(f *form.Fields) error {
	prompt := "Password"
	if f.Password != "" {
		prompt = "Password (empty to keep)"
	}
	pw, err := a.readSecret(prompt)
	if err != nil {
		return fmt.Errorf("get password: %w", err)
	}
	if pw == "" {
		f.ConfirmPassword = f.Password
		return nil
	}

	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return fmt.Errorf("get password confirmation: %w", err)
	}
	f.Password, f.ConfirmPassword = pw, confirm

	if f.PasswordMismatch() {
		printlnFn("Passwords do not match")
	}
	return nil
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

