// Package models defines the profile record, its calendar date type and the
// decoded representation of the profile photo.
package models

// Gender is stored as free text; the form restricts input to Genders.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders is the closed set offered by the profile form, in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// Profile is the single user profile kept on the device.
//
// It is a flat value: equality is field-wise and a saved Profile fully
// replaces the previous one.
type Profile struct {
	FirstName string
	LastName  string
	Email     string
	Birthday  Date
	Gender    Gender
	Password  string
}

// FullName joins first and last name for display.
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
