// Package codec converts a models.Profile to and from its stored byte form.
//
// The stored form is a versioned JSON document:
//
//	{"version":1,"profile":{"first_name":"Ada","last_name":"Lovelace",...}}
//
// Documents without a version field are treated as legacy documents written
// by the first release of the app (see legacy.go). That release stored them
// under the keys "userProfile" and "profileImage". Decode only sees bytes the
// caller passes in, so a legacy document is recognised only after it has
// been moved under common.ProfileKey; this package does not migrate keys.
//
// Text fields round-trip only when they are valid UTF-8 (see CheckText).
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gophprofile/internal/models"
)

// CurrentVersion is written by Encode and is the newest version Decode accepts.
const CurrentVersion = 1

type document struct {
	Version *int            `json:"version"`
	Profile json.RawMessage `json:"profile"`
}

type profileV1 struct {
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Birthday  models.Date `json:"birthday"`
	Gender    string      `json:"gender"`
	Password  string      `json:"password"`
}

var profileV1Fields = []string{"first_name", "last_name", "email", "birthday", "gender", "password"}

// Encode serializes p. It never fails for an in-memory Profile, but text
// fields round-trip only when they are valid UTF-8; invalid bytes come back
// as U+FFFD. Run CheckText first when the input is untrusted.
func Encode(p models.Profile) []byte {
	body, err := json.Marshal(profileV1{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Birthday:  p.Birthday,
		Gender:    string(p.Gender),
		Password:  p.Password,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to marshal profile: %v", err))
	}

	v := CurrentVersion
	data, err := json.Marshal(document{Version: &v, Profile: body})
	if err != nil {
		panic(fmt.Sprintf("failed to marshal profile document: %v", err))
	}
	return data
}

// Decode parses data produced by Encode or by the legacy app. Every failure
// is a *DecodeError; Decode never panics on malformed input.
func Decode(data []byte) (models.Profile, error) {
	if len(data) == 0 {
		return models.Profile{}, decodeErr("empty data", nil)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Profile{}, decodeErr("malformed document", err)
	}

	if doc.Version == nil {
		return decodeLegacy(data)
	}

	switch *doc.Version {
	case 1:
		return decodeV1(doc.Profile)
	default:
		return models.Profile{}, decodeErr(fmt.Sprintf("unsupported version %d", *doc.Version), nil)
	}
}

func decodeV1(body json.RawMessage) (models.Profile, error) {
	if len(body) == 0 || string(body) == "null" {
		return models.Profile{}, decodeErr("missing profile", nil)
	}
	if err := requireFields(body, profileV1Fields); err != nil {
		return models.Profile{}, err
	}

	var p profileV1
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Profile{}, decodeErr("malformed profile", err)
	}

	return models.Profile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Birthday:  p.Birthday,
		Gender:    models.Gender(p.Gender),
		Password:  p.Password,
	}, nil
}

// requireFields reports the first of fields missing from the JSON object body.
func requireFields(body []byte, fields []string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return decodeErr("profile is not an object", err)
	}
	for _, f := range fields {
		if _, ok := raw[f]; !ok {
			return decodeErr(fmt.Sprintf("missing field %q", f), nil)
		}
	}
	return nil
}
