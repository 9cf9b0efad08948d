package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/gophprofile/internal/models"
)

// referenceDate is the epoch the legacy app used for numeric dates.
var referenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

type legacyProfile struct {
	FirstName string          `json:"firstname"`
	LastName  string          `json:"lastname"`
	Email     string          `json:"email"`
	Birthday  json.RawMessage `json:"birthday"`
	Gender    string          `json:"gender"`
	Password  string          `json:"password"`
}

var legacyFields = []string{"firstname", "lastname", "email", "birthday", "gender", "password"}

func decodeLegacy(data []byte) (models.Profile, error) {
	if err := requireFields(data, legacyFields); err != nil {
		return models.Profile{}, err
	}

	var p legacyProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Profile{}, decodeErr("malformed legacy profile", err)
	}

	birthday, err := legacyDate(p.Birthday)
	if err != nil {
		return models.Profile{}, decodeErr("malformed legacy birthday", err)
	}

	return models.Profile{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Birthday:  birthday,
		Gender:    models.Gender(p.Gender),
		Password:  p.Password,
	}, nil
}

// legacyDate accepts seconds since referenceDate, an RFC 3339 timestamp or
// a plain "YYYY-MM-DD" date. The calendar date is taken in UTC.
func legacyDate(raw json.RawMessage) (models.Date, error) {
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || math.Abs(secs) > 1e11 {
			return models.Date{}, fmt.Errorf("timestamp out of range: %v", secs)
		}
		t := time.Unix(referenceDate.Unix()+int64(math.Floor(secs)), 0).UTC()
		return models.DateOf(t), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return models.Date{}, fmt.Errorf("birthday is neither number nor string")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.DateOf(t.UTC()), nil
	}
	return models.ParseDate(s)
}
