// Package nationalid derives demographic attributes from the 14-digit
// national identification number.
//
// Layout: C YY MM DD GGGGGG S where C is the century digit ('2' for
// 1900-1999, '3' for 2000-2099), YY MM DD the birth date within that
// century, and S the sequence digit whose parity encodes gender.
package nationalid

import (
	"errors"
	"time"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

// ErrInvalid reports a national id that cannot be derived from:
// wrong length, non-digit characters, unknown century digit, or a
// date that does not exist on the calendar.
var ErrInvalid = errors.New("invalid national id")

// Demographics is the derivation result.
type Demographics struct {
	DateOfBirth time.Time
	Gender      domain.Gender
}

// Parse derives date of birth and gender from a national id. It has no
// side effects and is deterministic for any given input.
func Parse(id string) (Demographics, error) {
	if len(id) != 14 {
		return Demographics{}, ErrInvalid
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return Demographics{}, ErrInvalid
		}
	}

	var base int
	switch id[0] {
	case '2':
		base = 1900
	case '3':
		base = 2000
	default:
		return Demographics{}, ErrInvalid
	}

	year := base + digits(id[1:3])
	month := digits(id[3:5])
	day := digits(id[5:7])

	dob := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (Feb 30 becomes
	// Mar 1/2); a round-trip mismatch means the encoded date does not
	// exist on the calendar.
	if dob.Year() != year || dob.Month() != time.Month(month) || dob.Day() != day {
		return Demographics{}, ErrInvalid
	}

	gender := domain.GenderMale
	if (id[13]-'0')%2 == 0 {
		gender = domain.GenderFemale
	}

	return Demographics{DateOfBirth: dob, Gender: gender}, nil
}

func digits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
