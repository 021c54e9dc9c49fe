package nationalid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/clinic-identity/internal/domain"
)

func TestParseDerivesDateAndGender(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		dob    time.Time
		gender domain.Gender
	}{
		{
			name:   "century digit two female",
			id:     "29001010000000",
			dob:    time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
			gender: domain.GenderFemale,
		},
		{
			name:   "century digit three male",
			id:     "30512241234567",
			dob:    time.Date(2005, time.December, 24, 0, 0, 0, 0, time.UTC),
			gender: domain.GenderMale,
		},
		{
			name:   "leap day accepted on leap year",
			id:     "29602290000013",
			dob:    time.Date(1996, time.February, 29, 0, 0, 0, 0, time.UTC),
			gender: domain.GenderMale,
		},
		{
			name:   "end of month boundary",
			id:     "28812310000008",
			dob:    time.Date(1988, time.December, 31, 0, 0, 0, 0, time.UTC),
			gender: domain.GenderFemale,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.dob, got.DateOfBirth)
			assert.Equal(t, tc.gender, got.Gender)
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first, err := Parse("29001010000000")
	require.NoError(t, err)
	second, err := Parse("29001010000000")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestParseRejectsInvalidIDs(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"unknown century digit", "40001010000000"},
		{"century digit one", "19001010000000"},
		{"day thirty in february", "29002300000001"},
		{"leap day on non-leap year", "29502290000001"},
		{"month thirteen", "29013010000001"},
		{"day zero", "29001000000001"},
		{"too short", "2900101000000"},
		{"too long", "290010100000001"},
		{"non digit character", "2900101000000a"},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.id)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
