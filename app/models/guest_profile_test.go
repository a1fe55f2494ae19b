package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGuestProfileAge(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth *time.Time
		want  int
	}{
		{name: "no birth date", birth: nil, want: 0},
		{name: "birthday already passed", birth: timePtr(time.Date(2000, 3, 1, 0, 0, 0, 0, time.UTC)), want: 26},
		{name: "birthday not yet reached", birth: timePtr(time.Date(2000, 9, 1, 0, 0, 0, 0, time.UTC)), want: 25},
		{name: "birthday today", birth: timePtr(time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)), want: 26},
		{name: "born after reference", birth: timePtr(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)), want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := GuestProfile{BirthDate: tt.birth}
			assert.Equal(t, tt.want, g.Age(at))
		})
	}
}

func TestGuestProfileAgeBand(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	bands := map[int]string{
		16: "<18",
		18: "18-24",
		24: "18-24",
		25: "25-34",
		40: "35-44",
		50: "45-54",
		60: "55-64",
		70: "65+",
	}

	for age, want := range bands {
		g := GuestProfile{BirthDate: timePtr(at.AddDate(-age, 0, -1))}
		assert.Equal(t, want, g.AgeBand(at), "age %d", age)
	}
}
