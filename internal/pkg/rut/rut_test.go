package rut

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12.345.678-5", true},
		{"12345678-5", true},
		{"123456785", true},
		{"11.111.111-1", true},
		{"6-K", true},
		{"6-k", true},
		{"12.345.678-9", false},
		{"11.111.111-2", false},
		{"", false},
		{"-5", false},
		{"abc-5", false},
		{"12.345.678-X", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.in), "Valid(%q)", tt.in)
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize(" 12.345.678-k ")
	assert.NoError(t, err)
	assert.Equal(t, "12345678-K", got)

	_, err = Normalize("x")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFormat(t *testing.T) {
	got, err := Format("123456785")
	assert.NoError(t, err)
	assert.Equal(t, "12.345.678-5", got)

	got, err = Format("6k")
	assert.NoError(t, err)
	assert.Equal(t, "6-K", got)
}
