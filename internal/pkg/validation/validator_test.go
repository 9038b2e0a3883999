package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type credentials struct {
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestLooseEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"kelly@example.com", true},
		{"a@b.co", true},
		{"first.last+tag@sub.domain.io", true},
		{"no-at-sign.com", false},
		{"missing@tld", false},
		{"has space@example.com", false},
		{"two@@example.com", false},
		{"@example.com", false},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			errs, err := v.Struct(credentials{Email: tt.email, Password: "secret1"})
			require.NoError(t, err)
			assert.Equal(t, !tt.valid, Has(errs, "email", "loose_email"))
		})
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	errs, err := Get().Struct(credentials{Email: "", Password: "123"})
	require.NoError(t, err)

	assert.True(t, Has(errs, "email", "required"))
	assert.True(t, Has(errs, "password", "min"))
	assert.True(t, Has(errs, "", "required"))
	assert.False(t, Has(errs, "password", "required"))
}

func TestStructValid(t *testing.T) {
	errs, err := Get().Struct(credentials{Email: "a@b.co", Password: "123456"})
	require.NoError(t, err)
	assert.Nil(t, errs)
}
