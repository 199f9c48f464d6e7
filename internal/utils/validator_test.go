// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type passwordInput struct {
	Password string `validate:"strong_password"`
}

type phoneInput struct {
	Phone string `validate:"egyptian_phone"`
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Str0ngPass", true},
		{"Aa1aaaaa", true},
		{"short1A", false},   // under 8 chars
		{"alllower1", false}, // no upper
		{"ALLUPPER1", false}, // no lower
		{"NoNumbers", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&passwordInput{Password: tc.password})
		if tc.valid {
			assert.NoError(t, err, tc.password)
		} else {
			assert.Error(t, err, tc.password)
		}
	}
}

func TestEgyptianPhone(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"01001234567", true},
		{"01112345678", true},
		{"01212345678", true},
		{"01512345678", true},
		{"+201001234567", true},
		{"01312345678", false}, // invalid carrier prefix
		{"0100123456", false},  // too short
		{"010012345678", false},
		{"201001234567", false},
		{"not-a-number", false},
	}

	for _, tc := range cases {
		err := ValidateStruct(&phoneInput{Phone: tc.phone})
		if tc.valid {
			assert.NoError(t, err, tc.phone)
		} else {
			assert.Error(t, err, tc.phone)
		}
	}
}

func TestGetValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required"`
	}

	err := ValidateStruct(&form{Email: "nope"})
	assert.Error(t, err)

	errs := GetValidationErrors(err)
	assert.Len(t, errs, 2)

	fields := make(map[string]string)
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "required", fields["name"])
}
