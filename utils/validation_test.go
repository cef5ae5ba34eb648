package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Login    string `validate:"required,max=20"`
	Password string `validate:"required,min=8,max=20"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Login: "alice", Password: "Sup3rSecret1"})
		assert.NoError(t, err)
	})

	t.Run("missing fields are reported per field", func(t *testing.T) {
		err := ValidateStruct(sampleInput{})
		require.Error(t, err)
		require.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Login")
		assert.Contains(t, fields, "Password")
	})

	t.Run("length bounds are enforced", func(t *testing.T) {
		err := ValidateStruct(sampleInput{Login: "alice", Password: "short"})
		require.Error(t, err)
		assert.Contains(t, GetValidationFields(err), "Password")

		err = ValidateStruct(sampleInput{
			Login:    "this-login-is-way-too-long-for-the-limit",
			Password: "Sup3rSecret1",
		})
		require.Error(t, err)
		assert.Contains(t, GetValidationFields(err), "Login")
	})
}

func TestValidatePasswordStrength(t *testing.T) {
	valid := []string{"Sup3rSecret", "Aa1bbbbb", "PASSword123"}
	for _, p := range valid {
		assert.True(t, ValidatePasswordStrength(p), p)
	}

	invalid := []string{"", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere", "12345678"}
	for _, p := range invalid {
		assert.False(t, ValidatePasswordStrength(p), p)
	}
}

func TestGetValidationFieldsOnOtherErrors(t *testing.T) {
	assert.Nil(t, GetValidationFields(nil))
	assert.False(t, IsValidationError(nil))
}
