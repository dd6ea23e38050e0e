package validator_test

import (
	"testing"

	"github.com/vibe-gaming/bmr-reminder/pkg/validator"

	"github.com/stretchr/testify/assert"
)

type codeHolder struct {
	Code int64 `json:"code" validate:"onetimecode"`
}

type codeString struct {
	Code string `json:"code" validate:"onetimecode"`
}

func TestOneTimeCode(t *testing.T) {
	v := validator.New()

	assert.NoError(t, v.Struct(codeHolder{Code: 10_000_000}))
	assert.NoError(t, v.Struct(codeHolder{Code: 99_999_999}))
	assert.Error(t, v.Struct(codeHolder{Code: 9_999_999}))
	assert.Error(t, v.Struct(codeHolder{Code: 100_000_000}))

	assert.NoError(t, v.Struct(codeString{Code: "12345678"}))
	assert.Error(t, v.Struct(codeString{Code: "01234567"}))
	assert.Error(t, v.Struct(codeString{Code: "1234a678"}))
}

func TestFieldNamesFollowJSONTags(t *testing.T) {
	v := validator.New()

	err := v.Struct(codeHolder{Code: 1})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "codeHolder.code")
	}
}
