package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type profileForm struct {
	Website string `validate:"omitempty,url"`
	Bio     string `validate:"max=5"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(profileForm{Website: "https://example.com", Bio: "hi"}))

	errs := Validate(profileForm{Website: "not a url", Bio: "far too long"})
	assert.Equal(t, map[string]string{"website": "url", "bio": "max"}, errs)
}

func TestDescribe_NonValidationError(t *testing.T) {
	assert.Equal(t, map[string]string{"body": "unexpected EOF"}, Describe(errors.New("unexpected EOF")))
	assert.Nil(t, Describe(nil))
}
