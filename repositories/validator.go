package repositories

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

type handleRule struct {
	Handle string `validate:"required,max=30,nowhitespace"`
}

type messageRule struct {
	Message string `validate:"required,max=100"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// IsValidHandle reports whether a handle has 1 to 30 runes and no whitespace.
func IsValidHandle(handle string) bool {
	return validate.Struct(handleRule{Handle: handle}) == nil
}

// IsValidMessage reports whether a message has 1 to 100 runes.
func IsValidMessage(message string) bool {
	return validate.Struct(messageRule{Message: message}) == nil
}
