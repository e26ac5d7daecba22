package auth

import (
	"fmt"
	"strings"
	"teamchat/errors"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxReactionRunes = 8

var validate = newValidator()

// newValidator adds the rules shared by registration and the domain
// commands:
//   - notblank: the string has something left after trimming spaces
//   - reaction: a short symbol without spaces, such as an emoji
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("reaction", func(fl validator.FieldLevel) bool {
		symbol := fl.Field().String()
		if symbol == "" || utf8.RuneCountInString(symbol) > maxReactionRunes {
			return false
		}
		return strings.IndexFunc(symbol, unicode.IsSpace) < 0
	})
	return v
}

// Validate checks the struct tags of a request or a domain command.
func Validate(cmd any) error {
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidCommand, err)
	}
	return nil
}

type RegisterRequest struct {
	Email       string `validate:"required,email,max=254"`
	DisplayName string `validate:"notblank,max=64"`
	Password    string `validate:"required,min=12,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
