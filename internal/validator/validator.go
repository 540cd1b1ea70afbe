package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingRequiredFields = errors.New("Please fill in all required fields")
	ErrInvalidEmail          = errors.New("Please enter a valid email address")
	ErrPasswordTooShort      = errors.New("Password must be at least 8 characters long")
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Submission struct {
	Role     string
	Name     string
	Email    string
	Password string
}

// ValidateEmail reports ErrInvalidEmail for a malformed address.
func (v *Validator) ValidateEmail(email string) error {
	if err := v.validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateSubmission checks a registration submission and returns the first
// failing check: required fields, then email format, then password length.
func (v *Validator) ValidateSubmission(s Submission) error {
	if s.Role == "" || s.Name == "" || s.Email == "" || s.Password == "" {
		return ErrMissingRequiredFields
	}
	if err := v.validate.Var(s.Email, "email"); err != nil {
		return ErrInvalidEmail
	}
	if len(s.Password) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
