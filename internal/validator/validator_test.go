package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSubmission(t *testing.T) {
	v := New()

	valid := Submission{
		Role:     "builder",
		Name:     "Arjun Mehta",
		Email:    "arjun@example.com",
		Password: "longenough",
	}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantErr error
	}{
		{name: "valid", mutate: func(s *Submission) {}, wantErr: nil},
		{name: "missing role", mutate: func(s *Submission) { s.Role = "" }, wantErr: ErrMissingRequiredFields},
		{name: "missing everything reports required first", mutate: func(s *Submission) { *s = Submission{Email: "bad"} }, wantErr: ErrMissingRequiredFields},
		{name: "bad email", mutate: func(s *Submission) { s.Email = "arjun-at-example" }, wantErr: ErrInvalidEmail},
		{name: "short password", mutate: func(s *Submission) { s.Password = "1234567" }, wantErr: ErrPasswordTooShort},
		{name: "email checked before password", mutate: func(s *Submission) { s.Email = "bad"; s.Password = "short" }, wantErr: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := v.ValidateSubmission(s)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
