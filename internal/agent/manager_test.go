package agent

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"horizonhomes/internal/validator"
)

func TestContactValidation(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	// Validation rejects the request before the store or notifier is touched,
	// so neither needs to be wired here.
	manager := NewManager(log, nil, validator.New(), nil)

	valid := ContactParam{
		Name:    "Arjun Mehta",
		Email:   "arjun@example.com",
		Phone:   "+91 91234 56789",
		Message: "Need help furnishing a new flat.",
	}

	tests := []struct {
		name    string
		mutate  func(*ContactParam)
		wantErr error
	}{
		{name: "missing name", mutate: func(p *ContactParam) { p.Name = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "missing email", mutate: func(p *ContactParam) { p.Email = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "missing phone", mutate: func(p *ContactParam) { p.Phone = "" }, wantErr: validator.ErrMissingRequiredFields},
		{name: "invalid email", mutate: func(p *ContactParam) { p.Email = "arjun-at-example" }, wantErr: validator.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := valid
			tt.mutate(&param)

			_, err := manager.Contact(context.Background(), uuid.New(), param)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
