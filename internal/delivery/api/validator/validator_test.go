package validator

import (
	"testing"

	"accounts/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   any
		wantErr string
	}{
		{
			name:  "valid create",
			input: &usecase.CreateAccountInput{Username: "test", Password: "test", Email: "test@test.com", Role: "USER"},
		},
		{
			name:    "missing fields",
			input:   &usecase.CreateAccountInput{Email: "test@test.com"},
			wantErr: "username is required; password is required; role is required",
		},
		{
			name:    "bad email",
			input:   &usecase.UpdateAccountInput{Username: "test", Password: "test", Email: "not-an-email", Role: "USER"},
			wantErr: "email must be a valid email",
		},
		{
			name:  "login accepts any email text",
			input: &usecase.LoginInput{Email: "test", Password: "test"},
		},
		{
			name:    "login missing password",
			input:   &usecase.LoginInput{Email: "test@test.com"},
			wantErr: "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)

				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestEchoValidator_NonStruct(t *testing.T) {
	assert.Error(t, New().Validate("not a struct"))
}
