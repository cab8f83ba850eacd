package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginInput struct {
	Destination string `validate:"required,destination"`
}

func TestValidateDestination(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name        string
		destination string
		wantErr     bool
	}{
		{name: "email", destination: "user@example.com"},
		{name: "phone e164", destination: "+15551234567"},
		{name: "phone no plus", destination: "15551234567", wantErr: true},
		{name: "phone leading zero", destination: "+05551234567", wantErr: true},
		{name: "phone too long", destination: "+1234567890123456", wantErr: true},
		{name: "bare word", destination: "not-a-destination", wantErr: true},
		{name: "empty", destination: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(loginInput{Destination: tt.destination})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateReturnsFieldMap(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(loginInput{})
	require.Error(t, err)

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Values(), "destination")
}
