package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubscriberEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid address", raw: "user@example.com", wantErr: false},
		{name: "valid short domain", raw: "pog@dog.log", wantErr: false},
		{name: "empty", raw: "", wantErr: true},
		{name: "whitespace only", raw: strings.Repeat(" ", 10), wantErr: true},
		{name: "missing at symbol", raw: "pogdog.log", wantErr: true},
		{name: "missing subject", raw: "@dog.log", wantErr: true},
		{name: "missing domain", raw: "pog@", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NewSubscriberEmail(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, email.String())
		})
	}
}

func TestParseNewSubscriber(t *testing.T) {
	sub, err := ParseNewSubscriber("pog dog", "pogolius@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "pog dog", sub.Name.String())
	assert.Equal(t, "pogolius@gmail.com", sub.Email.String())

	_, err = ParseNewSubscriber("", "pogolius@gmail.com")
	assert.Error(t, err)

	_, err = ParseNewSubscriber("pog dog", "some_mail_address")
	assert.Error(t, err)
}
