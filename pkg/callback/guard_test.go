package callback

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Check(t *testing.T) {
	g, err := NewGuard("1.1.1.1", "10.0.0.0/8")
	require.NoError(t, err)

	tests := []struct {
		addr    string
		allowed bool
	}{
		{addr: "1.1.1.1", allowed: true},
		{addr: "1.1.1.1:5555", allowed: true},
		{addr: "10.2.3.4:80", allowed: true},
		{addr: "196.216.236.2", allowed: false},
		{addr: "garbage", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			err := g.Check(tt.addr)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrForbidden))
			}
		})
	}
}

func TestGuard_EmptyAllowsAll(t *testing.T) {
	g, err := NewGuard("", " ")
	require.NoError(t, err)
	assert.False(t, g.Enabled())
	assert.NoError(t, g.Check("8.8.8.8"))

	var nilGuard *Guard
	assert.NoError(t, nilGuard.Check("8.8.8.8"))
}

func TestGuard_Default(t *testing.T) {
	g, err := NewGuard(DefaultAllowedIPs...)
	require.NoError(t, err)
	assert.NoError(t, g.Check("196.216.236.2:443"))
	assert.ErrorIs(t, g.Check("1.1.1.1"), ErrForbidden)
}

func TestNewGuard_Invalid(t *testing.T) {
	_, err := NewGuard("not-an-ip")
	assert.Error(t, err)

	_, err = NewGuard("10.0.0.0/99")
	assert.Error(t, err)
}
