package pkg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodeMail(t *testing.T) {
	m, err := NewCodeMail("alice@example.com", "Password reset code", "a password reset", "123456", 5*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", m.To)
	assert.Equal(t, "Password reset code", m.Subject)
	assert.Contains(t, m.HTML, "123456")
	assert.Contains(t, m.HTML, "5 minutes")
	assert.Contains(t, m.HTML, "a password reset")
}

func TestSendEmailWithoutHost(t *testing.T) {
	err := SendEmail(SMTPConfig{}, Mail{To: "alice@example.com"})
	assert.ErrorIs(t, err, ErrSMTPNotConfigured)
}
