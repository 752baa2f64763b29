package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("doc-1", "doctor", time.Hour)
	require.NoError(t, err)

	id, role, err := ExtractActorFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "doctor", role)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateToken("hosp-1", "hospital", -time.Minute)
	require.NoError(t, err)

	_, _, err = ExtractActorFromToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, _, err := ExtractActorFromToken("not-a-token")
	assert.Error(t, err)
}
