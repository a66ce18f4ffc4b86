package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	p := Principal{
		TenantID:     "tenant-1",
		UserID:       "user-1",
		Role:         "operator",
		WarehouseIDs: []string{"wh-1", "wh-2"},
	}

	token, err := GenerateToken(p, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", claims.TenantID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "operator", claims.Role)
	assert.Equal(t, []string{"wh-1", "wh-2"}, claims.WarehouseIDs)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(Principal{TenantID: "tenant-1", UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken(Principal{TenantID: "tenant-1", UserID: "user-1"}, time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthorizedFor(t *testing.T) {
	unrestricted := Principal{TenantID: "tenant-1"}
	assert.True(t, unrestricted.AuthorizedFor("wh-1"))

	restricted := Principal{TenantID: "tenant-1", WarehouseIDs: []string{"wh-1"}}
	assert.True(t, restricted.AuthorizedFor("wh-1"))
	assert.False(t, restricted.AuthorizedFor("wh-2"))
}
