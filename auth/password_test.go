package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard_Plain_Secret(t *testing.T) {
	req := require.New(t)
	guard := NewGuard("PleaseGiveUsExtraCredit:)")

	req.True(guard.Verify("PleaseGiveUsExtraCredit:)"))
	req.False(guard.Verify("pleasegiveusextracredit:)"))
	req.False(guard.Verify(""))
}

func TestGuard_Hashed_Secret(t *testing.T) {
	req := require.New(t)

	// Given a secret stored as an encoded argon2id hash
	encoded, err := HashSecret("s3cret")
	req.NoError(err)
	guard := NewGuard(encoded)

	// Then verification works against the original secret only
	req.True(guard.Verify("s3cret"))
	req.False(guard.Verify("s3cret "))
	req.False(guard.Verify(encoded))
}

func TestGuard_Malformed_Hash_Rejects(t *testing.T) {
	guard := NewGuard("$argon2id$broken")
	require.False(t, guard.Verify("anything"))
}

func TestHashSecret_Unique_Salts(t *testing.T) {
	req := require.New(t)
	a, err := HashSecret("same")
	req.NoError(err)
	b, err := HashSecret("same")
	req.NoError(err)
	req.NotEqual(a, b)
}
