package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("longenough1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", hash)

	assert.NoError(t, CompareHash(hash, "longenough1"))
	assert.Error(t, CompareHash(hash, "otherpassword"))
}

func TestHashSaltedPerCall(t *testing.T) {
	first, err := Hash("longenough1", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := Hash("longenough1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashOutOfRangeCostFallsBack(t *testing.T) {
	hash, err := Hash("longenough1", 99)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
