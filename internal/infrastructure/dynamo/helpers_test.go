package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	key := strKey("session_id", "abc123")
	require.Len(t, key, 1)
	s, ok := key["session_id"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "abc123", s.Value)
}

func TestNumKey(t *testing.T) {
	key := numKey("user_id", 42)
	require.Len(t, key, 1)
	n, ok := key["user_id"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "42", n.Value)
}

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	expr, names, values, err := buildUpdateExpr(map[string]interface{}{"tier": "premium"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", expr)
	assert.Equal(t, "tier", names["#f0"])
	s, ok := values[":v0"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "premium", s.Value)
}

func TestBuildUpdateExpr_Empty(t *testing.T) {
	_, _, _, err := buildUpdateExpr(map[string]interface{}{})
	assert.Error(t, err)
}
