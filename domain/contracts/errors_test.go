package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_KeepsEveryMessage(t *testing.T) {
	err := &ServiceError{
		Operation: "createBlog",
		Errors: []GraphQLError{
			{Message: "Not Authorized to access createBlog on type Mutation", ErrorType: "Unauthorized"},
			{Message: "Validation error of type FieldUndefined", Path: []string{"createBlog", "content"}},
		},
	}

	assert.Equal(t, []string{
		"Not Authorized to access createBlog on type Mutation",
		"Validation error of type FieldUndefined (at createBlog.content)",
	}, err.Messages())
	assert.Contains(t, err.Error(), "createBlog failed")
	assert.Contains(t, err.Error(), "FieldUndefined")
}

func TestServiceError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load list page: %w", NewServiceError("listBlogs", cause))

	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "listBlogs", se.Operation)
	assert.Equal(t, []string{"connection refused"}, se.Messages())
	assert.ErrorIs(t, err, cause)

	_, ok = AsServiceError(ErrItemNotFound)
	assert.False(t, ok)
}

func TestParseAuthMode(t *testing.T) {
	mode, ok := ParseAuthMode("API_KEY")
	assert.True(t, ok)
	assert.Equal(t, AuthModeAPIKey, mode)

	mode, ok = ParseAuthMode("AMAZON_COGNITO_USER_POOLS")
	assert.True(t, ok)
	assert.Equal(t, AuthModeUserPool, mode)

	_, ok = ParseAuthMode("AWS_IAM")
	assert.False(t, ok)
}
