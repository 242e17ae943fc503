package contracts

import (
	"context"

	"todoblog/domain/todo"
)

// AuthMode selects the identity a data-service call runs under.
type AuthMode string

const (
	// AuthModeDefault defers to the client's configured default mode.
	AuthModeDefault AuthMode = ""
	// AuthModeAPIKey runs anonymously with the project API key.
	AuthModeAPIKey AuthMode = "API_KEY"
	// AuthModeUserPool runs as the signed-in user and requires a token.
	AuthModeUserPool AuthMode = "AMAZON_COGNITO_USER_POOLS"
)

// ParseAuthMode maps a configuration value to an AuthMode.
func ParseAuthMode(v string) (AuthMode, bool) {
	switch AuthMode(v) {
	case AuthModeAPIKey, AuthModeUserPool:
		return AuthMode(v), true
	case AuthModeDefault:
		return AuthModeDefault, true
	default:
		return AuthModeDefault, false
	}
}

// Authorization is the auth context of a single data-service call.
type Authorization struct {
	Mode  AuthMode
	Token string
}

// DefaultAuth uses the client's default mode.
func DefaultAuth() Authorization {
	return Authorization{Mode: AuthModeDefault}
}

// APIKeyAuth runs a call anonymously.
func APIKeyAuth() Authorization {
	return Authorization{Mode: AuthModeAPIKey}
}

// UserPoolAuth runs a call as the user owning token.
func UserPoolAuth(token string) Authorization {
	return Authorization{Mode: AuthModeUserPool, Token: token}
}

// DataService executes the item operations of the hosted data API.
// GetItem returns ErrItemNotFound when the service reports no item.
type DataService interface {
	ListItems(ctx context.Context, auth Authorization) ([]todo.Item, error)
	GetItem(ctx context.Context, auth Authorization, id string) (*todo.Item, error)
	CreateItem(ctx context.Context, auth Authorization, input todo.CreateItemInput) (*todo.Item, error)
	DeleteItem(ctx context.Context, auth Authorization, id string) (*todo.Item, error)
}
