// Package authn signs users in against the user pool and turns session tokens
// back into sessions.
package authn

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrChallengeRequired  = errors.New("sign-in challenge not supported")
	ErrInvalidSession     = errors.New("invalid session token")
	ErrSessionExpired     = errors.New("session expired")
)

const (
	StrategyCognito = "cognito"
	StrategyLocal   = "local"
)

// Config selects and configures the sign-in strategy.
type Config struct {
	Strategy string `env:"AUTH_STRATEGY" default:"cognito"`

	Region       string `env:"COGNITO_REGION"`
	UserPoolID   string `env:"COGNITO_USER_POOL_ID"`
	ClientID     string `env:"COGNITO_CLIENT_ID"`
	ClientSecret string `env:"COGNITO_CLIENT_SECRET"`

	LocalUsername string        `env:"LOCAL_AUTH_USERNAME"`
	LocalPassword string        `env:"LOCAL_AUTH_PASSWORD"`
	LocalSecret   string        `env:"LOCAL_AUTH_SECRET"`
	SessionTTL    time.Duration `env:"LOCAL_AUTH_SESSION_TTL" default:"1h"`
}

// Validate reports missing settings for the selected strategy.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyCognito:
		if c.Region == "" || c.ClientID == "" {
			return fmt.Errorf("missing required configuration: COGNITO_REGION, COGNITO_CLIENT_ID")
		}
	case StrategyLocal:
		if c.LocalUsername == "" || c.LocalPassword == "" || c.LocalSecret == "" {
			return fmt.Errorf("missing required configuration: LOCAL_AUTH_USERNAME, LOCAL_AUTH_PASSWORD, LOCAL_AUTH_SECRET")
		}
	default:
		return fmt.Errorf("unknown AUTH_STRATEGY %q", c.Strategy)
	}
	return nil
}

// Session is the signed-in state carried by the session cookie.
type Session struct {
	Subject   string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Authenticated reports whether the session can authorize user-pool calls.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Authenticator is a sign-in strategy.
type Authenticator interface {
	Strategy() string
	SignIn(ctx context.Context, username, password string) (*Session, error)
	ParseSession(token string) (*Session, error)
}

// NewAuthenticator builds the authenticator cfg selects.
func NewAuthenticator(cfg Config) (Authenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Strategy {
	case StrategyLocal:
		return NewLocalAuthenticator(cfg), nil
	default:
		return NewCognitoAuthenticator(cfg, nil), nil
	}
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the request's session, or nil when signed out.
func SessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
