package authn

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const localIssuer = "todoblog-local"

type localClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// LocalAuthenticator accepts a single configured user and issues HS256 tokens.
// It pairs with the in-memory data service for development.
type LocalAuthenticator struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewLocalAuthenticator(cfg Config) *LocalAuthenticator {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &LocalAuthenticator{
		username: cfg.LocalUsername,
		password: cfg.LocalPassword,
		secret:   []byte(cfg.LocalSecret),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (a *LocalAuthenticator) Strategy() string {
	return StrategyLocal
}

func (a *LocalAuthenticator) SignIn(ctx context.Context, username, password string) (*Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}

	now := a.now()
	claims := localClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   "local:" + username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return a.ParseSession(token)
}

func (a *LocalAuthenticator) ParseSession(token string) (*Session, error) {
	claims := &localClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(localIssuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(a.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return &Session{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifyToken checks a token without building a session.
func (a *LocalAuthenticator) VerifyToken(token string) error {
	_, err := a.ParseSession(token)
	return err
}
