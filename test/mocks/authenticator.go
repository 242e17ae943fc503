package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todoblog/authn"
)

// MockAuthenticator implements authn.Authenticator for testing
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Strategy() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAuthenticator) SignIn(ctx context.Context, username, password string) (*authn.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authn.Session), args.Error(1)
}

func (m *MockAuthenticator) ParseSession(token string) (*authn.Session, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authn.Session), args.Error(1)
}
