package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"todoblog/authn"
	"todoblog/interfaces/web/presenters"
	"todoblog/test/mocks"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_SignIn(t *testing.T) {
	app := newTestApp(t, nil, true)

	w := app.do(formRequest("/signin", url.Values{"username": {"demo"}, "password": {"demo-password"}}))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	session, err := app.auth.ParseSession(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "demo", session.Username)
}

func TestAuthHandlers_SignInRejected(t *testing.T) {
	app := newTestApp(t, nil, true)

	w := app.do(formRequest("/signin", url.Values{"username": {"demo"}, "password": {"nope"}}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect username or password.")
	assert.Contains(t, w.Body.String(), `value="demo"`)
	assert.Nil(t, sessionCookie(w))
}

func TestAuthHandlers_SignInProviderFailure(t *testing.T) {
	auth := &mocks.MockAuthenticator{}
	auth.On("Strategy").Return(authn.StrategyCognito)
	auth.On("SignIn", mock.Anything, "alice", "pw").Return(nil, errors.New("dial tcp: i/o timeout"))

	h := NewAuthHandlers(auth, presenters.NewItemPresenter("App", nil), testCookie, true)
	w := httptest.NewRecorder()
	h.SignIn(w, formRequest("/signin", url.Values{"username": {"alice"}, "password": {"pw"}}))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Sign-in is unavailable right now.")
	auth.AssertExpectations(t)
}

func TestAuthHandlers_SignOut(t *testing.T) {
	app := newTestApp(t, nil, true)

	w := app.do(withSession(formRequest("/signout", nil), app.token(t)))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

func TestAuthHandlers_SessionMiddleware(t *testing.T) {
	auth := &mocks.MockAuthenticator{}
	auth.On("ParseSession", "good").Return(&authn.Session{Username: "alice", Token: "good", ExpiresAt: time.Now().Add(time.Hour)}, nil)
	auth.On("ParseSession", "stale").Return(nil, authn.ErrSessionExpired)

	h := NewAuthHandlers(auth, presenters.NewItemPresenter("App", nil), testCookie, false)

	var seen *authn.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authn.SessionFromContext(r.Context())
	})

	req := withSession(httptest.NewRequest(http.MethodGet, "/", nil), "good")
	h.SessionMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)

	seen = nil
	w := httptest.NewRecorder()
	req = withSession(httptest.NewRequest(http.MethodGet, "/", nil), "stale")
	h.SessionMiddleware(next).ServeHTTP(w, req)
	assert.Nil(t, seen)
	require.NotNil(t, sessionCookie(w))
	assert.Empty(t, sessionCookie(w).Value)

	seen = &authn.Session{}
	h.SessionMiddleware(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, seen)
	auth.AssertExpectations(t)
}

func TestAuthHandlers_SignInPageRedirectsSignedIn(t *testing.T) {
	app := newTestApp(t, nil, true)

	w := app.do(withSession(httptest.NewRequest(http.MethodGet, "/signin", nil), app.token(t)))
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = app.do(httptest.NewRequest(http.MethodGet, "/signin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
}
