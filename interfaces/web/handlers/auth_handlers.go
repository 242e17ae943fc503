package handlers

import (
	"errors"
	"net/http"
	"time"

	"todoblog/authn"
	"todoblog/interfaces/web/presenters"
	"todoblog/interfaces/web/templates/views"
	"todoblog/logging"
)

// AuthHandlers signs users in and out and carries the session cookie.
type AuthHandlers struct {
	auth       authn.Authenticator
	presenter  *presenters.ItemPresenter
	cookieName string
	secure     bool
	logger     *logging.Logger
}

// NewAuthHandlers creates auth handlers storing the session under cookieName.
func NewAuthHandlers(auth authn.Authenticator, presenter *presenters.ItemPresenter, cookieName string, secure bool) *AuthHandlers {
	return &AuthHandlers{
		auth:       auth,
		presenter:  presenter,
		cookieName: cookieName,
		secure:     secure,
		logger:     logging.Default().WithComponent("auth_handlers"),
	}
}

// SessionMiddleware loads the session from the cookie into the request context.
// Invalid or expired sessions are treated as signed out and the cookie is cleared.
func (h *AuthHandlers) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := h.auth.ParseSession(cookie.Value)
		if err != nil {
			h.logger.WithContext(r.Context()).Security("Discarding session cookie", "reason", err.Error())
			h.clearCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(authn.WithSession(r.Context(), session)))
	})
}

// SignInPage renders the sign-in form.
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	if authn.SessionFromContext(r.Context()).Authenticated() {
		Navigate(w, r, "/")
		return
	}
	RenderResponse(r.Context(), w, r, views.SignInPage(h.presenter.ToSignInView("", "", h.auth.Strategy())))
}

// SignIn checks the submitted credentials and sets the session cookie.
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	session, err := h.auth.SignIn(ctx, username, password)
	if err != nil {
		status, message := http.StatusBadGateway, "Sign-in is unavailable right now."
		switch {
		case errors.Is(err, authn.ErrInvalidCredentials):
			status, message = http.StatusUnauthorized, "Incorrect username or password."
		case errors.Is(err, authn.ErrChallengeRequired):
			status, message = http.StatusUnauthorized, "This account must complete an additional sign-in step that is not supported here."
		default:
			h.logger.WithContext(ctx).Error("Sign-in failed", "username", username, "error", err)
		}
		v := h.presenter.ToSignInView(username, message, h.auth.Strategy())
		RenderStatus(ctx, w, r, status, views.SignInPage(v))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	h.logger.WithContext(ctx).Security("Signed in", "username", session.Username)
	Navigate(w, r, "/")
}

// SignOut clears the session cookie. Tokens are not revoked with the provider.
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w)
	Navigate(w, r, "/")
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
