package authn

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"

	"todoblog/logging"
)

// CognitoAPI is the subset of the Cognito identity provider client used for sign-in.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
}

// CognitoAuthenticator signs in with USER_PASSWORD_AUTH and keeps the ID token,
// which the data service accepts for AMAZON_COGNITO_USER_POOLS calls.
type CognitoAuthenticator struct {
	api    CognitoAPI
	config Config
	issuer string
	now    func() time.Time
	logger *logging.Logger
}

// NewCognitoAuthenticator creates the authenticator. A nil api builds an SDK client
// with anonymous credentials; InitiateAuth is an unauthenticated call.
func NewCognitoAuthenticator(cfg Config, api CognitoAPI) *CognitoAuthenticator {
	if api == nil {
		api = cognitoidentityprovider.New(cognitoidentityprovider.Options{
			Region:      cfg.Region,
			Credentials: aws.AnonymousCredentials{},
		})
	}

	var issuer string
	if cfg.UserPoolID != "" {
		issuer = fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", cfg.Region, cfg.UserPoolID)
	}

	return &CognitoAuthenticator{
		api:    api,
		config: cfg,
		issuer: issuer,
		now:    time.Now,
		logger: logging.Default().WithComponent("cognito_auth"),
	}
}

func (a *CognitoAuthenticator) Strategy() string {
	return StrategyCognito
}

func (a *CognitoAuthenticator) SignIn(ctx context.Context, username, password string) (*Session, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if a.config.ClientSecret != "" {
		params["SECRET_HASH"] = secretHash(username, a.config.ClientID, a.config.ClientSecret)
	}

	out, err := a.api.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(a.config.ClientID),
		AuthParameters: params,
	})
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		var userNotFound *types.UserNotFoundException
		if errors.As(err, &notAuthorized) || errors.As(err, &userNotFound) {
			a.logger.Security("Sign-in rejected", "username", username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("initiate auth: %w", err)
	}

	if out.ChallengeName != "" {
		return nil, fmt.Errorf("%w: %s", ErrChallengeRequired, out.ChallengeName)
	}
	if out.AuthenticationResult == nil || aws.ToString(out.AuthenticationResult.IdToken) == "" {
		return nil, errors.New("initiate auth: no tokens in response")
	}

	return a.ParseSession(aws.ToString(out.AuthenticationResult.IdToken))
}

// ParseSession reads the ID token's claims. Signatures are checked by the data
// service on every call, so only expiry, token use and issuer are checked here.
func (a *CognitoAuthenticator) ParseSession(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if use, _ := claims["token_use"].(string); use != "" && use != "id" {
		return nil, fmt.Errorf("%w: token_use %q", ErrInvalidSession, use)
	}
	if a.issuer != "" {
		if iss, _ := claims.GetIssuer(); iss != a.issuer {
			return nil, fmt.Errorf("%w: issuer %q", ErrInvalidSession, iss)
		}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidSession)
	}
	if !a.now().Before(exp.Time) {
		return nil, ErrSessionExpired
	}

	subject, _ := claims.GetSubject()
	username, _ := claims["cognito:username"].(string)
	if username == "" {
		username, _ = claims["email"].(string)
	}
	if username == "" {
		username = subject
	}

	return &Session{
		Subject:   subject,
		Username:  username,
		Token:     token,
		ExpiresAt: exp.Time,
	}, nil
}

// secretHash is the SECRET_HASH parameter app clients with a secret require.
func secretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
