// Package auth signs admins in against an AWS Cognito user pool.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/TransferDaily/internal/domain"
	"github.com/TransferDaily/internal/infra/metrics"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"golang.org/x/oauth2"
)

// RefreshWindow is how close to expiry a token set is refreshed.
const RefreshWindow = 5 * time.Minute

// identityProvider is the subset of the Cognito client used here.
type identityProvider interface {
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	RespondToAuthChallenge(ctx context.Context, in *cip.RespondToAuthChallengeInput, optFns ...func(*cip.Options)) (*cip.RespondToAuthChallengeOutput, error)
	GlobalSignOut(ctx context.Context, in *cip.GlobalSignOutInput, optFns ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error)
}

// Challenge is returned when Cognito needs another step before issuing tokens.
type Challenge struct {
	Name     string
	Session  string
	Username string
}

// ChallengeError carries a pending challenge. It matches domain.ErrChallengeRequired.
type ChallengeError struct {
	Challenge Challenge
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("cognito challenge %s required", e.Challenge.Name)
}

func (e *ChallengeError) Unwrap() error { return domain.ErrChallengeRequired }

// Cognito authenticates admins with the USER_PASSWORD_AUTH flow.
type Cognito struct {
	api          identityProvider
	clientID     string
	clientSecret string
	now          func() time.Time
}

// NewCognito loads the default AWS credential chain for region.
func NewCognito(ctx context.Context, region, clientID, clientSecret string) (*Cognito, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return newCognito(cip.NewFromConfig(cfg), clientID, clientSecret), nil
}

func newCognito(api identityProvider, clientID, clientSecret string) *Cognito {
	return &Cognito{
		api:          api,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

// SignIn exchanges a username and password for a token set.
func (c *Cognito) SignIn(ctx context.Context, username, password string) (*oauth2.Token, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	c.addSecretHash(params, username)

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		metrics.AuthEvents.WithLabelValues("sign_in", "failure").Inc()
		return nil, mapError(err)
	}

	if out.ChallengeName != "" {
		metrics.AuthEvents.WithLabelValues("sign_in", "challenge").Inc()
		return nil, &ChallengeError{Challenge: Challenge{
			Name:     string(out.ChallengeName),
			Session:  aws.ToString(out.Session),
			Username: username,
		}}
	}

	metrics.AuthEvents.WithLabelValues("sign_in", "success").Inc()
	return c.token(out.AuthenticationResult, "")
}

// CompleteNewPassword answers a NEW_PASSWORD_REQUIRED challenge.
func (c *Cognito) CompleteNewPassword(ctx context.Context, ch Challenge, newPassword string) (*oauth2.Token, error) {
	if ch.Name != string(types.ChallengeNameTypeNewPasswordRequired) {
		return nil, fmt.Errorf("unsupported challenge %q", ch.Name)
	}
	responses := map[string]string{
		"USERNAME":     ch.Username,
		"NEW_PASSWORD": newPassword,
	}
	c.addSecretHash(responses, ch.Username)

	out, err := c.api.RespondToAuthChallenge(ctx, &cip.RespondToAuthChallengeInput{
		ChallengeName:      types.ChallengeNameTypeNewPasswordRequired,
		ClientId:           aws.String(c.clientID),
		Session:            aws.String(ch.Session),
		ChallengeResponses: responses,
	})
	if err != nil {
		metrics.AuthEvents.WithLabelValues("new_password", "failure").Inc()
		return nil, mapError(err)
	}
	if out.ChallengeName != "" {
		return nil, &ChallengeError{Challenge: Challenge{
			Name:     string(out.ChallengeName),
			Session:  aws.ToString(out.Session),
			Username: ch.Username,
		}}
	}

	metrics.AuthEvents.WithLabelValues("new_password", "success").Inc()
	return c.token(out.AuthenticationResult, "")
}

// Refresh trades the refresh token for new access and id tokens.
// Cognito does not rotate the refresh token, so the old one is carried over.
func (c *Cognito) Refresh(ctx context.Context, username string, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok == nil || tok.RefreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	params := map[string]string{"REFRESH_TOKEN": tok.RefreshToken}
	c.addSecretHash(params, username)

	out, err := c.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(c.clientID),
		AuthParameters: params,
	})
	if err != nil {
		metrics.AuthEvents.WithLabelValues("refresh", "failure").Inc()
		return nil, mapError(err)
	}

	metrics.AuthEvents.WithLabelValues("refresh", "success").Inc()
	return c.token(out.AuthenticationResult, tok.RefreshToken)
}

// SignOut revokes every token issued to the user. Failures are logged only.
func (c *Cognito) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	_, err := c.api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(accessToken)})
	if err != nil {
		slog.Warn("Cognito global sign out failed", "error", err)
		metrics.AuthEvents.WithLabelValues("sign_out", "failure").Inc()
		return
	}
	metrics.AuthEvents.WithLabelValues("sign_out", "success").Inc()
}

// NeedsRefresh reports whether tok expires within RefreshWindow of now.
func NeedsRefresh(tok *oauth2.Token, now time.Time) bool {
	if tok == nil || tok.Expiry.IsZero() {
		return false
	}
	return !now.Add(RefreshWindow).Before(tok.Expiry)
}

// IDToken returns the Cognito id token stored alongside tok.
func IDToken(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	s, _ := tok.Extra("id_token").(string)
	return s
}

// SessionToken converts a persisted admin session into a token set.
func SessionToken(s *domain.AdminSession) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       s.Expiry,
	}
	return tok.WithExtra(map[string]interface{}{"id_token": s.IDToken})
}

// ApplyToken copies tok into the persisted session.
func ApplyToken(s *domain.AdminSession, tok *oauth2.Token) {
	s.AccessToken = tok.AccessToken
	s.RefreshToken = tok.RefreshToken
	s.IDToken = IDToken(tok)
	s.Expiry = tok.Expiry
}

func (c *Cognito) token(res *types.AuthenticationResultType, refreshToken string) (*oauth2.Token, error) {
	if res == nil || res.AccessToken == nil {
		return nil, errors.New("cognito returned no authentication result")
	}
	if rt := aws.ToString(res.RefreshToken); rt != "" {
		refreshToken = rt
	}
	tok := &oauth2.Token{
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		Expiry:       c.now().Add(time.Duration(res.ExpiresIn) * time.Second),
	}
	return tok.WithExtra(map[string]interface{}{"id_token": aws.ToString(res.IdToken)}), nil
}

// addSecretHash sets SECRET_HASH when the app client has a secret.
func (c *Cognito) addSecretHash(params map[string]string, username string) {
	if c.clientSecret == "" {
		return
	}
	params["SECRET_HASH"] = secretHash(username, c.clientID, c.clientSecret)
}

func secretHash(username, clientID, clientSecret string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func mapError(err error) error {
	var notAuthorized *types.NotAuthorizedException
	var userNotFound *types.UserNotFoundException
	var notConfirmed *types.UserNotConfirmedException
	switch {
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		return domain.ErrInvalidCredentials
	case errors.As(err, &notConfirmed):
		return fmt.Errorf("user not confirmed: %w", domain.ErrUnauthorized)
	}
	return fmt.Errorf("cognito request failed: %w", err)
}
