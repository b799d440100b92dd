package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"bistro/config"
	"bistro/internal/domain/entity"
	"bistro/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxAuthErrorBody = 4 << 10

// httpAuthProvider implements service.AuthProvider against the REST endpoints of
// the hosted auth subsystem (password grant, refresh grant, signup, logout, user).
type httpAuthProvider struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPAuthProvider creates the auth client from the backend configuration.
func NewHTTPAuthProvider(cfg *config.Config, logger *slog.Logger) service.AuthProvider {
	return &httpAuthProvider{
		baseURL: strings.TrimRight(cfg.Backend.AuthURL, "/"),
		anonKey: cfg.Backend.AnonKey,
		httpClient: &http.Client{
			Timeout: cfg.Backend.Timeout,
		},
		logger: logger,
	}
}

// apiUser is the user object returned by the auth endpoints.
type apiUser struct {
	ID           string               `json:"id"`
	Email        string               `json:"email"`
	UserMetadata service.UserMetadata `json:"user_metadata"`
}

// apiSession is the token response. On signup without auto-confirmation the
// body is the bare user object, which lands in the embedded fields.
type apiSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         *apiUser `json:"user"`
	apiUser
}

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
}

func (e apiError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}

	return ""
}

// statusError is returned for non-2xx responses.
type statusError struct {
	status int
	body   apiError
}

func (e *statusError) Error() string {
	return "auth request failed with status " + http.StatusText(e.status) + ": " + e.body.text()
}

// SignInWithPassword exchanges credentials for tokens.
func (p *httpAuthProvider) SignInWithPassword(ctx context.Context, email, password string) (*service.AuthTokens, error) {
	var resp apiSession
	err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && (se.status == http.StatusBadRequest || se.status == http.StatusUnauthorized) {
			return nil, errors.Wrap(service.ErrInvalidCredentials, se.body.text())
		}

		return nil, errors.Wrap(err, "password sign-in")
	}

	return toAuthTokens(&resp)
}

// SignUp registers an account.
func (p *httpAuthProvider) SignUp(ctx context.Context, email, password string, metadata service.UserMetadata) (*service.AuthTokens, error) {
	var resp apiSession
	err := p.do(ctx, http.MethodPost, "/signup", "", map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && isAlreadyRegistered(se) {
			return nil, errors.Wrap(service.ErrUserAlreadyRegistered, se.body.text())
		}

		return nil, errors.Wrap(err, "sign-up")
	}

	if resp.AccessToken == "" {
		// Email confirmation pending.
		p.logger.InfoContext(ctx, "Sign-up awaiting email confirmation", slog.String("email", email))

		return nil, nil
	}

	return toAuthTokens(&resp)
}

// Refresh exchanges a refresh token for a new token pair.
func (p *httpAuthProvider) Refresh(ctx context.Context, refreshToken string) (*service.AuthTokens, error) {
	var resp apiSession
	err := p.do(ctx, http.MethodPost, "/token?grant_type=refresh_token", "", map[string]string{
		"refresh_token": refreshToken,
	}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.status < http.StatusInternalServerError {
			return nil, errors.Wrap(service.ErrRefreshRejected, se.body.text())
		}

		return nil, errors.Wrap(err, "refresh session")
	}

	return toAuthTokens(&resp)
}

// SignOut revokes the session bound to the access token.
func (p *httpAuthProvider) SignOut(ctx context.Context, accessToken string) error {
	return errors.Wrap(p.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil), "sign-out")
}

// UpdateUser replaces the account metadata and returns the updated user.
func (p *httpAuthProvider) UpdateUser(ctx context.Context, accessToken string, metadata service.UserMetadata) (*entity.User, error) {
	var resp apiUser
	if err := p.do(ctx, http.MethodPut, "/user", accessToken, map[string]any{"data": metadata}, &resp); err != nil {
		return nil, errors.Wrap(err, "update user")
	}

	return toUser(&resp)
}

func (p *httpAuthProvider) do(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.WithStack(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "failed to create auth request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.anonKey)
	if bearer == "" {
		bearer = p.anonKey
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send auth request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxAuthErrorBody))
		_ = json.Unmarshal(raw, &apiErr)

		p.logger.WarnContext(ctx, "Auth request rejected",
			slog.String("method", method),
			slog.String("path", strings.SplitN(path, "?", 2)[0]),
			slog.Int("status", resp.StatusCode),
		)

		return &statusError{status: resp.StatusCode, body: apiErr}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "failed to decode auth response")
	}

	return nil
}

func isAlreadyRegistered(se *statusError) bool {
	if se.body.ErrorCode == "user_already_exists" {
		return true
	}

	return (se.status == http.StatusBadRequest || se.status == http.StatusUnprocessableEntity) &&
		strings.Contains(strings.ToLower(se.body.text()), "already registered")
}

func toAuthTokens(resp *apiSession) (*service.AuthTokens, error) {
	u := resp.User
	if u == nil {
		u = &resp.apiUser
	}

	user, err := toUser(u)
	if err != nil {
		return nil, err
	}

	return &service.AuthTokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		User:         *user,
	}, nil
}

func toUser(u *apiUser) (*entity.User, error) {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "auth response carries an invalid user id %q", u.ID)
	}

	return &entity.User{
		ID:       id,
		Email:    u.Email,
		FullName: u.UserMetadata.FullName,
		Phone:    u.UserMetadata.Phone,
	}, nil
}
