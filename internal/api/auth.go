package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrInvalidEmail is returned before any request when the address is
	// obviously malformed.
	ErrInvalidEmail = errors.New("a valid email address is required")
	// ErrInvalidCode is returned before any request when the verification
	// code is empty or contains non-digits.
	ErrInvalidCode = errors.New("verification code must be digits only")
)

// ValidateEmail performs the same shallow check the sign-in forms do.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateCode checks that code is a non-empty run of decimal digits.
func ValidateCode(code string) error {
	if code == "" {
		return ErrInvalidCode
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return ErrInvalidCode
		}
	}
	return nil
}

// Login signs in with email and password. Unverified accounts get
// RequiresVerification and no token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. The backend emails a verification code.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail exchanges an emailed one-time code for a session.
func (c *Client) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*AuthResponse, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidateCode(req.Code); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/verify-email", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendCode asks the backend to email a fresh verification code.
func (c *Client) ResendCode(ctx context.Context, email string) (*MessageResponse, error) {
	return c.emailOnly(ctx, "/auth/resend-code", email)
}

// ForgotPassword starts a password reset; a code is emailed to the user.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	return c.emailOnly(ctx, "/auth/forgot-password", email)
}

// ResetPassword sets a new password using the emailed reset code.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := ValidateCode(req.Code); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OAuthCallback completes a third-party sign-in for provider.
func (c *Client) OAuthCallback(ctx context.Context, provider string, req OAuthCallbackRequest) (*AuthResponse, error) {
	var out AuthResponse
	path := "/auth/oauth/" + url.PathEscape(provider) + "/callback"
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user owning the current token. It is used to restore a
// saved session on launch.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doAuthenticated(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) emailOnly(ctx context.Context, path, email string) (*MessageResponse, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, path, EmailRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
