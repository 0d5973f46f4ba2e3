package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response from the backend. The backend
// reports the human readable text in either "error" or "message".
type APIError struct {
	Status  int    `json:"-"`
	ErrText string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Text returns whichever description the backend supplied.
func (e *APIError) Text() string {
	if e.ErrText != "" {
		return e.ErrText
	}
	return e.Message
}

func (e *APIError) Error() string {
	text := e.Text()
	if text == "" {
		text = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (code: %s)", text, e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, text)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// MessageResponse is returned by endpoints that only acknowledge a request.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth ---

// User is the signed-in learner.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
	Plan       string `json:"plan,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// AuthResponse carries a session token and the user it belongs to. Login
// returns RequiresVerification instead of a token for unverified accounts.
type AuthResponse struct {
	Token                string `json:"token"`
	User                 *User  `json:"user"`
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	Message              string `json:"message,omitempty"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailRequest is the request body for POST /auth/verify-email.
type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// EmailRequest is the request body for endpoints keyed only by email.
type EmailRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the request body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// OAuthCallbackRequest is the request body for POST /auth/oauth/:provider/callback.
type OAuthCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state,omitempty"`
}

// --- Plans ---

// Plan is one subscription tier.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Currency string   `json:"currency"`
	Interval string   `json:"interval"`
	Features []string `json:"features"`
}

// ListPlansResponse is the response from GET /plans.
type ListPlansResponse struct {
	Plans []Plan `json:"plans"`
}

// --- Payments ---

// CreateOrderRequest is the request body for POST /payments/orders.
type CreateOrderRequest struct {
	PlanID string `json:"planId"`
}

// Order is a payment order created with the checkout provider.
type Order struct {
	ID       string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
	PlanID   string `json:"planId"`
}

// --- Contact ---

// ContactRequest is the request body for POST /contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// FormatAmount renders a minor-unit amount such as 49900 INR as "499.00 INR".
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/100, minor%100, currency)
}
