package api

import (
	"context"
	"errors"
	"net/http"
)

// ListPlans returns the available subscription plans.
func (c *Client) ListPlans(ctx context.Context) (*ListPlansResponse, error) {
	var out ListPlansResponse
	if err := c.do(ctx, http.MethodGet, "/plans", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateOrder opens a checkout order for planID. Requires a session.
func (c *Client) CreateOrder(ctx context.Context, planID string) (*Order, error) {
	if planID == "" {
		return nil, errors.New("plan id is required")
	}
	var out Order
	if err := c.doAuthenticated(ctx, http.MethodPost, "/payments/orders", CreateOrderRequest{PlanID: planID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitContact sends the contact form.
func (c *Client) SubmitContact(ctx context.Context, req ContactRequest) (*MessageResponse, error) {
	if err := ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, errors.New("message is required")
	}
	var out MessageResponse
	if err := c.do(ctx, http.MethodPost, "/contact", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
