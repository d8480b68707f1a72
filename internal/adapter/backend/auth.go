package backend

import (
	"context"
	"errors"
	"net/http"

	"quizzy/internal/domain"
	"quizzy/internal/dto"
)

// Login exchanges username and password for a bearer token. A rejected login
// carries the backend's message, or "Invalid credentials" when it sent none.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp dto.LoginResponse
	err := c.postJSON(ctx, nil, "/login", dto.CredentialsRequest{Username: username, Password: password}, &resp, "")
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) && de.Code == domain.CodeServer && de.Message == "" {
			de.Message = "Login failed"
			if de.Status == http.StatusUnauthorized {
				de.Message = "Invalid credentials"
			}
		}
		return "", err
	}
	if resp.Token == "" {
		return "", domain.NewServerError(http.StatusOK, "", "Login response carried no token")
	}
	return resp.Token, nil
}

// Register creates an account and returns the backend's confirmation message.
func (c *Client) Register(ctx context.Context, username, password string) (string, error) {
	var resp dto.RegisterResponse
	if err := c.postJSON(ctx, nil, "/register", dto.CredentialsRequest{Username: username, Password: password}, &resp, "Registration failed"); err != nil {
		return "", err
	}
	return resp.Message, nil
}

var _ domain.AuthBackend = (*Client)(nil)
