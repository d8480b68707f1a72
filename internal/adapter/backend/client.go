// Package backend talks to the study-assistant REST backend over HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizzy/internal/domain"
	"quizzy/internal/dto"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const maxResponseBytes = 8 << 20

// Client implements domain.QuizBackend, domain.StudyBackend and domain.AuthBackend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a backend client. A zero timeout leaves requests unbounded;
// they then end only when ctx is cancelled.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend base URL %q is not absolute", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// WithHTTPClient swaps the underlying client, e.g. for an httptest server's client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) postJSON(ctx context.Context, creds oauth2.TokenSource, path string, body, out any, fallback string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.NewInternalError("failed to encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return domain.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, creds, out, fallback)
}

// do sends req, authorizing it from creds when creds is non-nil, and decodes a 2xx body into out.
func (c *Client) do(req *http.Request, creds oauth2.TokenSource, out any, fallback string) error {
	path := req.URL.Path
	if creds != nil {
		tok, err := creds.Token()
		if err != nil {
			c.logger.Warn("No bearer credential available", zap.String("path", path), zap.Error(err))
			return domain.NewUnauthorizedError()
		}
		tok.SetAuthHeader(req)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.logger.Debug("Backend request cancelled", zap.String("path", path))
		} else {
			c.logger.Error("Backend request failed", zap.String("path", path), zap.Error(err))
		}
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domain.NewNetworkError(err)
	}

	c.logger.Debug("Backend response",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	// Without creds a 401 is an ordinary failure, such as a wrong password.
	if resp.StatusCode == http.StatusUnauthorized && creds != nil {
		c.logger.Warn("Backend rejected credential", zap.String("path", path))
		return domain.NewUnauthorizedError()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er dto.ErrorResponse
		_ = json.Unmarshal(raw, &er)
		c.logger.Error("Backend returned an error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", er.Error),
		)
		return domain.NewServerError(resp.StatusCode, er.Error, fallback)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("Failed to decode backend response", zap.String("path", path), zap.Error(err))
		se := domain.NewServerError(resp.StatusCode, "", fallback)
		se.Err = err
		return se
	}
	return nil
}
