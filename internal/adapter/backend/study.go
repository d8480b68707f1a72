package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"quizzy/internal/domain"
	"quizzy/internal/dto"

	"golang.org/x/oauth2"
)

// Ask forwards a free-form study question.
func (c *Client) Ask(ctx context.Context, creds oauth2.TokenSource, question string) (string, error) {
	var resp dto.AskResponse
	if err := c.postJSON(ctx, creds, "/ask", dto.AskRequest{Question: question}, &resp, "Failed to process question"); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// ExtractText uploads file as the multipart field "file" and returns the extracted text and summary.
func (c *Client) ExtractText(ctx context.Context, creds oauth2.TokenSource, filename string, file io.Reader) (*domain.Extraction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, domain.NewInternalError("failed to build upload", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, domain.NewInternalError("failed to read upload", err)
	}
	if err := mw.Close(); err != nil {
		return nil, domain.NewInternalError("failed to build upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &body)
	if err != nil {
		return nil, domain.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp dto.ExtractionResponse
	if err := c.do(req, creds, &resp, ""); err != nil {
		if de, ok := err.(*domain.DomainError); ok && de.Code == domain.CodeServer && de.Message == "" {
			de.Message = fmt.Sprintf("HTTP error: %d", de.Status)
		}
		return nil, err
	}
	return &domain.Extraction{Text: resp.Text, Summary: resp.Summary}, nil
}

var _ domain.StudyBackend = (*Client)(nil)
