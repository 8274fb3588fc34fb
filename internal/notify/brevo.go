package notify

import (
	"context"
	"net/http"
	"strings"
)

// EmailSender delivers a plain-text email to the operator.
type EmailSender interface {
	SendEmail(ctx context.Context, subject, body string) error
}

// BrevoClient sends transactional email through the Brevo v3 API.
type BrevoClient struct {
	apiKey  string
	baseURL string
	from    string
	to      string
	http    *http.Client
}

func NewBrevoClient(apiKey, baseURL, from, to string) *BrevoClient {
	return &BrevoClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		from:    from,
		to:      to,
		http:    newHTTPClient(),
	}
}

type brevoAddress struct {
	Email string `json:"email"`
}

type brevoEmail struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// SendEmail posts one email; Brevo answers 201 on success.
func (c *BrevoClient) SendEmail(ctx context.Context, subject, body string) error {
	if c.apiKey == "" || c.from == "" || c.to == "" {
		return ErrNotConfigured
	}
	payload := brevoEmail{
		Sender:      brevoAddress{Email: c.from},
		To:          []brevoAddress{{Email: c.to}},
		Subject:     subject,
		TextContent: body,
	}
	return doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/v3/smtp/email",
		map[string]string{"api-key": c.apiKey}, payload, http.StatusCreated)
}
