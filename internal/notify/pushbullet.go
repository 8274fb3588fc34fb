package notify

import (
	"context"
	"net/http"
	"strings"
)

// Pusher delivers push notes to the operator's devices.
type Pusher interface {
	Push(ctx context.Context, title, body string) error
	Clear(ctx context.Context) error
}

// PushbulletClient talks to the Pushbullet v2 API.
type PushbulletClient struct {
	token   string
	baseURL string
	http    *http.Client
}

func NewPushbulletClient(token, baseURL string) *PushbulletClient {
	return &PushbulletClient{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(),
	}
}

type pushNote struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Push sends a note push.
func (c *PushbulletClient) Push(ctx context.Context, title, body string) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	return doJSON(ctx, c.http, http.MethodPost, c.baseURL+"/v2/pushes",
		map[string]string{"Access-Token": c.token},
		pushNote{Type: "note", Title: title, Body: body}, http.StatusOK)
}

// Clear deletes every push on the account.
func (c *PushbulletClient) Clear(ctx context.Context) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	return doJSON(ctx, c.http, http.MethodDelete, c.baseURL+"/v2/pushes",
		map[string]string{"Access-Token": c.token}, nil, http.StatusOK, http.StatusNoContent)
}
