// Package auth resolves request credentials against the external account
// service. Registration and login live entirely over there.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/forummlcb/topdup/internal/model"
)

type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ResolveUser exchanges a bearer credential for the user id it belongs to.
// An empty or rejected credential yields an unauthenticated error.
func (c *Client) ResolveUser(ctx context.Context, credential string) (int64, error) {
	if credential == "" {
		return 0, model.NewError(model.KindUnauthenticated, "missing credential")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/me", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return 0, model.NewError(model.KindUnauthenticated, "credential rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return 0, model.NewError(model.KindUpstreamUnavailable, "auth service returned %s", resp.Status)
	}

	var body struct {
		UserID int64 `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	if body.UserID == 0 {
		return 0, model.NewError(model.KindUnauthenticated, "credential resolved to no user")
	}

	return body.UserID, nil
}
