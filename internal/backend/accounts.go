package backend

import (
	"context"
	"net/http"

	"support-console/internal/app"
)

func (c *Client) ListAccounts(ctx context.Context, companyID string) ([]app.Account, error) {
	var out []app.Account
	if err := c.getJSON(ctx, pathf("/companies/%s/accounts", companyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GmailConnectURL(ctx context.Context, companyID string) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.getJSON(ctx, pathf("/companies/%s/accounts/gmail/connect", companyID), nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) ConnectPhone(ctx context.Context, companyID, number string) (*app.Account, error) {
	var out app.Account
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/companies/%s/accounts/phone", companyID), map[string]string{"number": number}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DisconnectAccount(ctx context.Context, accountID string) error {
	return c.sendJSON(ctx, http.MethodDelete, pathf("/accounts/%s", accountID), nil, nil)
}
