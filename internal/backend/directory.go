package backend

import (
	"context"
	"net/http"

	"support-console/internal/app"
	"support-console/internal/core"
)

func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	var out []core.User
	if err := c.getJSON(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, userID string, role core.Role) (*core.User, error) {
	var u core.User
	if err := c.sendJSON(ctx, http.MethodPatch, pathf("/users/%s", userID), map[string]core.Role{"role": role}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.sendJSON(ctx, http.MethodDelete, pathf("/users/%s", userID), nil, nil)
}

func (c *Client) ListCompanies(ctx context.Context) ([]core.Company, error) {
	var out []core.Company
	if err := c.getJSON(ctx, "/companies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListMembers(ctx context.Context, companyID string) ([]app.Member, error) {
	var out []app.Member
	if err := c.getJSON(ctx, pathf("/companies/%s/members", companyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveMember(ctx context.Context, companyID, memberID string) error {
	return c.sendJSON(ctx, http.MethodDelete, pathf("/companies/%s/members/%s", companyID, memberID), nil, nil)
}
