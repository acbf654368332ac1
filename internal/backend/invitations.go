package backend

import (
	"context"
	"net/http"

	"support-console/internal/app"
)

func (c *Client) InvitationStatus(ctx context.Context, token string) (*app.Invitation, error) {
	var inv app.Invitation
	if err := c.getJSON(ctx, pathf("/invitations/%s", token), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) AcceptInvitation(ctx context.Context, req app.AcceptInvitationRequest) (*app.SessionResult, error) {
	var out app.SessionResult
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/invitations/%s/accept", req.Token), req, &out); err != nil {
		return nil, err
	}
	return checkSession(&out)
}

func (c *Client) ListInvitations(ctx context.Context, companyID string) ([]app.Invitation, error) {
	var out []app.Invitation
	if err := c.getJSON(ctx, pathf("/companies/%s/invitations", companyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) InviteMember(ctx context.Context, req app.InviteRequest) (*app.Invitation, error) {
	var inv app.Invitation
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/companies/%s/invitations", req.CompanyID), req, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (c *Client) CancelInvitation(ctx context.Context, companyID, invitationID string) error {
	return c.sendJSON(ctx, http.MethodDelete, pathf("/companies/%s/invitations/%s", companyID, invitationID), nil, nil)
}
