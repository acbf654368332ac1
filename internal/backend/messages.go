package backend

import (
	"context"
	"net/http"
	"net/url"

	"support-console/internal/app"
)

func (c *Client) ListThreads(ctx context.Context, companyID string, filter app.ThreadFilter) ([]app.Thread, error) {
	q := url.Values{}
	if filter.Channel != "" {
		q.Set("channel", string(filter.Channel))
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	var out []app.Thread
	if err := c.getJSON(ctx, pathf("/companies/%s/threads", companyID), q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetThread(ctx context.Context, threadID string) (*app.ThreadDetail, error) {
	var out app.ThreadDetail
	if err := c.getJSON(ctx, pathf("/threads/%s", threadID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Reply(ctx context.Context, req app.ReplyRequest) (*app.Message, error) {
	var out app.Message
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/threads/%s/replies", req.ThreadID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddComment(ctx context.Context, threadID, body string) (*app.Comment, error) {
	var out app.Comment
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/threads/%s/comments", threadID), map[string]string{"body": body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
