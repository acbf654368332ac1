package backend

import (
	"context"
	"net/http"

	"support-console/internal/app"
)

func (c *Client) ListShops(ctx context.Context, companyID string) ([]app.Shop, error) {
	var out []app.Shop
	if err := c.getJSON(ctx, pathf("/companies/%s/shopify/shops", companyID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListOrders(ctx context.Context, shopID string) ([]app.Order, error) {
	var out []app.Order
	if err := c.getJSON(ctx, pathf("/shopify/shops/%s/orders", shopID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RefundOrder(ctx context.Context, req app.RefundRequest) (*app.Order, error) {
	body := map[string]string{"amount": req.Amount.StringFixed(2), "reason": req.Reason}
	var out app.Order
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/shopify/orders/%s/refund", req.OrderID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (*app.Order, error) {
	var out app.Order
	if err := c.sendJSON(ctx, http.MethodPost, pathf("/shopify/orders/%s/cancel", orderID), map[string]string{"reason": reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
