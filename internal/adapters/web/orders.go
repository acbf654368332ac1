package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"support-console/internal/app"
	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ordersView struct {
	Shops  []app.Shop
	ShopID string
	Orders []app.Order
}

// ordersPath returns the orders page for shopID.
func ordersPath(shopID string) string {
	if shopID == "" {
		return "/orders"
	}
	return "/orders?shop=" + url.QueryEscape(shopID)
}

// ordersPage handles GET /orders?shop=. Without a shop it shows the first one.
func (h *Handler) ordersPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ws.Title.SetTitle("Orders")
	svc := h.service(ws)
	view := ordersView{ShopID: r.URL.Query().Get("shop")}

	companyID := requireCompany(ws)
	if companyID == "" {
		h.renderApp(w, r, ws, "orders", "orders", view)
		return
	}
	shops, err := svc.ListShops(r.Context(), companyID)
	if err != nil {
		if h.backendFailed(w, r, ws, err, "Failed to fetch stores") {
			return
		}
		h.renderApp(w, r, ws, "orders", "orders", view)
		return
	}
	view.Shops = shops
	if view.ShopID == "" && len(shops) > 0 {
		view.ShopID = shops[0].ID
	}
	if view.ShopID != "" {
		orders, err := svc.ListOrders(r.Context(), view.ShopID)
		if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch orders") {
			return
		}
		view.Orders = orders
	}
	h.renderApp(w, r, ws, "orders", "orders", view)
}

// refundOrder handles POST /orders/{orderID}/refund. The refund runs only after the
// user confirms the dialog.
func (h *Handler) refundOrder(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")
	back := ordersPath(r.FormValue("shop"))

	amount, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("amount")))
	if err != nil || !amount.IsPositive() {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Enter a refund amount greater than zero.", back)
		return
	}
	if limit, err := decimal.NewFromString(r.FormValue("refundable")); err == nil && amount.GreaterThan(limit) {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Refund exceeds the refundable amount of "+limit.StringFixed(2)+".", back)
		return
	}
	req := app.RefundRequest{
		OrderID: orderID,
		Amount:  amount.Round(2),
		Reason:  strings.TrimSpace(r.FormValue("reason")),
	}
	label := orderLabel(r.FormValue("number"), orderID)

	svc := h.service(ws)
	h.confirmThen(w, r, ws, core.ConfirmRequest{
		Title:        "Refund order " + label + "?",
		Message:      "Refund " + req.Amount.StringFixed(2) + " to the customer. This cannot be undone.",
		ConfirmLabel: "Refund",
		Danger:       true,
	}, back, confirmed(ws, "Order "+label+" refunded.", "Failed to refund order", func(ctx context.Context) error {
		_, err := svc.RefundOrder(ctx, req)
		return err
	}))
}

// cancelOrder handles POST /orders/{orderID}/cancel behind a confirmation.
func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")
	back := ordersPath(r.FormValue("shop"))
	reason := strings.TrimSpace(r.FormValue("reason"))
	label := orderLabel(r.FormValue("number"), orderID)

	svc := h.service(ws)
	h.confirmThen(w, r, ws, core.ConfirmRequest{
		Title:        "Cancel order " + label + "?",
		Message:      "The order is cancelled in Shopify and the customer is notified.",
		ConfirmLabel: "Cancel order",
		CancelLabel:  "Keep order",
		Danger:       true,
	}, back, confirmed(ws, "Order "+label+" cancelled.", "Failed to cancel order", func(ctx context.Context) error {
		_, err := svc.CancelOrder(ctx, orderID, reason)
		return err
	}))
}

func orderLabel(number, id string) string {
	if number != "" {
		return "#" + strings.TrimPrefix(number, "#")
	}
	return id
}
