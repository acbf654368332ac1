package web

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"support-console/internal/core"

	"github.com/shopspring/decimal"
)

// openDialog loads path and returns the id and markup of the confirmation shown.
func (b *browser) openDialog(path string) (string, string) {
	b.t.Helper()
	_, body := b.get(path)
	m := confirmIDPattern.FindStringSubmatch(body)
	if m == nil {
		b.t.Fatalf("no confirmation dialog on %s", path)
	}
	return m[1], body
}

func TestRefundOrder_Validation(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantToast string
	}{
		{"zero", "0", "Enter a refund amount greater than zero."},
		{"negative", "-5", "Enter a refund amount greater than zero."},
		{"not a number", "ten", "Enter a refund amount greater than zero."},
		{"above refundable", "40.01", "Refund exceeds the refundable amount of 40.00."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeService(userWithRole(core.RoleAgent))
			b := newBrowser(t, svc)
			b.login()

			resp, _ := b.post("/orders/o-1/refund", url.Values{
				"shop": {"s-1"}, "number": {"1001"}, "refundable": {"40.00"}, "amount": {tt.amount},
			})
			assertRedirect(t, resp, "/orders?shop=s-1")
			ws := b.workspace()
			if n, ok := ws.Notifier.Current(); !ok || n.Kind != core.NotifyError || n.Message != tt.wantToast {
				t.Errorf("notification = %+v, %v", n, ok)
			}
			if _, pending := ws.Gate.Current(); pending {
				t.Error("invalid refund opened a confirmation")
			}
			if svc.count("RefundOrder") != 0 {
				t.Error("invalid refund reached the backend")
			}
		})
	}
}

func TestRefundOrder_ConfirmSendsDecimal(t *testing.T) {
	svc := newFakeService(userWithRole(core.RoleAgent))
	b := newBrowser(t, svc)
	b.login()

	resp, _ := b.post("/orders/o-1/refund", url.Values{
		"shop": {"s-1"}, "number": {"1001"}, "refundable": {"40.00"}, "amount": {" 12.5 "}, "reason": {"damaged"},
	})
	assertRedirect(t, resp, "/orders?shop=s-1")
	if svc.count("RefundOrder") != 0 {
		t.Fatal("refund sent before confirmation")
	}

	id, body := b.openDialog("/orders?shop=s-1")
	if !strings.Contains(body, "Refund order #1001?") || !strings.Contains(body, "Refund 12.50 to the customer.") {
		t.Error("dialog does not describe the refund")
	}
	resp, _ = b.post("/confirm/"+id, url.Values{"action": {"confirm"}})
	assertRedirect(t, resp, "/orders?shop=s-1")

	refunds := svc.refundRequests()
	if len(refunds) != 1 {
		t.Fatalf("RefundOrder calls = %d, want 1", len(refunds))
	}
	req := refunds[0]
	if req.OrderID != "o-1" || req.Reason != "damaged" || !req.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("refund request = %+v", req)
	}
	if n, _ := b.workspace().Notifier.Current(); n.Message != "Order #1001 refunded." {
		t.Errorf("notification = %+v", n)
	}
}

func TestCancelOrder_RunsOnlyAfterConfirm(t *testing.T) {
	tests := []struct {
		action    string
		cancelled int
	}{
		{"confirm", 1},
		{"cancel", 0},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			svc := newFakeService(userWithRole(core.RoleStoreOwner))
			b := newBrowser(t, svc)
			b.login()

			resp, _ := b.post("/orders/o-1/cancel", url.Values{"shop": {"s-1"}, "number": {"#1001"}})
			assertRedirect(t, resp, "/orders?shop=s-1")
			id, body := b.openDialog("/orders?shop=s-1")
			if !strings.Contains(body, "Cancel order #1001?") || !strings.Contains(body, "Keep order") {
				t.Error("dialog does not describe the cancellation")
			}

			resp, _ = b.post("/confirm/"+id, url.Values{"action": {tt.action}})
			assertRedirect(t, resp, "/orders?shop=s-1")
			if got := svc.count("CancelOrder"); got != tt.cancelled {
				t.Errorf("CancelOrder calls = %d, want %d", got, tt.cancelled)
			}
		})
	}
}

func TestConfirm_QueuedDialogsResolveInOrder(t *testing.T) {
	svc := newFakeService(userWithRole(core.RoleAgent))
	b := newBrowser(t, svc)
	b.login()

	b.post("/orders/o-1/refund", url.Values{"shop": {"s-1"}, "number": {"1001"}, "refundable": {"40.00"}, "amount": {"5"}})
	b.post("/orders/o-2/cancel", url.Values{"shop": {"s-1"}, "number": {"1002"}})
	if got := b.workspace().Gate.Queued(); got != 2 {
		t.Fatalf("queued confirmations = %d, want 2", got)
	}

	first, body := b.openDialog("/orders?shop=s-1")
	if !strings.Contains(body, "Refund order #1001?") {
		t.Fatal("first request is not shown first")
	}
	resp, _ := b.post("/confirm/"+first, url.Values{"action": {"confirm"}})
	assertRedirect(t, resp, "/orders?shop=s-1")

	second, body := b.openDialog("/orders?shop=s-1")
	if second == first || !strings.Contains(body, "Cancel order #1002?") {
		t.Fatal("second request did not follow the first")
	}
	b.post("/confirm/"+second, url.Values{"action": {"confirm"}})

	if got := svc.order("RefundOrder", "CancelOrder"); !reflect.DeepEqual(got, []string{"RefundOrder", "CancelOrder"}) {
		t.Errorf("backend calls = %v", got)
	}
	if _, pending := b.workspace().Gate.Current(); pending {
		t.Error("dialog still open after both were resolved")
	}
}
