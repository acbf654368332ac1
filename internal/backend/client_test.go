package backend

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"support-console/internal/app"
	"support-console/internal/core"
	"support-console/internal/kv"

	"github.com/shopspring/decimal"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, tokens TokenSource, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", tokens)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryBackend().Scope("sid")
	_ = storage.Set(ctx, kv.KeyToken, "tok-123")

	var gotAuth, gotPath string
	c := newTestClient(t, StorageTokens{Storage: storage}, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"id":"c-1","name":"Acme"}]`))
	})

	companies, err := c.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/companies" {
		t.Errorf("path = %q", gotPath)
	}
	if len(companies) != 1 || companies[0].Name != "Acme" {
		t.Errorf("companies = %+v", companies)
	}
}

func TestClient_NoTokenSendsAnonymous(t *testing.T) {
	c := newTestClient(t, staticTokens(""), func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); h != "" {
			t.Errorf("unexpected Authorization %q", h)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.RequestPasswordReset(context.Background(), "a@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"Email already registered"}`, "Email already registered"},
		{"error field", 403, `{"error":"Forbidden for role"}`, "Forbidden for role"},
		{"detail field", 422, `{"detail":"Invalid token"}`, "Invalid token"},
		{"errors array", 422, `{"errors":[{"message":"amount too large"}]}`, "amount too large"},
		{"structured detail falls back", 422, `{"detail":[{"loc":["body"]}]}`, "Request failed (422)"},
		{"html body", 502, `<html>bad gateway</html>`, "Request failed (502)"},
		{"empty body", 500, ``, "Request failed (500)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.ListUsers(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.want {
				t.Errorf("APIError = %d %q, want %d %q", apiErr.Status, apiErr.Message, tt.status, tt.want)
			}
			if got := Message(err, "fallback"); got != tt.want {
				t.Errorf("Message = %q", got)
			}
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := New(base, nil).ListCompanies(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
	if Message(err, "x") == "x" {
		t.Error("unavailable backend should get its own message")
	}
	if Message(errors.New("boom"), "Failed to load") != "Failed to load" {
		t.Error("plain errors should use the fallback")
	}
}

func TestClient_LoginIsFormEncoded(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("username") != "pat@example.com" || r.PostForm.Get("password") != "pw" {
			t.Errorf("form = %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{"token":"t","user":{"id":"u","email":"pat@example.com","role":"agent"}}`))
	})

	s, err := c.Login(context.Background(), app.LoginRequest{Email: "pat@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token != "t" || s.User.Role != core.RoleAgent {
		t.Errorf("session = %+v", s)
	}
}

func TestClient_LoginRejectsUnknownRole(t *testing.T) {
	c := newTestClient(t, nil, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"t","user":{"id":"u","role":"god"}}`))
	})
	if _, err := c.Login(context.Background(), app.LoginRequest{}); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestClient_RefundSendsDecimal(t *testing.T) {
	c := newTestClient(t, staticTokens("t"), func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shopify/orders/o%2F1/refund" && r.URL.RawPath != "/shopify/orders/o%2F1/refund" {
			t.Errorf("path = %q raw = %q", r.URL.Path, r.URL.RawPath)
		}
		body, _ := io.ReadAll(r.Body)
		var got map[string]any
		_ = json.Unmarshal(body, &got)
		if got["amount"] != "12.50" || got["reason"] != "damaged" {
			t.Errorf("body = %s", body)
		}
		_, _ = w.Write([]byte(`{"id":"o/1","total":"40.00","refunded":"12.50"}`))
	})

	o, err := c.RefundOrder(context.Background(), app.RefundRequest{
		OrderID: "o/1",
		Amount:  decimal.RequireFromString("12.50"),
		Reason:  "damaged",
	})
	if err != nil {
		t.Fatalf("RefundOrder: %v", err)
	}
	if !o.Refundable().Equal(decimal.RequireFromString("27.50")) {
		t.Errorf("Refundable = %s", o.Refundable())
	}
}

func TestClient_ListThreadsFilter(t *testing.T) {
	c := newTestClient(t, staticTokens("t"), func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/companies/c-1/threads" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("channel") != "sms" || r.URL.Query().Get("status") != "" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"id":"t-1","channel":"sms","subject":"Where is my order?"}]`))
	})
	threads, err := c.ListThreads(context.Background(), "c-1", app.ThreadFilter{Channel: app.ChannelSMS})
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(threads) != 1 || threads[0].Channel != app.ChannelSMS {
		t.Errorf("threads = %+v", threads)
	}
}

func TestDecodeCallback(t *testing.T) {
	adminJSON := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"u-1","role":"admin"}`))
	tests := []struct {
		name    string
		query   url.Values
		wantErr bool
	}{
		{"token only", url.Values{"token": {"t"}, "state": {"s"}}, false},
		{"user param ignored", url.Values{"token": {"t"}, "user": {adminJSON}}, false},
		{"missing token", url.Values{"user": {adminJSON}}, true},
		{"provider error", url.Values{"error": {"access_denied"}, "token": {"t"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := DecodeCallback(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && token != "t" {
				t.Errorf("token = %q", token)
			}
		})
	}
}

func TestGoogleLoginURL(t *testing.T) {
	c := New("https://api.example.com/", nil)
	got := c.GoogleLoginURL("https://console.example.com/auth/callback", "st-1")
	want := "https://api.example.com/auth/google?redirect_uri=https%3A%2F%2Fconsole.example.com%2Fauth%2Fcallback&state=st-1"
	if got != want {
		t.Errorf("GoogleLoginURL = %q", got)
	}
}
