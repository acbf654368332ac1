package app

import (
	"time"

	"support-console/internal/core"

	"github.com/shopspring/decimal"
)

// Channel is a customer communication channel.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelSMS     Channel = "sms"
	ChannelShopify Channel = "shopify"
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelEmail, ChannelSMS, ChannelShopify}

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelShopify:
		return true
	}
	return false
}

// SessionResult is returned by every session-issuing call.
type SessionResult struct {
	Token string     `json:"token"`
	User  *core.User `json:"user"`
}

// Invitation is a pending or settled company invitation.
type Invitation struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	CompanyID   string     `json:"company_id"`
	CompanyName string     `json:"company_name"`
	Role        core.Role  `json:"role"`
	Status      string     `json:"status"` // "pending", "accepted", "cancelled", "expired"
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// Acceptable reports whether the invitation can still be accepted.
func (i *Invitation) Acceptable() bool {
	return i.Status == "pending"
}

// Member is one user's membership in a company.
type Member struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   core.Role `json:"role"`
	Status string    `json:"status"`
}

// Thread is one conversation with a customer.
type Thread struct {
	ID              string    `json:"id"`
	Subject         string    `json:"subject"`
	Channel         Channel   `json:"channel"`
	CustomerName    string    `json:"customer_name"`
	CustomerContact string    `json:"customer_contact"`
	Status          string    `json:"status"`
	Unread          int       `json:"unread"`
	LastMessageAt   time.Time `json:"last_message_at"`
	Preview         string    `json:"preview"`
}

// Message is one message in a thread.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Channel   Channel   `json:"channel"`
	Direction string    `json:"direction"` // "inbound" or "outbound"
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Comment is an internal note on a thread.
type Comment struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadDetail is a thread with its messages and comments.
type ThreadDetail struct {
	Thread   Thread    `json:"thread"`
	Messages []Message `json:"messages"`
	Comments []Comment `json:"comments"`
}

// Shop is a connected Shopify store.
type Shop struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Order is a Shopify order.
type Order struct {
	ID                string          `json:"id"`
	ShopID            string          `json:"shop_id"`
	Number            string          `json:"number"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	Total             decimal.Decimal `json:"total"`
	Refunded          decimal.Decimal `json:"refunded"`
	Currency          string          `json:"currency"`
	FinancialStatus   string          `json:"financial_status"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Refundable returns how much of the order can still be refunded.
func (o Order) Refundable() decimal.Decimal {
	rest := o.Total.Sub(o.Refunded)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// Cancelled reports whether the order was cancelled.
func (o Order) Cancelled() bool {
	return o.CancelledAt != nil
}

// AccountKind identifies what a connected account links.
type AccountKind string

const (
	AccountGmail   AccountKind = "gmail"
	AccountPhone   AccountKind = "phone"
	AccountShopify AccountKind = "shopify"
)

// Account is a connected channel account.
type Account struct {
	ID          string      `json:"id"`
	Kind        AccountKind `json:"kind"`
	Address     string      `json:"address"`
	Status      string      `json:"status"`
	ConnectedAt time.Time   `json:"connected_at"`
}
