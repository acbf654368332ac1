package app

import (
	"support-console/internal/core"

	"github.com/shopspring/decimal"
)

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string
	Password string
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

// AcceptInvitationRequest completes an invitation for a new or existing user.
type AcceptInvitationRequest struct {
	Token    string `json:"-"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// InviteRequest invites email into CompanyID with Role.
type InviteRequest struct {
	CompanyID string    `json:"-"`
	Email     string    `json:"email"`
	Role      core.Role `json:"role"`
}

// ThreadFilter narrows the inbox. Empty fields match everything.
type ThreadFilter struct {
	Channel Channel
	Status  string
}

// ReplyRequest sends Body on Channel in ThreadID.
type ReplyRequest struct {
	ThreadID string  `json:"-"`
	Channel  Channel `json:"channel"`
	Body     string  `json:"body"`
}

// RefundRequest refunds Amount of an order.
type RefundRequest struct {
	OrderID string
	Amount  decimal.Decimal
	Reason  string
}
