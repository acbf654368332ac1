package app

import (
	"context"

	"support-console/internal/core"
)

// ApplicationService is the single interface the web adapter calls for data. Every
// method is one call to the remote support backend; implementations hold no state
// beyond the token source they were built with.
type ApplicationService interface {
	// Login exchanges credentials for a session token and user.
	Login(ctx context.Context, req LoginRequest) (*SessionResult, error)

	// Register creates an account (and its company) and returns a session.
	Register(ctx context.Context, req RegisterRequest) (*SessionResult, error)

	// GoogleLoginURL is where the browser goes to start Google sign-in. The backend
	// redirects back to callbackURL carrying the issued token and echoing state.
	GoogleLoginURL(callbackURL, state string) string

	// Me returns the user the current token belongs to.
	Me(ctx context.Context) (*core.User, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error

	// InvitationStatus looks up an invitation by its emailed token.
	InvitationStatus(ctx context.Context, token string) (*Invitation, error)
	// AcceptInvitation joins the inviting company and returns a session.
	AcceptInvitation(ctx context.Context, req AcceptInvitationRequest) (*SessionResult, error)
	ListInvitations(ctx context.Context, companyID string) ([]Invitation, error)
	InviteMember(ctx context.Context, req InviteRequest) (*Invitation, error)
	CancelInvitation(ctx context.Context, companyID, invitationID string) error

	// ListUsers returns the whole user directory (admin only).
	ListUsers(ctx context.Context) ([]core.User, error)
	UpdateUserRole(ctx context.Context, userID string, role core.Role) (*core.User, error)
	DeleteUser(ctx context.Context, userID string) error

	ListCompanies(ctx context.Context) ([]core.Company, error)
	ListMembers(ctx context.Context, companyID string) ([]Member, error)
	RemoveMember(ctx context.Context, companyID, memberID string) error

	// ListThreads returns the unified inbox for a company across channels.
	ListThreads(ctx context.Context, companyID string, filter ThreadFilter) ([]Thread, error)
	GetThread(ctx context.Context, threadID string) (*ThreadDetail, error)
	// Reply sends body to the customer over channel.
	Reply(ctx context.Context, req ReplyRequest) (*Message, error)
	// AddComment attaches an internal note visible only to the team.
	AddComment(ctx context.Context, threadID, body string) (*Comment, error)

	ListShops(ctx context.Context, companyID string) ([]Shop, error)
	ListOrders(ctx context.Context, shopID string) ([]Order, error)
	RefundOrder(ctx context.Context, req RefundRequest) (*Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*Order, error)

	// ListAccounts returns the connected Gmail, phone and Shopify channels.
	ListAccounts(ctx context.Context, companyID string) ([]Account, error)
	// GmailConnectURL returns the consent URL that links a Gmail inbox.
	GmailConnectURL(ctx context.Context, companyID string) (string, error)
	ConnectPhone(ctx context.Context, companyID, number string) (*Account, error)
	DisconnectAccount(ctx context.Context, accountID string) error
}
