package layouts

import "support-console/internal/core"

// NavItem is one entry of the side navigation.
type NavItem struct {
	Key   string
	Label string
	Href  string
	Roles []core.Role // empty means every signed-in role
}

// AppLayoutData is passed to the app shell to configure the page chrome.
type AppLayoutData struct {
	Title          string
	User           *core.User
	Role           core.Role
	Companies      []core.Company
	CurrentCompany core.Company
	CompanyKnown   bool
	ActiveNav      string // e.g. "inbox", "orders", "channels", "team", "users"
	Path           string // request URI, used as the return target of shell forms
	Nav            []NavItem
	Toast          *core.Notification
	Confirm        *core.Pending
	RequestID      string
}

// PublicLayoutData configures the signed-out shell (login, register, invitations).
type PublicLayoutData struct {
	Title     string
	Toast     *core.Notification
	RequestID string
}
