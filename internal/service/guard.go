package service

import (
	"time"

	"queryadmin/internal/core"
)

// RedirectDelay is how long a notice stays on screen before a scheduled
// navigation (non-admin redirect, forced logout).
const RedirectDelay = 2 * time.Second

type Page string

const (
	PageLogin   Page = "login"
	PageMainApp Page = "main"
	PageAdmin   Page = "admin"
)

// Navigation is a pending page change. ClearSession drops the persisted
// token, username and admin flag before navigating.
type Navigation struct {
	Target       Page
	Delay        time.Duration
	ClearSession bool
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Guard gates the console on the persisted session.
type Guard struct {
	notices *Notifier
}

func NewGuard(notices *Notifier) *Guard {
	return &Guard{notices: notices}
}

// Initialize returns nil when the session may use the console.
func (g *Guard) Initialize(s core.Session) *Navigation {
	if !s.HasToken() {
		return &Navigation{Target: PageLogin}
	}
	if !s.IsAdmin {
		g.notices.Notify("Admin privileges required. Redirecting...", NoticeError)
		return &Navigation{Target: PageMainApp, Delay: RedirectDelay}
	}
	return nil
}

// Logout clears the session after the operator confirms. Declining is a no-op.
func (g *Guard) Logout(confirm Confirmer) *Navigation {
	if !confirm.Confirm("Are you sure you want to logout?") {
		return nil
	}
	return &Navigation{Target: PageLogin, ClearSession: true}
}

// ForceLogout clears the session and sends the operator to login once the
// reason has been on screen for RedirectDelay.
func (g *Guard) ForceLogout(reason string, kind NoticeKind) *Navigation {
	g.notices.Notify(reason, kind)
	return &Navigation{Target: PageLogin, Delay: RedirectDelay, ClearSession: true}
}
