package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
)

const activityLimit = 100

// Console is the state of one operator's admin session: credentials,
// notice, active tab, the query being edited and the loaded lists.
//
// Callers hold the embedded mutex around every operation; the notifier is
// the only part touched from other goroutines.
type Console struct {
	sync.Mutex

	ID      string
	Notices *Notifier

	api     core.AdminAPI
	audit   core.AuditRepository
	guard   *Guard
	tabs    *TabRouter
	session core.Session
	pending *Navigation

	editor      EditorState
	queries     []core.QuerySummary
	queriesErr  string
	users       []core.UserAccount
	usersErr    string
	activity    []core.AuditEntry
	activityErr string
}

func NewConsole(id string, api core.AdminAPI, audit core.AuditRepository) *Console {
	notices := NewNotifier()
	return &Console{
		ID:      id,
		Notices: notices,
		api:     api,
		audit:   audit,
		guard:   NewGuard(notices),
		tabs:    NewTabRouter(),
		editor:  EditorState{Mode: ModeBasic},
	}
}

// Attach refreshes the credentials from the persisted session.
func (c *Console) Attach(s core.Session) {
	c.session = s
}

func (c *Console) Session() core.Session {
	return c.session
}

// Initialize runs the session guard. A non-nil navigation means the console
// must not be rendered.
func (c *Console) Initialize() *Navigation {
	return c.guard.Initialize(c.session)
}

func (c *Console) Logout(confirm Confirmer) *Navigation {
	return c.guard.Logout(confirm)
}

// TakeNavigation returns and clears the navigation scheduled by the last
// operation, typically a forced logout after a 401.
func (c *Console) TakeNavigation() *Navigation {
	nav := c.pending
	c.pending = nil
	return nav
}

// SwitchTab activates a tab and loads its data. The users list is fetched
// again on every activation.
func (c *Console) SwitchTab(ctx context.Context, name string) error {
	if err := c.tabs.Switch(name); err != nil {
		return err
	}

	switch name {
	case TabQueries:
		c.LoadQueries(ctx)
	case TabUsers:
		c.LoadUsers(ctx)
	case TabActivity:
		c.LoadActivity()
	}
	return nil
}

func (c *Console) ActiveTab() string {
	return c.tabs.Active()
}

func (c *Console) LoadActivity() {
	c.activity, c.activityErr = nil, ""
	if c.audit == nil {
		return
	}

	entries, err := c.audit.GetRecent(activityLimit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read activity")
		c.activityErr = "Failed to load activity"
		return
	}
	c.activity = entries
}

// checkAuth applies the session-wide reaction to 401 and 403 responses.
func (c *Console) checkAuth(err error) error {
	switch core.Kind(err) {
	case core.KindUnauthorized:
		c.pending = c.guard.ForceLogout("Session expired. Please login again.", NoticeError)
	case core.KindForbidden:
		c.Notices.Notify("Admin privileges required", NoticeError)
	}
	return err
}

// fail reports err for an operation. Auth errors were already reported by
// checkAuth.
func (c *Console) fail(action string, err error) error {
	err = c.checkAuth(err)

	switch core.Kind(err) {
	case core.KindUnauthorized, core.KindForbidden:
	case core.KindValidation:
		c.Notices.Notify(err.Error(), NoticeError)
	case core.KindNetwork:
		c.Notices.Notify(action+": unable to reach the server", NoticeError)
	default:
		c.Notices.Notify(fmt.Sprintf("%s: %v", action, err), NoticeError)
	}
	return err
}

func (c *Console) record(action, target string, err error) {
	if c.audit == nil {
		return
	}

	entry := &core.AuditEntry{
		Timestamp: time.Now(),
		Username:  c.session.Username,
		Action:    action,
		Target:    target,
		Status:    core.AuditSuccess,
	}
	if err != nil {
		entry.Status = core.AuditError
		entry.Message = err.Error()
	}

	if err := c.audit.Create(entry); err != nil {
		logger.Error().Err(err).Str("action", action).Msg("Failed to write audit entry")
	}
}

// View is a render-ready snapshot of the console.
type View struct {
	Username      string
	TokenExpiry   *time.Time
	Notice        Notice
	Tabs          []Tab
	ActiveTab     string
	Queries       []QueryRow
	QueriesError  string
	Editor        EditorView
	Users         []UserRow
	UsersError    string
	Activity      []core.AuditEntry
	ActivityError string
}

type QueryRow struct {
	core.QuerySummary
	Selected bool
}

func (c *Console) View() View {
	v := View{
		Username:      c.session.Username,
		Notice:        c.Notices.Current(),
		Tabs:          c.tabs.Tabs(),
		ActiveTab:     c.tabs.Active(),
		QueriesError:  c.queriesErr,
		Editor:        c.editor.view(),
		UsersError:    c.usersErr,
		Activity:      c.activity,
		ActivityError: c.activityErr,
	}
	if exp, ok := core.TokenExpiry(c.session.Token); ok {
		v.TokenExpiry = &exp
	}

	for _, q := range c.queries {
		v.Queries = append(v.Queries, QueryRow{
			QuerySummary: q,
			Selected:     c.editor.Current != nil && c.editor.Current.QueryName == q.QueryName,
		})
	}
	for _, u := range c.users {
		v.Users = append(v.Users, c.userRow(u))
	}
	return v
}
