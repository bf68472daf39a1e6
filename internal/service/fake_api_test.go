package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"queryadmin/internal/core"
)

// fakeAPI is an in-memory admin backend. Setting err makes every call fail.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	err      error
	queries  map[string]*core.QueryDetail
	defaults map[string]string
	users    []core.UserAccount
	saved    []core.SaveQueryRequest
	updates  []core.UpdateUserRequest
	nextID   int64
}

func newFakeAPI() *fakeAPI {
	updated := "2024-05-01 10:00:00"
	return &fakeAPI{
		queries: map[string]*core.QueryDetail{
			core.DeviceQueryName: {
				QuerySummary: core.QuerySummary{QueryName: core.DeviceQueryName, Description: "Devices", UpdatedAt: &updated},
				QuerySQL:     "SELECT dvcPrk, dvcName FROM tblDevice WHERE dvcDeviceType_FRK = 5",
			},
			core.BuildingQueryName: {
				QuerySummary: core.QuerySummary{QueryName: core.BuildingQueryName, Description: "Buildings"},
				QuerySQL:     "SELECT bldPrk, name FROM tblBuilding",
			},
			"schedule_query": {
				QuerySummary: core.QuerySummary{QueryName: "schedule_query"},
				QuerySQL:     "SELECT * FROM tblSchedule",
			},
		},
		defaults: map[string]string{
			core.DeviceQueryName: "SELECT dvcPrk FROM Device_TBL WHERE dvcDeviceType_FRK = 1",
		},
		users: []core.UserAccount{
			{ID: 1, Username: "root", IsAdmin: true, CreatedAt: "2024-01-01 00:00:00"},
			{ID: 2, Username: "bob", IsAdmin: false, CreatedAt: "2024-02-01 00:00:00"},
		},
		nextID: 3,
	}
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) Login(ctx context.Context, username, password string) (*core.LoginResponse, error) {
	if err := f.record("login"); err != nil {
		return nil, err
	}
	return &core.LoginResponse{AccessToken: "tok-" + username, TokenType: "bearer", Username: username, IsAdmin: true}, nil
}

func (f *fakeAPI) ListQueries(ctx context.Context, token string) ([]core.QuerySummary, error) {
	if err := f.record("list_queries"); err != nil {
		return nil, err
	}
	var out []core.QuerySummary
	for _, name := range []string{core.DeviceQueryName, core.BuildingQueryName} {
		out = append(out, f.queries[name].QuerySummary)
	}
	return out, nil
}

func (f *fakeAPI) GetQuery(ctx context.Context, token, name string) (*core.QueryDetail, error) {
	if err := f.record("get_query:" + name); err != nil {
		return nil, err
	}
	q, ok := f.queries[name]
	if !ok {
		return nil, &core.RequestError{Status: 404, Detail: fmt.Sprintf("Query '%s' not found", name)}
	}
	cp := *q
	return &cp, nil
}

func (f *fakeAPI) GetDefaultQuery(ctx context.Context, token, name string) (*core.DefaultQuery, error) {
	if err := f.record("get_default:" + name); err != nil {
		return nil, err
	}
	sql, ok := f.defaults[name]
	if !ok {
		return nil, &core.RequestError{Status: 404, Detail: fmt.Sprintf("No default query found for '%s'", name)}
	}
	return &core.DefaultQuery{QueryName: name, QuerySQL: sql, Description: "Default " + name + " configuration"}, nil
}

func (f *fakeAPI) SaveQuery(ctx context.Context, token string, req core.SaveQueryRequest) (*core.Ack, error) {
	if err := f.record("save_query:" + req.QueryName); err != nil {
		return nil, err
	}
	f.saved = append(f.saved, req)
	now := time.Now().Format("2006-01-02 15:04:05")
	q := f.queries[req.QueryName]
	q.QuerySQL = req.QuerySQL
	q.Description = req.Description
	q.UpdatedAt = &now
	return &core.Ack{Success: true, Message: "saved"}, nil
}

func (f *fakeAPI) ListUsers(ctx context.Context, token string) ([]core.UserAccount, error) {
	if err := f.record("list_users"); err != nil {
		return nil, err
	}
	out := make([]core.UserAccount, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, token string, req core.CreateUserRequest) (*core.Ack, error) {
	if err := f.record("create_user:" + req.Username); err != nil {
		return nil, err
	}
	f.users = append(f.users, core.UserAccount{ID: f.nextID, Username: req.Username, IsAdmin: req.IsAdmin})
	f.nextID++
	return &core.Ack{Success: true}, nil
}

func (f *fakeAPI) UpdateUser(ctx context.Context, token string, id int64, req core.UpdateUserRequest) (*core.Ack, error) {
	if err := f.record(fmt.Sprintf("update_user:%d", id)); err != nil {
		return nil, err
	}
	f.updates = append(f.updates, req)
	for i := range f.users {
		if f.users[i].ID == id && req.IsAdmin != nil {
			f.users[i].IsAdmin = *req.IsAdmin
		}
	}
	return &core.Ack{Success: true, Message: "User updated successfully"}, nil
}

func (f *fakeAPI) DeleteUser(ctx context.Context, token string, id int64) (*core.Ack, error) {
	if err := f.record(fmt.Sprintf("delete_user:%d", id)); err != nil {
		return nil, err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			break
		}
	}
	return &core.Ack{Success: true}, nil
}

func (f *fakeAPI) ChangePassword(ctx context.Context, token string, req core.ChangePasswordRequest) (*core.Ack, error) {
	if err := f.record("change_password"); err != nil {
		return nil, err
	}
	if req.CurrentPassword != "oldpass" {
		return nil, &core.RequestError{Status: 400, Detail: "Current password is incorrect"}
	}
	return &core.Ack{Success: true}, nil
}

type memAudit struct {
	entries []core.AuditEntry
}

func (m *memAudit) Create(e *core.AuditEntry) error {
	e.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memAudit) GetRecent(limit int) ([]core.AuditEntry, error) {
	var out []core.AuditEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

var (
	yes = ConfirmFunc(func(string) bool { return true })
	no  = ConfirmFunc(func(string) bool { return false })
)

// newTestConsole returns a console logged in as the admin "root" with its
// notices never auto-hidden.
func newTestConsole(t *testing.T) (*Console, *fakeAPI, *memAudit) {
	t.Helper()
	api := newFakeAPI()
	audit := &memAudit{}
	c := NewConsole("test", api, audit)
	c.Notices.afterFunc = func(time.Duration, func()) {}
	c.Attach(core.Session{Token: "tok", Username: "root", IsAdmin: true})
	return c, api, audit
}
