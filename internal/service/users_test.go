package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryadmin/internal/core"
)

func TestUserRows_SelfHasNoActions(t *testing.T) {
	c, _, _ := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	rows := c.View().Users
	require.Len(t, rows, 2)

	assert.Equal(t, "root", rows[0].Username)
	assert.True(t, rows[0].IsSelf)
	assert.Empty(t, rows[0].Actions)
	for _, a := range []UserAction{ActionPromote, ActionDemote, ActionResetPassword, ActionDelete} {
		assert.False(t, rows[0].Can(a))
	}

	assert.False(t, rows[1].IsSelf)
	assert.Equal(t, []UserAction{ActionPromote, ActionResetPassword, ActionDelete}, rows[1].Actions)
}

func TestCreateUser_Validation(t *testing.T) {
	c, api, _ := newTestConsole(t)

	err := c.CreateUser(context.Background(), "ab", "secret1", false)
	assert.Equal(t, core.KindValidation, core.Kind(err))
	assert.Empty(t, api.Calls())
	assert.Equal(t, "Username must be at least 3 characters", c.Notices.Current().Message)

	err = c.CreateUser(context.Background(), "abc", "12345", false)
	assert.Equal(t, core.KindValidation, core.Kind(err))
	assert.Empty(t, api.Calls())

	require.NoError(t, c.CreateUser(context.Background(), "abc", "secret1", true))
	assert.Equal(t, []string{"create_user:abc", "list_users"}, api.Calls())
	assert.Equal(t, "User 'abc' created successfully", c.Notices.Current().Message)
	assert.Len(t, c.View().Users, 3)
}

func TestSetAdmin(t *testing.T) {
	c, api, audit := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	var prompt string
	err := c.SetAdmin(context.Background(), 2, true, ConfirmFunc(func(p string) bool { prompt = p; return true }))
	require.NoError(t, err)
	assert.Equal(t, "Grant admin privileges to bob?", prompt)
	require.Len(t, api.updates, 1)
	require.NotNil(t, api.updates[0].IsAdmin)
	assert.True(t, *api.updates[0].IsAdmin)
	assert.Empty(t, api.updates[0].NewPassword)

	rows := c.View().Users
	assert.Equal(t, []UserAction{ActionDemote, ActionResetPassword, ActionDelete}, rows[1].Actions)
	assert.Equal(t, "promote_user", audit.entries[0].Action)
	assert.Equal(t, "bob", audit.entries[0].Target)
}

func TestSetAdmin_Declined(t *testing.T) {
	c, api, _ := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	require.NoError(t, c.SetAdmin(context.Background(), 2, true, no))
	assert.Equal(t, []string{"list_users"}, api.Calls())
}

func TestSelfActionsRefused(t *testing.T) {
	c, api, _ := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	// The id resolves to the operator even if the submitted name says otherwise.
	assert.Equal(t, core.KindValidation, core.Kind(c.DeleteUser(context.Background(), 1, yes)))
	assert.Equal(t, core.KindValidation, core.Kind(c.SetAdmin(context.Background(), 1, false, yes)))
	assert.Equal(t, core.KindValidation, core.Kind(c.ResetUserPassword(context.Background(), 1, "secret1", yes)))
	assert.Equal(t, []string{"list_users"}, api.Calls())
}

func TestResetUserPassword(t *testing.T) {
	c, api, _ := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	err := c.ResetUserPassword(context.Background(), 2, "short", yes)
	assert.Equal(t, core.KindValidation, core.Kind(err))
	assert.Empty(t, api.updates)

	require.NoError(t, c.ResetUserPassword(context.Background(), 2, "secret1", yes))
	require.Len(t, api.updates, 1)
	assert.Nil(t, api.updates[0].IsAdmin)
	assert.Equal(t, "secret1", api.updates[0].NewPassword)
	assert.Equal(t, "Password reset for bob", c.Notices.Current().Message)
}

func TestDeleteUser(t *testing.T) {
	c, api, _ := newTestConsole(t)
	require.NoError(t, c.LoadUsers(context.Background()))

	require.NoError(t, c.DeleteUser(context.Background(), 2, yes))
	assert.Equal(t, []string{"list_users", "delete_user:2", "list_users"}, api.Calls())
	assert.Len(t, c.View().Users, 1)
}

func TestUsers_ForbiddenNotifies(t *testing.T) {
	c, api, _ := newTestConsole(t)
	api.err = core.ErrForbidden

	require.Error(t, c.LoadUsers(context.Background()))
	assert.Equal(t, "Admin privileges required", c.Notices.Current().Message)
	assert.Equal(t, "Failed to load users", c.View().UsersError)
	assert.Nil(t, c.TakeNavigation())
}

func TestUsers_UnauthorizedOnListForcesLogout(t *testing.T) {
	c, api, _ := newTestConsole(t)
	api.err = core.ErrUnauthorized

	// A failed load is not a routing error; the tab still activates.
	require.NoError(t, c.SwitchTab(context.Background(), TabUsers))
	assert.Equal(t, TabUsers, c.ActiveTab())

	nav := c.TakeNavigation()
	require.NotNil(t, nav)
	assert.True(t, nav.ClearSession)
	assert.Equal(t, PageLogin, nav.Target)
}

func TestSelfActionsRefused_FreshConsoleLoadsList(t *testing.T) {
	// No list loaded yet and no trustworthy name submitted.
	c, api, _ := newTestConsole(t)
	assert.Equal(t, core.KindValidation, core.Kind(c.DeleteUser(context.Background(), 1, yes)))
	assert.Equal(t, []string{"list_users"}, api.Calls())

	c, api, _ = newTestConsole(t)
	assert.Equal(t, core.KindValidation, core.Kind(c.SetAdmin(context.Background(), 1, false, yes)))
	assert.Equal(t, core.KindValidation, core.Kind(c.ResetUserPassword(context.Background(), 1, "secret1", yes)))
	assert.Equal(t, []string{"list_users"}, api.Calls())
	assert.Empty(t, api.updates)
}

func TestUserActions_UnknownIDRefused(t *testing.T) {
	c, api, _ := newTestConsole(t)

	err := c.DeleteUser(context.Background(), 99, yes)
	assert.Equal(t, core.KindValidation, core.Kind(err))
	assert.Equal(t, "User #99 not found", c.Notices.Current().Message)
	assert.Equal(t, []string{"list_users"}, api.Calls())
}

func TestUserActions_NameComesFromList(t *testing.T) {
	c, api, _ := newTestConsole(t)

	var prompt string
	err := c.DeleteUser(context.Background(), 2, ConfirmFunc(func(p string) bool { prompt = p; return true }))
	require.NoError(t, err)
	assert.Equal(t, "Delete user bob? This cannot be undone.", prompt)
	assert.Equal(t, []string{"list_users", "delete_user:2", "list_users"}, api.Calls())
}
