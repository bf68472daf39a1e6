package service

import (
	"context"
	"fmt"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
)

type UserAction string

const (
	ActionPromote       UserAction = "promote"
	ActionDemote        UserAction = "demote"
	ActionResetPassword UserAction = "reset_password"
	ActionDelete        UserAction = "delete"
)

// UserRow is a rendered account. The operator's own row has IsSelf set and
// no actions.
type UserRow struct {
	core.UserAccount
	IsSelf  bool
	Actions []UserAction
}

func (r UserRow) Can(a UserAction) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}

func (c *Console) userRow(u core.UserAccount) UserRow {
	row := UserRow{UserAccount: u, IsSelf: u.Username == c.session.Username}
	if row.IsSelf {
		return row
	}

	if u.IsAdmin {
		row.Actions = append(row.Actions, ActionDemote)
	} else {
		row.Actions = append(row.Actions, ActionPromote)
	}
	row.Actions = append(row.Actions, ActionResetPassword, ActionDelete)
	return row
}

// LoadUsers fetches the full account list. There is no cache.
func (c *Console) LoadUsers(ctx context.Context) error {
	users, err := c.api.ListUsers(ctx, c.session.Token)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load users")
		c.users = nil
		c.usersErr = "Failed to load users"
		return c.checkAuth(err)
	}
	c.users = users
	c.usersErr = ""
	return nil
}

func (c *Console) CreateUser(ctx context.Context, username, password string, isAdmin bool) error {
	if err := core.CheckUsername(username); err != nil {
		return c.fail("Failed to create user", err)
	}
	if err := core.CheckPassword(password); err != nil {
		return c.fail("Failed to create user", err)
	}

	ack, err := c.api.CreateUser(ctx, c.session.Token, core.CreateUserRequest{
		Username: username,
		Password: password,
		IsAdmin:  isAdmin,
	})
	c.record("create_user", username, err)
	if err != nil {
		return c.fail("Failed to create user", err)
	}

	c.Notices.Notify(ackMessage(ack, fmt.Sprintf("User '%s' created successfully", username)), NoticeSuccess)
	c.LoadUsers(ctx)
	return nil
}

func (c *Console) SetAdmin(ctx context.Context, id int64, isAdmin bool, confirm Confirmer) error {
	username, err := c.target(ctx, id)
	if err != nil {
		return c.fail("Failed to update user", err)
	}

	prompt := fmt.Sprintf("Grant admin privileges to %s?", username)
	action := "promote_user"
	if !isAdmin {
		prompt = fmt.Sprintf("Remove admin privileges from %s?", username)
		action = "demote_user"
	}
	if !confirm.Confirm(prompt) {
		return nil
	}

	ack, err := c.api.UpdateUser(ctx, c.session.Token, id, core.UpdateUserRequest{IsAdmin: &isAdmin})
	c.record(action, username, err)
	if err != nil {
		return c.fail("Failed to update user", err)
	}

	c.Notices.Notify(ackMessage(ack, "User updated successfully"), NoticeSuccess)
	c.LoadUsers(ctx)
	return nil
}

func (c *Console) ResetUserPassword(ctx context.Context, id int64, password string, confirm Confirmer) error {
	username, err := c.target(ctx, id)
	if err != nil {
		return c.fail("Failed to reset password", err)
	}
	if err := core.CheckPassword(password); err != nil {
		return c.fail("Failed to reset password", err)
	}
	if !confirm.Confirm(fmt.Sprintf("Reset password for %s?", username)) {
		return nil
	}

	_, err = c.api.UpdateUser(ctx, c.session.Token, id, core.UpdateUserRequest{NewPassword: password})
	c.record("reset_password", username, err)
	if err != nil {
		return c.fail("Failed to reset password", err)
	}

	c.Notices.Notify(fmt.Sprintf("Password reset for %s", username), NoticeSuccess)
	c.LoadUsers(ctx)
	return nil
}

func (c *Console) DeleteUser(ctx context.Context, id int64, confirm Confirmer) error {
	username, err := c.target(ctx, id)
	if err != nil {
		return c.fail("Failed to delete user", err)
	}
	if !confirm.Confirm(fmt.Sprintf("Delete user %s? This cannot be undone.", username)) {
		return nil
	}

	ack, err := c.api.DeleteUser(ctx, c.session.Token, id)
	c.record("delete_user", username, err)
	if err != nil {
		return c.fail("Failed to delete user", err)
	}

	c.Notices.Notify(ackMessage(ack, fmt.Sprintf("User '%s' deleted successfully", username)), NoticeSuccess)
	c.LoadUsers(ctx)
	return nil
}

// target resolves the account for id from the user list, loading it when
// empty. The submitted username is never trusted; unknown ids and the
// operator's own account are refused.
func (c *Console) target(ctx context.Context, id int64) (string, error) {
	if len(c.users) == 0 {
		if err := c.LoadUsers(ctx); err != nil {
			return "", err
		}
	}

	for _, u := range c.users {
		if u.ID != id {
			continue
		}
		if u.Username == c.session.Username {
			return "", core.Invalid("Use Change Password to manage your own account")
		}
		return u.Username, nil
	}
	return "", core.Invalid("User #%d not found", id)
}

func ackMessage(ack *core.Ack, fallback string) string {
	if ack != nil && ack.Message != "" {
		return ack.Message
	}
	return fallback
}
