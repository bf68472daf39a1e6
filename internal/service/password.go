package service

import (
	"context"

	"queryadmin/internal/core"
)

// ChangePassword rotates the operator's own password and forces a new login.
// Only the server knows whether current is right.
func (c *Console) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := core.CheckPasswordChange(current, next, confirm); err != nil {
		return c.fail("Failed to change password", err)
	}

	_, err := c.api.ChangePassword(ctx, c.session.Token, core.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	c.record("change_password", c.session.Username, err)
	if err != nil {
		return c.fail("Failed to change password", err)
	}

	c.pending = c.guard.ForceLogout("Password changed successfully. Please login again.", NoticeSuccess)
	return nil
}
