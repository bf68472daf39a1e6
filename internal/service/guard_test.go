package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryadmin/internal/core"
)

func newTestGuard() (*Guard, *Notifier) {
	n := NewNotifier()
	n.afterFunc = func(time.Duration, func()) {}
	return NewGuard(n), n
}

func TestGuard_NoToken(t *testing.T) {
	g, n := newTestGuard()

	nav := g.Initialize(core.Session{Username: "root", IsAdmin: true})
	require.NotNil(t, nav)
	assert.Equal(t, PageLogin, nav.Target)
	assert.Zero(t, nav.Delay)
	assert.False(t, n.Current().Visible)
}

func TestGuard_NotAdmin(t *testing.T) {
	g, n := newTestGuard()

	nav := g.Initialize(core.Session{Token: "tok", Username: "bob"})
	require.NotNil(t, nav)
	assert.Equal(t, PageMainApp, nav.Target)
	assert.Equal(t, RedirectDelay, nav.Delay)
	assert.False(t, nav.ClearSession)
	assert.Equal(t, NoticeError, n.Current().Kind)
	assert.True(t, n.Current().Visible)
}

func TestGuard_Admin(t *testing.T) {
	g, _ := newTestGuard()
	assert.Nil(t, g.Initialize(core.Session{Token: "tok", Username: "root", IsAdmin: true}))
}

func TestGuard_Logout(t *testing.T) {
	g, _ := newTestGuard()

	var asked string
	nav := g.Logout(ConfirmFunc(func(p string) bool { asked = p; return false }))
	assert.Nil(t, nav)
	assert.Equal(t, "Are you sure you want to logout?", asked)

	nav = g.Logout(yes)
	require.NotNil(t, nav)
	assert.Equal(t, Navigation{Target: PageLogin, ClearSession: true}, *nav)
}

func TestGuard_ForceLogout(t *testing.T) {
	g, n := newTestGuard()

	nav := g.ForceLogout("Session expired. Please login again.", NoticeError)
	assert.Equal(t, Navigation{Target: PageLogin, Delay: RedirectDelay, ClearSession: true}, *nav)
	assert.Equal(t, "Session expired. Please login again.", n.Current().Message)

	// A second forced logout schedules the same navigation again.
	assert.Equal(t, *nav, *g.ForceLogout("again", NoticeError))
}
