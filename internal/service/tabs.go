package service

import (
	"errors"

	"queryadmin/internal/logger"
)

const (
	TabQueries  = "queries"
	TabUsers    = "users"
	TabPassword = "password"
	TabActivity = "activity"
)

var ErrUnknownTab = errors.New("unknown tab")

type Tab struct {
	Name        string
	Label       string
	NavActive   bool
	PanelActive bool
}

// TabRouter keeps exactly one nav tab and its panel active, or none after a
// switch to a tab that has no panel.
type TabRouter struct {
	tabs []Tab
}

func NewTabRouter() *TabRouter {
	return &TabRouter{tabs: []Tab{
		{Name: TabQueries, Label: "Queries"},
		{Name: TabUsers, Label: "Users"},
		{Name: TabPassword, Label: "Change Password"},
		{Name: TabActivity, Label: "Activity"},
	}}
}

func (t *TabRouter) Switch(name string) error {
	for i := range t.tabs {
		t.tabs[i].NavActive = false
		t.tabs[i].PanelActive = false
	}

	for i := range t.tabs {
		if t.tabs[i].Name == name {
			t.tabs[i].NavActive = true
			t.tabs[i].PanelActive = true
			return nil
		}
	}

	logger.Error().Str("tab", name).Msg("Tab content not found")
	return ErrUnknownTab
}

// Active returns the active tab name, or "" in the blank state.
func (t *TabRouter) Active() string {
	for _, tab := range t.tabs {
		if tab.PanelActive {
			return tab.Name
		}
	}
	return ""
}

func (t *TabRouter) Tabs() []Tab {
	out := make([]Tab, len(t.tabs))
	copy(out, t.tabs)
	return out
}
