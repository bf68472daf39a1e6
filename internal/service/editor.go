package service

import (
	"context"
	"fmt"
	"strings"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
)

type EditorMode string

const (
	ModeBasic    EditorMode = "basic"
	ModeAdvanced EditorMode = "advanced"
)

func ParseEditorMode(s string) (EditorMode, bool) {
	switch EditorMode(s) {
	case ModeBasic, ModeAdvanced:
		return EditorMode(s), true
	}
	return "", false
}

// EditorState is the query editor. Current is nil in the no-selection
// state. Fields and RawSQL are what the two modes display; Current.QuerySQL
// only changes when a build step captures an edit, or on reset/reload.
type EditorState struct {
	Current     *core.QueryDetail
	Mode        EditorMode
	Layout      core.FieldLayout
	Fields      core.BasicFields
	RawSQL      string
	Description string
}

// EditorInput is what the operator submitted from the editor form.
type EditorInput struct {
	Fields      core.BasicFields
	RawSQL      string
	Description string
}

func (e EditorState) Editing() bool {
	return e.Current != nil
}

// derive refreshes both displays from Current.QuerySQL. For templates
// without an adapter the basic fields and layout keep their previous values.
func (e *EditorState) derive() {
	e.RawSQL = e.Current.QuerySQL
	if a, ok := core.AdapterFor(e.Current.QueryName); ok {
		e.Layout = a.Layout()
		e.Fields = a.Extract(e.Current.QuerySQL)
	}
}

// build produces the candidate SQL from the active mode.
func (e *EditorState) build(in EditorInput) string {
	if e.Mode == ModeAdvanced {
		return strings.TrimSpace(in.RawSQL)
	}

	sql := e.Current.QuerySQL
	if a, ok := core.AdapterFor(e.Current.QueryName); ok {
		sql = a.Apply(sql, in.Fields)
	}
	return strings.TrimSpace(sql)
}

// capture keeps the submitted values on screen and, when the candidate is
// non-empty, makes it the current SQL.
func (e *EditorState) capture(in EditorInput, sql string) {
	if e.Mode == ModeAdvanced {
		e.RawSQL = in.RawSQL
	} else {
		e.Fields = in.Fields
	}
	e.Description = in.Description
	if sql != "" {
		e.Current.QuerySQL = sql
	}
}

type EditorView struct {
	Editing      bool
	QueryName    string
	Description  string
	IsDefault    bool
	Mode         EditorMode
	Layout       core.FieldLayout
	Fields       core.BasicFields
	RawSQL       string
	BasicSupport bool
}

func (e *EditorState) view() EditorView {
	v := EditorView{
		Editing:     e.Editing(),
		Mode:        e.Mode,
		Layout:      e.Layout,
		Fields:      e.Fields,
		RawSQL:      e.RawSQL,
		Description: e.Description,
	}
	if e.Current != nil {
		v.QueryName = e.Current.QueryName
		v.IsDefault = e.Current.IsDefault()
		_, v.BasicSupport = core.AdapterFor(e.Current.QueryName)
	}
	return v
}

// LoadQueries refreshes the template list. A failure leaves the list empty
// with an inline message.
func (c *Console) LoadQueries(ctx context.Context) error {
	queries, err := c.api.ListQueries(ctx, c.session.Token)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load queries")
		c.queries = nil
		c.queriesErr = "Failed to load queries"
		return c.checkAuth(err)
	}
	c.queries = queries
	c.queriesErr = ""
	return nil
}

// SelectQuery opens a template in basic mode, replacing whatever was open.
func (c *Console) SelectQuery(ctx context.Context, name string) error {
	detail, err := c.api.GetQuery(ctx, c.session.Token, name)
	if err != nil {
		return c.fail("Failed to load query", err)
	}

	c.editor.Current = detail
	c.editor.Mode = ModeBasic
	c.editor.Description = detail.Description
	c.editor.derive()
	return nil
}

// SwitchMode redraws the target mode from the current SQL. Unsaved edits
// made in the mode being left are dropped.
func (c *Console) SwitchMode(mode EditorMode) {
	c.editor.Mode = mode
	if c.editor.Editing() {
		c.editor.derive()
	}
}

// ResetToDefault loads the built-in SQL into the editor without saving.
func (c *Console) ResetToDefault(ctx context.Context, confirm Confirmer) error {
	if !c.editor.Editing() {
		return nil
	}
	name := c.editor.Current.QueryName
	if !confirm.Confirm(fmt.Sprintf("Reset %s to the default query? Unsaved changes will be lost.", name)) {
		return nil
	}

	def, err := c.api.GetDefaultQuery(ctx, c.session.Token, name)
	if err != nil {
		return c.fail("Failed to load default query", err)
	}

	c.editor.Current.QuerySQL = def.QuerySQL
	c.editor.Current.Description = def.Description
	c.editor.Description = def.Description
	c.editor.derive()
	c.Notices.Notify("Default query loaded. Click Save to apply it.", NoticeInfo)
	return nil
}

// TestQuery runs the local syntax heuristic on the candidate SQL. It never
// contacts the server.
func (c *Console) TestQuery(in EditorInput) error {
	if !c.editor.Editing() {
		return nil
	}

	sql := c.editor.build(in)
	c.editor.capture(in, sql)

	if err := core.CheckQuerySyntax(sql); err != nil {
		c.Notices.Notify(err.Error(), NoticeError)
		return err
	}
	c.Notices.Notify("Query syntax looks valid", NoticeSuccess)
	return nil
}

// SaveQuery persists the candidate SQL, then reloads the list and reopens
// the template from the server.
func (c *Console) SaveQuery(ctx context.Context, in EditorInput, confirm Confirmer) error {
	if !c.editor.Editing() {
		return nil
	}
	name := c.editor.Current.QueryName

	sql := c.editor.build(in)
	c.editor.capture(in, sql)

	if err := core.CheckSelect(sql); err != nil {
		c.Notices.Notify(err.Error(), NoticeError)
		return err
	}
	if !confirm.Confirm(fmt.Sprintf("Save changes to %s?", name)) {
		return nil
	}

	_, err := c.api.SaveQuery(ctx, c.session.Token, core.SaveQueryRequest{
		QueryName:   name,
		QuerySQL:    sql,
		Description: in.Description,
	})
	c.record("save_query", name, err)
	if err != nil {
		return c.fail("Failed to save query", err)
	}

	c.Notices.Notify("Query saved successfully", NoticeSuccess)
	c.LoadQueries(ctx)
	return c.SelectQuery(ctx, name)
}

// CancelEdit closes the editor after confirmation.
func (c *Console) CancelEdit(confirm Confirmer) {
	if !c.editor.Editing() {
		return
	}
	if !confirm.Confirm("Discard changes and close the editor?") {
		return
	}
	c.editor = EditorState{Mode: ModeBasic, Layout: c.editor.Layout}
}

// Editor exposes the editor state to tests and handlers.
func (c *Console) Editor() EditorState {
	return c.editor
}
