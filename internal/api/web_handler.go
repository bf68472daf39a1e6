package api

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
	"queryadmin/internal/service"
)

type WebHandler struct {
	navigator
}

func NewWebHandler(sessions *SessionStore, registry *service.Registry, templates *template.Template, mainAppURL string) *WebHandler {
	return &WebHandler{navigator: navigator{
		sessions:   sessions,
		registry:   registry,
		templates:  templates,
		mainAppURL: mainAppURL,
	}}
}

// Setup Routes for Web. Every route expects AdminMiddleware in front of it.
func (h *WebHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/"+service.TabQueries, http.StatusFound)
	})
	r.Get("/admin/{tab}", h.TabPage)

	// Queries
	r.Post("/admin/queries/select", h.SelectQuery)
	r.Post("/admin/queries/mode", h.SwitchMode)
	r.Post("/admin/queries/reset", h.ResetQuery)
	r.Post("/admin/queries/test", h.TestQuery)
	r.Post("/admin/queries/save", h.SaveQuery)
	r.Post("/admin/queries/cancel", h.CancelEdit)

	// Users
	r.Post("/admin/users", h.CreateUser)
	r.Post("/admin/users/{id}/admin", h.SetAdmin)
	r.Post("/admin/users/{id}/password", h.ResetUserPassword)
	r.Post("/admin/users/{id}/delete", h.DeleteUser)

	// Own account
	r.Post("/admin/password", h.ChangePassword)
}

func (h *WebHandler) TabPage(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())

	err := c.SwitchTab(r.Context(), chi.URLParam(r, "tab"))
	if nav := c.TakeNavigation(); nav != nil {
		h.navigate(w, r, c, nav)
		return
	}

	status := http.StatusOK
	if errors.Is(err, service.ErrUnknownTab) {
		status = http.StatusNotFound
	}
	h.render(w, status, c)
}

// --- Query editor ---

func (h *WebHandler) SelectQuery(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	name := r.FormValue("query_name")
	if name == "" {
		http.Error(w, "query_name is required", http.StatusBadRequest)
		return
	}
	logError(c.SelectQuery(r.Context(), name), "select query")
	h.finish(w, r, c, nil, service.TabQueries)
}

func (h *WebHandler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	mode, ok := service.ParseEditorMode(r.FormValue("mode"))
	if !ok {
		http.Error(w, "Unknown editor mode", http.StatusBadRequest)
		return
	}
	c.SwitchMode(mode)
	h.finish(w, r, c, nil, service.TabQueries)
}

func (h *WebHandler) ResetQuery(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	fc := newFormConfirmer(r)
	logError(c.ResetToDefault(r.Context(), fc), "reset query")
	h.finish(w, r, c, fc, service.TabQueries)
}

func (h *WebHandler) TestQuery(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	logError(c.TestQuery(editorInput(r)), "test query")
	h.finish(w, r, c, nil, service.TabQueries)
}

func (h *WebHandler) SaveQuery(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	fc := newFormConfirmer(r)
	logError(c.SaveQuery(r.Context(), editorInput(r), fc), "save query")
	h.finish(w, r, c, fc, service.TabQueries)
}

func (h *WebHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	fc := newFormConfirmer(r)
	c.CancelEdit(fc)
	h.finish(w, r, c, fc, service.TabQueries)
}

func editorInput(r *http.Request) service.EditorInput {
	return service.EditorInput{
		Fields: core.BasicFields{
			DeviceType:    strings.TrimSpace(r.FormValue("device_type")),
			DeviceTable:   strings.TrimSpace(r.FormValue("device_table")),
			BuildingPRK:   strings.TrimSpace(r.FormValue("building_prk")),
			BuildingTable: strings.TrimSpace(r.FormValue("building_table")),
		},
		RawSQL:      r.FormValue("query_sql"),
		Description: r.FormValue("description"),
	}
}

// --- User Management Handlers ---

func (h *WebHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	isAdmin := r.FormValue("is_admin") == "on"

	logError(c.CreateUser(r.Context(), username, password, isAdmin), "create user")
	h.finish(w, r, c, nil, service.TabUsers)
}

func (h *WebHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	id, ok := userID(w, r)
	if !ok {
		return
	}
	isAdmin, err := strconv.ParseBool(r.FormValue("is_admin"))
	if err != nil {
		http.Error(w, "is_admin must be true or false", http.StatusBadRequest)
		return
	}

	fc := newFormConfirmer(r)
	logError(c.SetAdmin(r.Context(), id, isAdmin, fc), "set admin")
	h.finish(w, r, c, fc, service.TabUsers)
}

func (h *WebHandler) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	id, ok := userID(w, r)
	if !ok {
		return
	}

	fc := newFormConfirmer(r)
	logError(c.ResetUserPassword(r.Context(), id, r.FormValue("new_password"), fc), "reset password")
	h.finish(w, r, c, fc, service.TabUsers)
}

func (h *WebHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	id, ok := userID(w, r)
	if !ok {
		return
	}

	fc := newFormConfirmer(r)
	logError(c.DeleteUser(r.Context(), id, fc), "delete user")
	h.finish(w, r, c, fc, service.TabUsers)
}

func (h *WebHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	c := ConsoleFrom(r.Context())
	err := c.ChangePassword(r.Context(),
		r.FormValue("current_password"),
		r.FormValue("new_password"),
		r.FormValue("confirm_password"),
	)
	logError(err, "change password")
	h.finish(w, r, c, nil, service.TabPassword)
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// logError records an operation failure. The operator already sees it as a
// notice.
func logError(err error, op string) {
	if err != nil {
		logger.Debug().Err(err).Str("op", op).Msg("Console operation failed")
	}
}

// finish completes a POST: a scheduled navigation wins, then a pending
// confirmation, otherwise the operator goes back to the tab.
func (h *WebHandler) finish(w http.ResponseWriter, r *http.Request, c *service.Console, fc *formConfirmer, tab string) {
	if nav := c.TakeNavigation(); nav != nil {
		h.navigate(w, r, c, nav)
		return
	}
	if fc != nil && fc.Asked() {
		h.confirm(w, r, fc.prompt, "/admin/"+tab)
		return
	}
	http.Redirect(w, r, "/admin/"+tab, http.StatusSeeOther)
}

func (h *WebHandler) render(w http.ResponseWriter, status int, c *service.Console) {
	view := c.View()
	page := view.ActiveTab
	if page == "" {
		page = "notfound"
	}

	// Execute layout which selects the panel by Page
	renderTemplate(w, h.templates, status, "layout.html", map[string]interface{}{
		"Title": "Query Admin",
		"Page":  page,
		"Data":  view,
	})
}
