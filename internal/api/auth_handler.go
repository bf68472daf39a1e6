package api

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"queryadmin/internal/core"
	"queryadmin/internal/logger"
	"queryadmin/internal/service"
)

type AuthHandler struct {
	navigator
	api core.AdminAPI
}

func NewAuthHandler(api core.AdminAPI, sessions *SessionStore, registry *service.Registry, templates *template.Template, mainAppURL string) *AuthHandler {
	return &AuthHandler{
		navigator: navigator{
			sessions:   sessions,
			registry:   registry,
			templates:  templates,
			mainAppURL: mainAppURL,
		},
		api: api,
	}
}

// Home sends admins to the console and everyone else to login. A signed-in
// non-admin sees a short notice, since the main application lives elsewhere.
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Load(r)
	switch {
	case !sess.HasToken():
		http.Redirect(w, r, "/login", http.StatusFound)
	case sess.IsAdmin:
		http.Redirect(w, r, "/admin", http.StatusFound)
	default:
		renderTemplate(w, h.templates, http.StatusOK, "home.html", map[string]interface{}{
			"Title":    "Query Admin",
			"Username": sess.Username,
		})
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.sessions.Load(r)
	if sess.HasToken() {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	renderTemplate(w, h.templates, http.StatusOK, "login.html", map[string]interface{}{"Title": "Login"})
}

func (h *AuthHandler) DoLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	fail := func(status int, msg string) {
		renderTemplate(w, h.templates, status, "login.html", map[string]interface{}{
			"Title":    "Login",
			"Error":    msg,
			"Username": username,
		})
	}

	if username == "" || password == "" {
		fail(http.StatusBadRequest, "Username and password are required")
		return
	}

	resp, err := h.api.Login(r.Context(), username, password)
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("Login failed")
		switch core.Kind(err) {
		case core.KindNetwork:
			fail(http.StatusBadGateway, "Unable to reach the server")
		case core.KindRequest:
			fail(http.StatusUnauthorized, err.Error())
		default:
			fail(http.StatusUnauthorized, "Invalid username or password")
		}
		return
	}

	// A fresh console per login; the previous one, if any, is discarded.
	_, oldID := h.sessions.Load(r)
	if oldID != "" {
		h.registry.Close(oldID)
	}

	sess := core.Session{Token: resp.AccessToken, Username: resp.Username, IsAdmin: resp.IsAdmin}
	if sess.Username == "" {
		sess.Username = username
	}
	c := h.registry.Open("")
	c.Lock()
	c.Attach(sess)
	c.Unlock()

	if err := h.sessions.Save(w, r, sess, c.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to save session")
		h.registry.Close(c.ID)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	logger.Info().Str("username", sess.Username).Bool("is_admin", sess.IsAdmin).Msg("Operator logged in")
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout asks for confirmation on GET and clears the session once the
// confirmation is posted back.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, sid := h.sessions.Load(r)
	if !sess.HasToken() {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	c := h.registry.Open(sid)
	c.Lock()
	defer c.Unlock()
	c.Attach(sess)

	fc := newFormConfirmer(r)
	nav := c.Logout(fc)
	if nav == nil {
		if fc.Asked() {
			h.confirm(w, r, fc.prompt, "/admin")
			return
		}
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	logger.Info().Str("username", sess.Username).Msg("Operator logged out")
	h.navigate(w, r, c, nav)
}

// AdminMiddleware runs the session guard and attaches the operator's console
// to the request context. The console stays locked for the whole request.
func (h *AuthHandler) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, sid := h.sessions.Load(r)
		if !sess.HasToken() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		c := h.registry.Open(sid)
		if c.ID != sid {
			if err := h.sessions.Save(w, r, sess, c.ID); err != nil {
				logger.Error().Err(err).Msg("Failed to save session")
			}
		}

		c.Lock()
		defer c.Unlock()
		c.Attach(sess)

		if nav := c.Initialize(); nav != nil {
			h.navigate(w, r, c, nav)
			h.registry.Close(c.ID)
			return
		}

		ctx := context.WithValue(r.Context(), ConsoleKey, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
