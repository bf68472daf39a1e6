package api

import (
	"html/template"
	"net/http"
	"sort"
	"strings"

	"queryadmin/internal/logger"
	"queryadmin/internal/service"
)

const confirmedField = "confirmed"

// formConfirmer answers a console prompt from the submitted form. Without
// confirmed=yes it remembers the prompt so the handler can render a
// confirmation page instead.
type formConfirmer struct {
	confirmed bool
	prompt    string
}

func newFormConfirmer(r *http.Request) *formConfirmer {
	return &formConfirmer{confirmed: r.PostFormValue(confirmedField) == "yes"}
}

func (f *formConfirmer) Confirm(prompt string) bool {
	if f.confirmed {
		return true
	}
	f.prompt = prompt
	return false
}

func (f *formConfirmer) Asked() bool {
	return f.prompt != ""
}

type hiddenField struct {
	Name   string
	Value  string
	Secret bool
}

// secretField reports whether a form value must not be echoed back into
// the confirmation page.
func secretField(name string) bool {
	return strings.Contains(strings.ToLower(name), "password")
}

// navigator carries out console navigations and confirmation prompts.
type navigator struct {
	sessions   *SessionStore
	registry   *service.Registry
	templates  *template.Template
	mainAppURL string
}

func (n *navigator) pageURL(p service.Page) string {
	switch p {
	case service.PageLogin:
		return "/login"
	case service.PageMainApp:
		return n.mainAppURL
	default:
		return "/admin"
	}
}

// navigate executes nav: an immediate redirect, or an interstitial that
// shows the current notice until the delay elapses.
func (n *navigator) navigate(w http.ResponseWriter, r *http.Request, c *service.Console, nav *service.Navigation) {
	notice := c.Notices.Current()
	if nav.ClearSession {
		if err := n.sessions.Clear(w, r); err != nil {
			logger.Error().Err(err).Msg("Failed to clear session")
		}
		n.registry.Close(c.ID)
	}

	target := n.pageURL(nav.Target)
	if nav.Delay <= 0 {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	renderTemplate(w, n.templates, http.StatusOK, "redirect.html", map[string]interface{}{
		"Title":   "Redirecting",
		"Notice":  notice,
		"URL":     target,
		"Seconds": int(nav.Delay.Seconds()),
	})
}

// confirm renders a page asking prompt that re-posts the current form with
// confirmed=yes. Password fields are never echoed; the operator types them
// again. Cancel goes back to cancelURL.
func (n *navigator) confirm(w http.ResponseWriter, r *http.Request, prompt, cancelURL string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	names := make([]string, 0, len(r.PostForm))
	for name := range r.PostForm {
		if name != confirmedField {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var fields []hiddenField
	for _, name := range names {
		if secretField(name) {
			fields = append(fields, hiddenField{Name: name, Secret: true})
			continue
		}
		for _, v := range r.PostForm[name] {
			fields = append(fields, hiddenField{Name: name, Value: v})
		}
	}

	renderTemplate(w, n.templates, http.StatusOK, "confirm.html", map[string]interface{}{
		"Title":     "Confirm",
		"Prompt":    prompt,
		"Action":    r.URL.Path,
		"Fields":    fields,
		"CancelURL": cancelURL,
	})
}
