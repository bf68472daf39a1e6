package api

import (
	"net/http"

	"github.com/gorilla/sessions"

	"queryadmin/internal/core"
	"queryadmin/internal/service"
)

const sessionName = "queryadmin-session"

const (
	keyToken    = "token"
	keyUsername = "username"
	keyIsAdmin  = "is_admin"
	keyConsole  = "sid"
)

// SessionStore persists the operator's token, username and admin flag in an
// encrypted cookie, plus the id of their console.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(keys *service.SessionKeys, secure bool) *SessionStore {
	store := sessions.NewCookieStore(keys.HashKey, keys.BlockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Load reads the persisted session. A missing or undecodable cookie yields
// an empty session.
func (s *SessionStore) Load(r *http.Request) (core.Session, string) {
	session, _ := s.store.Get(r, sessionName)

	var out core.Session
	out.Token, _ = session.Values[keyToken].(string)
	out.Username, _ = session.Values[keyUsername].(string)
	out.IsAdmin, _ = session.Values[keyIsAdmin].(bool)
	sid, _ := session.Values[keyConsole].(string)
	return out, sid
}

func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, sess core.Session, sid string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[keyToken] = sess.Token
	session.Values[keyUsername] = sess.Username
	session.Values[keyIsAdmin] = sess.IsAdmin
	session.Values[keyConsole] = sid
	return session.Save(r, w)
}

// Clear removes all persisted fields and expires the cookie.
func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	for k := range session.Values {
		delete(session.Values, k)
	}
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
