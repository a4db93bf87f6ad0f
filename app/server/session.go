package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/segmentio/ksuid"

	"walletclient/pkg/protocol"
	"walletclient/pkg/web"
)

const sessionCookie = "session"

type ctxMarkerUser struct{}

var ctxKeyUser = &ctxMarkerUser{}

// sessions maps session cookie values to user emails.
type sessions struct {
	mu   sync.Mutex
	byID map[string]string
}

func (s *sessions) open(email string) *http.Cookie {
	id := ksuid.New().String()

	s.mu.Lock()
	if s.byID == nil {
		s.byID = map[string]string{}
	}
	s.byID[id] = email
	s.mu.Unlock()

	return &http.Cookie{Name: sessionCookie, Value: id, Path: "/", HttpOnly: true}
}

// close ends the session of r, if any, and returns a cookie removing it.
func (s *sessions) close(r *http.Request) *http.Cookie {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.mu.Lock()
		delete(s.byID, c.Value)
		s.mu.Unlock()
	}
	return &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true}
}

func (s *sessions) lookup(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.byID[c.Value]
	return email, ok
}

func errUnauthorized(msg string) *protocol.Error {
	if msg == "" {
		msg = http.StatusText(http.StatusUnauthorized)
	}
	return protocol.NewError(http.StatusUnauthorized, "unauthorized", msg)
}

// authenticator lets through requests carrying a live session cookie.
func (s *Rest) authenticator(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		email, ok := s.sessions.lookup(r)
		if !ok {
			web.RenderError(w, r, errUnauthorized(""))
			return
		}
		user := s.Store.User(email)
		if user == nil {
			web.RenderError(w, r, errUnauthorized("account no longer exists"))
			return
		}

		// session is authenticated, pass it through
		ctx := context.WithValue(r.Context(), ctxKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(fn)
}

func userFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxKeyUser).(*User)
	return user
}
