package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

// SessionManager maps the session cookie onto a session.Store.
type SessionManager struct {
	store  session.Store
	cookie string
	ttl    time.Duration
}

func NewSessionManager(store session.Store, cookie string, ttl time.Duration) *SessionManager {
	return &SessionManager{store: store, cookie: cookie, ttl: ttl}
}

// Load returns the session named by the request cookie, or a fresh one.
func (m *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	c, err := r.Cookie(m.cookie)
	if err != nil || c.Value == "" {
		return session.New(), nil
	}

	s, err := m.store.Load(ctx, c.Value)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// Save persists s and (re)issues the cookie.
func (m *SessionManager) Save(ctx context.Context, w http.ResponseWriter, s *session.Session) error {
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
