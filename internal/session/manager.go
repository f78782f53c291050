package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"stockdesk/m/domain"
)

// CookieName carries the signed session id.
const CookieName = "stockdesk_session"

type ctxKey string

const ctxSessionID ctxKey = "sessionID"

// ID returns the session id attached by Manager.Middleware.
func ID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxSessionID).(string)
	return sid
}

// WithID attaches a session id to ctx.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxSessionID, sid)
}

// Manager binds browsers to session ids and reads and writes their stored values.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Middleware makes sure every request carries a session id, issuing a new signed
// cookie when the browser has none or presents an invalid one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if c, err := r.Cookie(CookieName); err == nil {
			sid, _ = m.parse(c.Value)
		}
		if sid == "" {
			var err error
			sid, err = m.issue(w, r)
			if err != nil {
				http.Error(w, "unable to start session", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

func (m *Manager) issue(w http.ResponseWriter, r *http.Request) (string, error) {
	sid := uuid.NewString()
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}

func (m *Manager) parse(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}
	return claims.ID, nil
}

// Load reads the stored session; a browser that never signed in yields a zero Session.
func (m *Manager) Load(ctx context.Context, sid string) (domain.Session, error) {
	token, err := m.store.Get(ctx, sid, KeyToken)
	if errors.Is(err, ErrNotFound) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, err
	}
	email, err := m.store.Get(ctx, sid, KeyEmail)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return domain.Session{}, err
	}
	return domain.Session{Token: token, Email: email}, nil
}

func (m *Manager) Save(ctx context.Context, sid string, s domain.Session) error {
	if err := m.store.Set(ctx, sid, KeyToken, s.Token); err != nil {
		return err
	}
	return m.store.Set(ctx, sid, KeyEmail, s.Email)
}

// Clear removes both stored keys.
func (m *Manager) Clear(ctx context.Context, sid string) error {
	return m.store.Delete(ctx, sid, KeyToken, KeyEmail)
}
