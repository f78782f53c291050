// Package console drives the admin console: it loads sections through the backend,
// keeps each viewer's active section and modal states, and reports outcomes as
// view descriptions plus toasts.
package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"stockdesk/m/domain"
	"stockdesk/m/internal/apiclient"
	"stockdesk/m/internal/toast"
	"stockdesk/m/internal/view"
)

var (
	// ErrSignedOut means the backend rejected the viewer's token. The session has
	// been cleared and the viewer must sign in again; no toast is shown.
	ErrSignedOut      = errors.New("console: signed out")
	ErrUnknownSection = errors.New("console: unknown section")
	ErrUnknownModal   = errors.New("console: unknown modal")
)

// Backend is the subset of the inventory API the console calls.
type Backend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, p domain.NewProduct) (domain.Ack, error)
	DeleteProduct(ctx context.Context, batch string) error
	ListExpiry(ctx context.Context) ([]domain.ExpiryItem, error)
	ReceiveStock(ctx context.Context, batch string, qty domain.Quantity) (domain.StockReceipt, error)
	ListDraftOrders(ctx context.Context) ([]domain.CurrentOrder, error)
	ListOrders(ctx context.Context) (domain.OrderList, error)
	CreateOrder(ctx context.Context, batch string, qty domain.Quantity) (domain.Ack, error)
	ConfirmOrder(ctx context.Context, orderID string) (domain.CurrentOrder, error)
	UpdateOrderQuantity(ctx context.Context, orderID string, qty domain.Quantity) (domain.CurrentOrder, error)
}

// SessionClearer forgets a viewer's stored token and email.
type SessionClearer interface {
	Clear(ctx context.Context, sid string) error
}

// Outcome is what one console action changed on the page. Panels lists only the
// containers that loaded successfully; the rest keep their previous content.
type Outcome struct {
	Panels []view.Panel
	// Modal is set while a modal stays open, e.g. after a failed submit.
	Modal *view.Modal
	// Closed names the modal that was closed by the action.
	Closed string
}

// Console holds per-viewer state. Viewers are keyed by session id.
type Console struct {
	backend  Backend
	toasts   *toast.Notifier
	sessions SessionClearer
	auth     bool
	log      *slog.Logger

	mu     sync.Mutex
	now    func() time.Time
	seen   map[string]time.Time
	active map[string]string
	modals map[string]map[string]*modalState
}

type Option func(*Console)

// WithAuth enables the authenticated variant: a dashboard section, and 401 handling
// through the given session clearer.
func WithAuth(sessions SessionClearer) Option {
	return func(c *Console) {
		c.auth = true
		c.sessions = sessions
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.log = l }
}

func New(backend Backend, toasts *toast.Notifier, opts ...Option) *Console {
	c := &Console{
		backend: backend,
		toasts:  toasts,
		log:     slog.Default(),
		now:     time.Now,
		seen:    make(map[string]time.Time),
		active:  make(map[string]string),
		modals:  make(map[string]map[string]*modalState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Auth reports whether the console runs the authenticated variant.
func (c *Console) Auth() bool { return c.auth }

// Toast returns the toast currently visible to viewer, if any.
func (c *Console) Toast(viewer string) (toast.Toast, bool) {
	return c.toasts.Current(viewer)
}

// Forget drops all in-memory state for viewer.
func (c *Console) Forget(viewer string) {
	c.mu.Lock()
	c.drop(viewer)
	c.mu.Unlock()
	c.toasts.Dismiss(viewer)
}

// Prune drops the state of viewers idle since before cutoff, along with expired
// toasts, and reports how many viewers went.
func (c *Console) Prune(cutoff time.Time) int {
	c.mu.Lock()
	n := 0
	for viewer, at := range c.seen {
		if at.Before(cutoff) {
			c.drop(viewer)
			n++
		}
	}
	c.mu.Unlock()
	c.toasts.Prune()
	return n
}

// touch records viewer activity. c.mu must be held.
func (c *Console) touch(viewer string) {
	c.seen[viewer] = c.now()
}

// drop forgets viewer. c.mu must be held.
func (c *Console) drop(viewer string) {
	delete(c.seen, viewer)
	delete(c.active, viewer)
	delete(c.modals, viewer)
}

// fail reports a failed action to the viewer with the backend's detail, or fallback
// when there is none. A 401 in the authenticated variant clears the session instead
// and returns ErrSignedOut; everything else becomes an error toast and fail returns nil.
func (c *Console) fail(ctx context.Context, viewer string, err error, fallback string) error {
	if c.signedOut(ctx, viewer, err) {
		return ErrSignedOut
	}
	c.log.Warn("backend call failed", "viewer", viewer, "error", err)
	c.toasts.Notify(viewer, apiclient.Message(err, fallback), toast.Error)
	return nil
}

// failLoad is fail for section loads, which always show the section's own message.
func (c *Console) failLoad(ctx context.Context, viewer string, err error, message string) error {
	if c.signedOut(ctx, viewer, err) {
		return ErrSignedOut
	}
	c.log.Warn("section load failed", "viewer", viewer, "error", err)
	c.toasts.Notify(viewer, message, toast.Error)
	return nil
}

// signedOut clears the viewer's session when err is a 401 in the authenticated variant.
func (c *Console) signedOut(ctx context.Context, viewer string, err error) bool {
	if !c.auth || !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	if c.sessions != nil {
		if cerr := c.sessions.Clear(ctx, viewer); cerr != nil {
			c.log.Error("clear session", "viewer", viewer, "error", cerr)
		}
	}
	c.Forget(viewer)
	return true
}

func (c *Console) succeed(viewer, msg string) {
	c.toasts.Notify(viewer, msg, toast.Success)
}
