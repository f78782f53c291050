package console

import (
	"context"
	"errors"
	"testing"

	"stockdesk/m/domain"
	"stockdesk/m/internal/apiclient"
	"stockdesk/m/internal/toast"
	"stockdesk/m/internal/view"
)

func TestLoadEmptyCollections(t *testing.T) {
	c := newConsole(t, &fakeBackend{})
	panels, err := c.Load(context.Background(), "v1", LoadProducts, LoadDrafts, LoadOrders, LoadExpiry)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(panels) != 4 {
		t.Fatalf("expected 4 panels, got %d", len(panels))
	}
	for _, p := range panels {
		f, ok := p.(view.Fragment)
		if !ok {
			t.Fatalf("unexpected panel %T", p)
		}
		if !f.Empty() || f.Placeholder == "" {
			t.Errorf("%s: expected placeholder only, got %d items", f.ID, len(f.Items))
		}
	}
	if _, ok := c.Toast("v1"); ok {
		t.Error("successful loads must not toast")
	}
}

func TestLoadPreservesServerOrder(t *testing.T) {
	b := &fakeBackend{expiry: []domain.ExpiryItem{
		{Name: "Milk", Status: domain.ExpiryExpired},
		{Name: "Rice", Status: domain.ExpirySafe},
		{Name: "Oil", Status: domain.ExpiryWarning},
	}}
	c := newConsole(t, b)
	panels, err := c.Load(context.Background(), "v1", LoadExpiry)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f := panels[0].(view.Fragment)
	if len(f.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(f.Items))
	}
	for i, want := range []string{"Milk", "Rice", "Oil"} {
		if f.Items[i].Title != want {
			t.Errorf("item %d = %q, want %q", i, f.Items[i].Title, want)
		}
	}
}

func TestLoadFailureLeavesContainerAndToasts(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{"ListProducts": errBoom}}
	c := newConsole(t, b)

	panels, err := c.Load(context.Background(), "v1", LoadProducts, LoadExpiry)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(panels) != 1 || panels[0].Target() != view.ExpiryTarget {
		t.Fatalf("expected only the expiry panel, got %+v", panels)
	}
	msg, ok := c.Toast("v1")
	if !ok || msg.Message != "Failed to load products" || msg.Severity != toast.Error {
		t.Errorf("unexpected toast %+v", msg)
	}
}

func TestLoadFailureIgnoresBackendDetail(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{
		"ListProducts": &apiclient.StatusError{StatusCode: 500, Detail: "database unavailable"},
		"ListOrders":   &apiclient.StatusError{StatusCode: 400, Detail: "bad request"},
	}}
	c := newConsole(t, b)

	if _, err := c.Load(context.Background(), "v1", LoadProducts); err != nil {
		t.Fatalf("load: %v", err)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Failed to load products" {
		t.Errorf("expected section message, got %q", msg.Message)
	}

	if _, err := c.Load(context.Background(), "v2", LoadOrders); err != nil {
		t.Fatalf("load: %v", err)
	}
	if msg, _ := c.Toast("v2"); msg.Message != "Failed to load orders" {
		t.Errorf("expected section message, got %q", msg.Message)
	}
}

func TestUnauthorizedSignsOutWithoutToast(t *testing.T) {
	sessions := &fakeSessions{}
	b := &fakeBackend{errs: map[string]error{"ListDraftOrders": apiclient.ErrUnauthorized}}
	c := newConsole(t, b, WithAuth(sessions))

	_, err := c.Load(context.Background(), "v1", LoadDrafts, LoadOrders)
	if !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
	if len(sessions.cleared) != 1 || sessions.cleared[0] != "v1" {
		t.Errorf("expected session v1 cleared, got %v", sessions.cleared)
	}
	if _, ok := c.Toast("v1"); ok {
		t.Error("sign-out must not toast")
	}
	if !sameCalls(b.calls, []string{"ListDraftOrders"}) {
		t.Errorf("loading must stop at sign-out, calls %v", b.calls)
	}
}

func TestUnauthorizedWithoutAuthIsPlainError(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{"ListExpiry": apiclient.ErrUnauthorized}}
	c := newConsole(t, b)
	if _, err := c.Load(context.Background(), "v1", LoadExpiry); err != nil {
		t.Fatalf("expected toast only, got %v", err)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Failed to load expiry data" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestDashboardLoader(t *testing.T) {
	b := &fakeBackend{
		products: []domain.Product{{Name: "Rice", Quantity: 3}, {Name: "Oil", Quantity: 40}},
		expiry:   []domain.ExpiryItem{{Status: domain.ExpiryCritical}, {Status: domain.ExpirySafe}},
	}

	plain := newConsole(t, b)
	panels, _ := plain.Load(context.Background(), "v1", LoadDashboard)
	if len(panels) != 0 || len(b.calls) != 0 {
		t.Fatalf("dashboard must be skipped without auth, got %d panels, calls %v", len(panels), b.calls)
	}

	c := newConsole(t, b, WithAuth(&fakeSessions{}))
	panels, err := c.Load(context.Background(), "v1", LoadDashboard)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	d, ok := panels[0].(view.Dashboard)
	if !ok {
		t.Fatalf("expected dashboard, got %T", panels[0])
	}
	if d.Stats.Products != 2 || d.Stats.LowStock != 1 || d.Stats.ExpiryAlerts != 1 {
		t.Errorf("unexpected stats %+v", d.Stats)
	}

	b.errs = map[string]error{"ListExpiry": errBoom}
	panels, _ = c.Load(context.Background(), "v2", LoadDashboard)
	if len(panels) != 0 {
		t.Error("failed dashboard must not paint")
	}
	if msg, _ := c.Toast("v2"); msg.Message != "Failed to load dashboard" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestLoadUnknownLoader(t *testing.T) {
	c := newConsole(t, &fakeBackend{})
	if _, err := c.Load(context.Background(), "v1", "suppliers"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("expected ErrUnknownSection, got %v", err)
	}
}
