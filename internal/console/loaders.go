package console

import (
	"context"
	"fmt"

	"stockdesk/m/internal/view"
)

// Loader names.
const (
	LoadProducts  = "products"
	LoadDrafts    = "drafts"
	LoadOrders    = "orders"
	LoadExpiry    = "expiry"
	LoadDashboard = "dashboard"
)

type loader struct {
	fallback string
	fetch    func(ctx context.Context, b Backend) (view.Panel, error)
}

var loaders = map[string]loader{
	LoadProducts: {
		fallback: "Failed to load products",
		fetch: func(ctx context.Context, b Backend) (view.Panel, error) {
			products, err := b.ListProducts(ctx)
			if err != nil {
				return nil, err
			}
			return view.Products(products), nil
		},
	},
	LoadDrafts: {
		fallback: "Failed to load draft orders",
		fetch: func(ctx context.Context, b Backend) (view.Panel, error) {
			drafts, err := b.ListDraftOrders(ctx)
			if err != nil {
				return nil, err
			}
			return view.DraftOrders(drafts), nil
		},
	},
	LoadOrders: {
		fallback: "Failed to load orders",
		fetch: func(ctx context.Context, b Backend) (view.Panel, error) {
			orders, err := b.ListOrders(ctx)
			if err != nil {
				return nil, err
			}
			return view.Orders(orders), nil
		},
	},
	LoadExpiry: {
		fallback: "Failed to load expiry data",
		fetch: func(ctx context.Context, b Backend) (view.Panel, error) {
			items, err := b.ListExpiry(ctx)
			if err != nil {
				return nil, err
			}
			return view.Expiry(items), nil
		},
	},
	LoadDashboard: {
		fallback: "Failed to load dashboard",
		fetch:    fetchDashboard,
	},
}

func fetchDashboard(ctx context.Context, b Backend) (view.Panel, error) {
	products, err := b.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := b.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	expiry, err := b.ListExpiry(ctx)
	if err != nil {
		return nil, err
	}
	drafts, err := b.ListDraftOrders(ctx)
	if err != nil {
		return nil, err
	}
	return view.BuildDashboard(products, orders, expiry, drafts), nil
}

// Load runs the named loaders in order. A loader that fails contributes no panel and
// leaves the section's error toast; its container keeps what it showed before. Only a sign-out
// stops the run.
func (c *Console) Load(ctx context.Context, viewer string, names ...string) ([]view.Panel, error) {
	panels := make([]view.Panel, 0, len(names))
	for _, name := range names {
		l, ok := loaders[name]
		if !ok {
			return nil, fmt.Errorf("%w: loader %q", ErrUnknownSection, name)
		}
		if name == LoadDashboard && !c.auth {
			continue
		}
		panel, err := l.fetch(ctx, c.backend)
		if err != nil {
			if ferr := c.failLoad(ctx, viewer, err, l.fallback); ferr != nil {
				return nil, ferr
			}
			continue
		}
		panels = append(panels, panel)
	}
	return panels, nil
}

// withDashboard appends the dashboard loader in the authenticated variant.
func (c *Console) withDashboard(names ...string) []string {
	if c.auth {
		return append(names, LoadDashboard)
	}
	return names
}
