package view

import "stockdesk/m/domain"

const (
	LowStockThreshold   = 10
	RecentProductsLimit = 5
	RecentDraftsLimit   = 3
)

type Stats struct {
	Products     int
	Orders       int
	ExpiryAlerts int
	LowStock     int
}

type Dashboard struct {
	Stats          Stats
	RecentProducts Fragment
	RecentDrafts   Fragment
}

func (Dashboard) Target() string { return DashboardTarget }

func BuildDashboard(products []domain.Product, orders domain.OrderList, expiry []domain.ExpiryItem, drafts []domain.CurrentOrder) Dashboard {
	stats := Stats{Products: len(products), Orders: len(orders)}
	for _, it := range expiry {
		if it.NeedsAttention() {
			stats.ExpiryAlerts++
		}
	}
	for _, p := range products {
		if p.Quantity < LowStockThreshold {
			stats.LowStock++
		}
	}

	recent := Products(products[:min(len(products), RecentProductsLimit)])
	recent.ID = "dashboard-products"
	recentDrafts := DraftOrders(drafts[:min(len(drafts), RecentDraftsLimit)])
	recentDrafts.ID = "dashboard-drafts"

	return Dashboard{Stats: stats, RecentProducts: recent, RecentDrafts: recentDrafts}
}
