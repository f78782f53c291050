package view

import (
	"fmt"
	"net/http"
	"strings"

	"stockdesk/m/domain"
)

// Container ids.
const (
	ProductsTarget  = "products-list"
	DraftsTarget    = "draft-orders-list"
	OrdersTarget    = "orders-list"
	ExpiryTarget    = "expiry-list"
	DashboardTarget = "dashboard-panel"
)

// Modal names shared by item actions and the form controller.
const (
	ModalAddProduct  = "add-product"
	ModalCreateOrder = "create-order"
	ModalEditOrder   = "edit-order"
	ModalReceive     = "receive"
)

func Products(products []domain.Product) Fragment {
	f := Fragment{ID: ProductsTarget, Placeholder: "NO PRODUCTS FOUND"}
	for _, p := range products {
		f.Items = append(f.Items, Item{
			Kind:  KindCard,
			Title: p.Name,
			Meta: []string{
				"PRICE: ₹" + p.Price.StringFixed(2),
				fmt.Sprintf("QUANTITY: %d", p.Quantity),
				"BATCH: " + p.Batch,
				"EXPIRY: " + p.ExpiryDate,
			},
			Actions: []Action{
				{Label: "RECEIVE", Class: "btn", Method: http.MethodGet, Path: ModalPath(ModalReceive, receivePrefill(p.Batch, p.Name))},
				{Label: "DELETE", Class: "btn danger", Method: http.MethodGet, Path: DeleteProductPath(p.Batch)},
			},
		})
	}
	return f
}

func DraftOrders(drafts []domain.CurrentOrder) Fragment {
	f := Fragment{ID: DraftsTarget, Placeholder: "NO DRAFT ORDERS"}
	for _, o := range drafts {
		f.Items = append(f.Items, Item{
			Kind:    KindListItem,
			Variant: "draft",
			Title:   o.Product,
			Meta:    []string{orderMeta(o)},
			Badge:   &Badge{Class: "badge-draft", Label: "DRAFT"},
			Actions: []Action{
				{Label: "EDIT", Class: "btn info btn-small", Method: http.MethodGet, Path: ModalPath(ModalEditOrder, editOrderPrefill(o.OrderID, o.Product, o.Batch, o.RequestedQty))},
				{Label: "CONFIRM", Class: "btn success btn-small", Method: http.MethodGet, Path: ConfirmOrderPath(o.OrderID)},
			},
		})
	}
	return f
}

func Orders(orders domain.OrderList) Fragment {
	f := Fragment{ID: OrdersTarget, Placeholder: "NO ORDERS FOUND"}
	for _, rec := range orders {
		switch o := rec.(type) {
		case domain.CurrentOrder:
			item := Item{
				Kind:  KindListItem,
				Title: o.Product,
				Meta:  []string{orderMeta(o)},
				Badge: statusBadge(string(o.Status), string(o.Status)),
			}
			if o.IsDraft() {
				item.Variant = "draft"
			}
			f.Items = append(f.Items, item)
		case domain.LegacyOrder:
			qty := "N/A"
			if q, ok := o.Qty(); ok {
				qty = fmt.Sprint(q)
			}
			stock := "N/A"
			if s, ok := o.Stock(); ok {
				stock = fmt.Sprint(s)
			}
			f.Items = append(f.Items, Item{
				Kind:  KindListItem,
				Title: o.Title(),
				Meta:  []string{fmt.Sprintf("BATCH: %s | QTY: %s | STOCK: %s", o.Batch, qty, stock)},
			})
		}
	}
	return f
}

func Expiry(items []domain.ExpiryItem) Fragment {
	f := Fragment{ID: ExpiryTarget, Placeholder: "NO PRODUCTS FOUND"}
	for _, it := range items {
		f.Items = append(f.Items, Item{
			Kind:  KindListItem,
			Title: it.Name,
			Meta:  []string{fmt.Sprintf("BATCH: %s | DAYS LEFT: %d", it.Batch, it.DaysLeft)},
			Badge: statusBadge(string(it.Status), strings.ToUpper(string(it.Status))),
		})
	}
	return f
}

func orderMeta(o domain.CurrentOrder) string {
	return fmt.Sprintf("ORDER ID: %s | BATCH: %s | QTY: %d | CREATED: %s", o.OrderID, o.Batch, o.RequestedQty, o.CreatedAt)
}

// statusBadge keys the badge style off the lower-cased status.
func statusBadge(status, label string) *Badge {
	return &Badge{Class: "badge-" + strings.ToLower(status), Label: label}
}
