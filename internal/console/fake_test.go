package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"stockdesk/m/domain"
	"stockdesk/m/internal/toast"
)

var errBoom = errors.New("connection refused")

type fakeBackend struct {
	calls []string
	errs  map[string]error

	products []domain.Product
	drafts   []domain.CurrentOrder
	orders   domain.OrderList
	expiry   []domain.ExpiryItem
	ack      domain.Ack
	orderAck domain.Ack
	receipt  domain.StockReceipt

	gotProduct domain.NewProduct
	gotBatch   string
	gotQty     domain.Quantity
	gotOrderID string
}

func (f *fakeBackend) record(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeBackend) ListProducts(context.Context) ([]domain.Product, error) {
	return f.products, f.record("ListProducts")
}

func (f *fakeBackend) CreateProduct(_ context.Context, p domain.NewProduct) (domain.Ack, error) {
	f.gotProduct = p
	return f.ack, f.record("CreateProduct")
}

func (f *fakeBackend) DeleteProduct(_ context.Context, batch string) error {
	f.gotBatch = batch
	return f.record("DeleteProduct")
}

func (f *fakeBackend) ListExpiry(context.Context) ([]domain.ExpiryItem, error) {
	return f.expiry, f.record("ListExpiry")
}

func (f *fakeBackend) ReceiveStock(_ context.Context, batch string, qty domain.Quantity) (domain.StockReceipt, error) {
	f.gotBatch, f.gotQty = batch, qty
	return f.receipt, f.record("ReceiveStock")
}

func (f *fakeBackend) ListDraftOrders(context.Context) ([]domain.CurrentOrder, error) {
	return f.drafts, f.record("ListDraftOrders")
}

func (f *fakeBackend) ListOrders(context.Context) (domain.OrderList, error) {
	return f.orders, f.record("ListOrders")
}

func (f *fakeBackend) CreateOrder(_ context.Context, batch string, qty domain.Quantity) (domain.Ack, error) {
	f.gotBatch, f.gotQty = batch, qty
	return f.orderAck, f.record("CreateOrder")
}

func (f *fakeBackend) ConfirmOrder(_ context.Context, orderID string) (domain.CurrentOrder, error) {
	f.gotOrderID = orderID
	return domain.CurrentOrder{OrderID: orderID, Status: domain.OrderConfirmed}, f.record("ConfirmOrder")
}

func (f *fakeBackend) UpdateOrderQuantity(_ context.Context, orderID string, qty domain.Quantity) (domain.CurrentOrder, error) {
	f.gotOrderID, f.gotQty = orderID, qty
	return domain.CurrentOrder{OrderID: orderID}, f.record("UpdateOrderQuantity")
}

type fakeSessions struct {
	cleared []string
}

func (f *fakeSessions) Clear(_ context.Context, sid string) error {
	f.cleared = append(f.cleared, sid)
	return nil
}

func newConsole(t *testing.T, b *fakeBackend, opts ...Option) *Console {
	t.Helper()
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return New(b, toast.NewNotifier(), opts...)
}

func sameCalls(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
