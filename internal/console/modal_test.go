package console

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"stockdesk/m/domain"
	"stockdesk/m/internal/apiclient"
	"stockdesk/m/internal/toast"
	"stockdesk/m/internal/view"
)

func productForm() url.Values {
	return url.Values{
		"name":        {"Rice"},
		"price":       {"50.5"},
		"quantity":    {"20"},
		"batch":       {"B100"},
		"expiry_date": {"2025-12-01"},
	}
}

func TestSubmitProductClosesAndReloads(t *testing.T) {
	b := &fakeBackend{}
	c := newConsole(t, b)
	ctx := context.Background()

	if _, err := c.OpenModal("v1", view.ModalAddProduct, nil); err != nil {
		t.Fatalf("open: %v", err)
	}
	out, err := c.SubmitModal(ctx, "v1", view.ModalAddProduct, productForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := domain.NewProduct{
		Name:       "Rice",
		Price:      domain.AmountOf(50.5),
		Quantity:   domain.QuantityOf(20),
		Batch:      "B100",
		ExpiryDate: "2025-12-01",
	}
	if b.gotProduct != want {
		t.Errorf("sent %+v, want %+v", b.gotProduct, want)
	}
	if !sameCalls(b.calls, []string{"CreateProduct", "ListProducts"}) {
		t.Errorf("unexpected calls %v", b.calls)
	}
	if out.Closed != view.ModalAddProduct || out.Modal != nil {
		t.Errorf("modal should close, got %+v", out)
	}
	if len(out.Panels) != 1 || out.Panels[0].Target() != view.ProductsTarget {
		t.Errorf("expected product list reload, got %+v", out.Panels)
	}
	if phase, values := c.ModalState("v1", view.ModalAddProduct); phase != PhaseClosed || len(values) != 0 {
		t.Errorf("expected closed and reset, got %s %v", phase, values)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Product added successfully" || msg.Severity != toast.Success {
		t.Errorf("unexpected toast %+v", msg)
	}
}

func TestSubmitProductRefreshesDashboardWithAuth(t *testing.T) {
	b := &fakeBackend{ack: domain.Ack{Message: "Product Rice created"}}
	c := newConsole(t, b, WithAuth(&fakeSessions{}))

	out, err := c.SubmitModal(context.Background(), "v1", view.ModalAddProduct, productForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(out.Panels) != 2 || out.Panels[1].Target() != view.DashboardTarget {
		t.Errorf("expected products and dashboard, got %+v", out.Panels)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Product Rice created" {
		t.Errorf("server message should win, got %q", msg.Message)
	}
}

func TestSubmitFailureKeepsModalOpen(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{
		"CreateProduct": &apiclient.StatusError{StatusCode: 400, Detail: "Batch already exists"},
	}}
	c := newConsole(t, b)
	c.OpenModal("v1", view.ModalAddProduct, nil)

	out, err := c.SubmitModal(context.Background(), "v1", view.ModalAddProduct, productForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.Modal == nil || out.Closed != "" {
		t.Fatalf("modal should stay open, got %+v", out)
	}
	if out.Modal.Fields[0].Value != "Rice" || out.Modal.Fields[3].Value != "B100" {
		t.Errorf("entered values lost: %+v", out.Modal.Fields)
	}
	if phase, values := c.ModalState("v1", view.ModalAddProduct); phase != PhaseOpen || values.Get("price") != "50.5" {
		t.Errorf("expected open with values, got %s %v", phase, values)
	}
	if !sameCalls(b.calls, []string{"CreateProduct"}) {
		t.Errorf("failed submit must not reload, calls %v", b.calls)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Batch already exists" || msg.Severity != toast.Error {
		t.Errorf("unexpected toast %+v", msg)
	}
}

func TestSubmitTransportFailureUsesFallback(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{"CreateOrder": errBoom}}
	c := newConsole(t, b)
	c.SubmitModal(context.Background(), "v1", view.ModalCreateOrder, url.Values{"batch": {"B1"}, "quantity": {"2"}})
	if msg, _ := c.Toast("v1"); msg.Message != "Failed to create order" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestCreateOrderReloadsDraftsAndOrders(t *testing.T) {
	b := &fakeBackend{}
	c := newConsole(t, b)
	form := url.Values{"batch": {"B1"}, "quantity": {"2"}}

	c.OpenModal("v1", view.ModalCreateOrder, nil)
	out, err := c.SubmitModal(context.Background(), "v1", view.ModalCreateOrder, form)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.gotBatch != "B1" || b.gotQty != domain.QuantityOf(2) {
		t.Errorf("sent batch %q qty %+v", b.gotBatch, b.gotQty)
	}
	if !sameCalls(b.calls, []string{"CreateOrder", "ListDraftOrders", "ListOrders"}) {
		t.Errorf("unexpected calls %v", b.calls)
	}
	if out.Closed != view.ModalCreateOrder || out.Modal != nil {
		t.Errorf("modal should close, got %+v", out)
	}
	if len(out.Panels) != 2 || out.Panels[0].Target() != view.DraftsTarget || out.Panels[1].Target() != view.OrdersTarget {
		t.Errorf("expected drafts then orders, got %+v", out.Panels)
	}
	if phase, values := c.ModalState("v1", view.ModalCreateOrder); phase != PhaseClosed || len(values) != 0 {
		t.Errorf("expected closed and reset, got %s %v", phase, values)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Order created successfully" || msg.Severity != toast.Success {
		t.Errorf("unexpected toast %+v", msg)
	}

	b.orderAck = domain.Ack{Message: "Draft order ORD-9 created"}
	if _, err := c.SubmitModal(context.Background(), "v1", view.ModalCreateOrder, form); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Draft order ORD-9 created" {
		t.Errorf("server message should win, got %q", msg.Message)
	}
}

func TestReceiveStockReloadsProductsAndDrafts(t *testing.T) {
	b := &fakeBackend{receipt: domain.StockReceipt{Received: 5, CurrentStock: 25}}
	c := newConsole(t, b)

	modal, err := c.OpenModal("v1", view.ModalReceive, url.Values{"batch": {"B100"}, "product_name": {"Rice"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if modal.Fields[2].Name != "received_quantity" || modal.Fields[2].Value != "" {
		t.Errorf("quantity must start empty, got %+v", modal.Fields[2])
	}

	out, err := c.SubmitModal(context.Background(), "v1", view.ModalReceive,
		url.Values{"batch": {"B100"}, "product_name": {"Rice"}, "received_quantity": {"5"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if b.gotBatch != "B100" || b.gotQty != domain.QuantityOf(5) {
		t.Errorf("sent batch %q qty %v", b.gotBatch, b.gotQty)
	}
	if !sameCalls(b.calls, []string{"ReceiveStock", "ListProducts", "ListDraftOrders"}) {
		t.Errorf("unexpected calls %v", b.calls)
	}
	if len(out.Panels) != 2 {
		t.Errorf("expected 2 panels, got %d", len(out.Panels))
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Stock updated: 5 received, new stock: 25" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestEditOrderPassesMalformedQuantityThrough(t *testing.T) {
	b := &fakeBackend{errs: map[string]error{
		"UpdateOrderQuantity": &apiclient.StatusError{StatusCode: 422, Detail: "Input should be a valid integer"},
	}}
	c := newConsole(t, b)

	c.SubmitModal(context.Background(), "v1", view.ModalEditOrder, url.Values{"order_id": {"ORD-7"}, "quantity": {"abc"}})
	if b.gotOrderID != "ORD-7" || b.gotQty.Valid {
		t.Errorf("expected invalid quantity for ORD-7, got %q %+v", b.gotOrderID, b.gotQty)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Input should be a valid integer" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestEditOrderReloadsDraftsAndOrders(t *testing.T) {
	b := &fakeBackend{}
	c := newConsole(t, b)
	modal, _ := c.OpenModal("v1", view.ModalEditOrder, url.Values{"order_id": {"ORD-7"}, "product": {"Rice"}, "batch": {"B100"}, "quantity": {"6"}})
	if modal.Fields[0].Value != "ORD-7" || !modal.Fields[0].Hidden || modal.Fields[3].Value != "6" {
		t.Errorf("unexpected prefill %+v", modal.Fields)
	}

	if _, err := c.SubmitModal(context.Background(), "v1", view.ModalEditOrder, url.Values{"order_id": {"ORD-7"}, "quantity": {"8"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sameCalls(b.calls, []string{"UpdateOrderQuantity", "ListDraftOrders", "ListOrders"}) {
		t.Errorf("unexpected calls %v", b.calls)
	}
	if msg, _ := c.Toast("v1"); msg.Message != "Order updated successfully" {
		t.Errorf("unexpected toast %q", msg.Message)
	}
}

func TestSubmitUnauthorizedSignsOut(t *testing.T) {
	sessions := &fakeSessions{}
	b := &fakeBackend{errs: map[string]error{"ReceiveStock": apiclient.ErrUnauthorized}}
	c := newConsole(t, b, WithAuth(sessions))
	c.OpenModal("v1", view.ModalReceive, nil)

	_, err := c.SubmitModal(context.Background(), "v1", view.ModalReceive, url.Values{"batch": {"B1"}, "received_quantity": {"1"}})
	if !errors.Is(err, ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
	if len(sessions.cleared) != 1 {
		t.Error("session must be cleared")
	}
	if _, ok := c.Toast("v1"); ok {
		t.Error("sign-out must not toast")
	}
	if phase, _ := c.ModalState("v1", view.ModalReceive); phase != PhaseClosed {
		t.Errorf("viewer state should be dropped, got %s", phase)
	}
}

func TestBackdropAndCancelCloseIdentically(t *testing.T) {
	c := newConsole(t, &fakeBackend{})
	prefill := url.Values{"order_id": {"ORD-1"}, "product": {"Rice"}, "batch": {"B1"}, "quantity": {"3"}}

	c.OpenModal("v1", view.ModalEditOrder, prefill)
	closed, err := c.CloseModal("v1", view.ModalEditOrder, OriginCancel, "")
	if err != nil || !closed {
		t.Fatalf("cancel should close, got %v %v", closed, err)
	}
	cancelPhase, cancelValues := c.ModalState("v1", view.ModalEditOrder)

	c.OpenModal("v1", view.ModalEditOrder, prefill)
	closed, _ = c.CloseModal("v1", view.ModalEditOrder, OriginBackdrop, "edit-order-form")
	if closed {
		t.Fatal("a click on the content must not close")
	}
	if phase, _ := c.ModalState("v1", view.ModalEditOrder); phase != PhaseOpen {
		t.Fatalf("expected still open, got %s", phase)
	}

	closed, _ = c.CloseModal("v1", view.ModalEditOrder, OriginBackdrop, ModalID(view.ModalEditOrder))
	if !closed {
		t.Fatal("a click on the backdrop should close")
	}
	backdropPhase, backdropValues := c.ModalState("v1", view.ModalEditOrder)
	if cancelPhase != backdropPhase || len(cancelValues) != 0 || len(backdropValues) != 0 {
		t.Errorf("cancel (%s %v) and backdrop (%s %v) differ", cancelPhase, cancelValues, backdropPhase, backdropValues)
	}

	reopened, _ := c.OpenModal("v1", view.ModalEditOrder, nil)
	for _, f := range reopened.Fields {
		if f.Value != "" {
			t.Errorf("field %s not reset: %q", f.Name, f.Value)
		}
	}
}

func TestModalsArePerViewer(t *testing.T) {
	c := newConsole(t, &fakeBackend{})
	c.OpenModal("v1", view.ModalCreateOrder, nil)
	if phase, _ := c.ModalState("v2", view.ModalCreateOrder); phase != PhaseClosed {
		t.Errorf("v2 should be unaffected, got %s", phase)
	}
}

func TestUnknownModal(t *testing.T) {
	c := newConsole(t, &fakeBackend{})
	if _, err := c.OpenModal("v1", "suppliers", nil); !errors.Is(err, ErrUnknownModal) {
		t.Errorf("open: expected ErrUnknownModal, got %v", err)
	}
	if _, err := c.CloseModal("v1", "suppliers", OriginCancel, ""); !errors.Is(err, ErrUnknownModal) {
		t.Errorf("close: expected ErrUnknownModal, got %v", err)
	}
	if _, err := c.SubmitModal(context.Background(), "v1", "suppliers", nil); !errors.Is(err, ErrUnknownModal) {
		t.Errorf("submit: expected ErrUnknownModal, got %v", err)
	}
}
