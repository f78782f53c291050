package console

import (
	"context"
	"fmt"
	"net/url"

	"stockdesk/m/domain"
	"stockdesk/m/internal/view"
)

// Phase is the state of one modal for one viewer.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpen
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Origin says what closed a modal.
type Origin int

const (
	OriginCancel Origin = iota
	OriginBackdrop
)

type modalState struct {
	phase  Phase
	values url.Values
}

type modalDef struct {
	title    string
	submit   string
	fields   []view.Field
	fallback string
	send     func(ctx context.Context, b Backend, form url.Values) (string, error)
	refresh  func(c *Console) []string
}

var modalDefs = map[string]modalDef{
	view.ModalAddProduct: {
		title:  "ADD PRODUCT",
		submit: "ADD PRODUCT",
		fields: []view.Field{
			{Name: "name", Label: "NAME", Type: "text", Required: true},
			{Name: "price", Label: "PRICE", Type: "number", Step: "0.01", Required: true},
			{Name: "quantity", Label: "QUANTITY", Type: "number", Required: true},
			{Name: "batch", Label: "BATCH", Type: "text", Required: true},
			{Name: "expiry_date", Label: "EXPIRY DATE", Type: "date", Required: true},
		},
		fallback: "Failed to add product",
		send: func(ctx context.Context, b Backend, form url.Values) (string, error) {
			ack, err := b.CreateProduct(ctx, domain.NewProduct{
				Name:       form.Get("name"),
				Price:      domain.ParseAmount(form.Get("price")),
				Quantity:   domain.ParseQuantity(form.Get("quantity")),
				Batch:      form.Get("batch"),
				ExpiryDate: form.Get("expiry_date"),
			})
			if err != nil {
				return "", err
			}
			return orDefault(ack.Message, "Product added successfully"), nil
		},
		refresh: func(c *Console) []string { return c.withDashboard(LoadProducts) },
	},
	view.ModalCreateOrder: {
		title:  "CREATE ORDER",
		submit: "CREATE ORDER",
		fields: []view.Field{
			{Name: "batch", Label: "BATCH", Type: "text", Required: true},
			{Name: "quantity", Label: "QUANTITY", Type: "number", Required: true},
		},
		fallback: "Failed to create order",
		send: func(ctx context.Context, b Backend, form url.Values) (string, error) {
			result, err := b.CreateOrder(ctx, form.Get("batch"), domain.ParseQuantity(form.Get("quantity")))
			if err != nil {
				return "", err
			}
			return orDefault(result.Message, "Order created successfully"), nil
		},
		refresh: func(*Console) []string { return []string{LoadDrafts, LoadOrders} },
	},
	view.ModalEditOrder: {
		title:  "EDIT ORDER",
		submit: "UPDATE",
		fields: []view.Field{
			{Name: "order_id", Type: "hidden", Hidden: true},
			{Name: "product", Label: "PRODUCT", Type: "text", ReadOnly: true},
			{Name: "batch", Label: "BATCH", Type: "text", ReadOnly: true},
			{Name: "quantity", Label: "QUANTITY", Type: "number", Required: true},
		},
		fallback: "Failed to update order",
		send: func(ctx context.Context, b Backend, form url.Values) (string, error) {
			if _, err := b.UpdateOrderQuantity(ctx, form.Get("order_id"), domain.ParseQuantity(form.Get("quantity"))); err != nil {
				return "", err
			}
			return "Order updated successfully", nil
		},
		refresh: func(*Console) []string { return []string{LoadDrafts, LoadOrders} },
	},
	view.ModalReceive: {
		title:  "RECEIVE STOCK",
		submit: "RECEIVE",
		fields: []view.Field{
			{Name: "product_name", Label: "PRODUCT", Type: "text", ReadOnly: true},
			{Name: "batch", Label: "BATCH", Type: "text", ReadOnly: true},
			{Name: "received_quantity", Label: "RECEIVED QUANTITY", Type: "number", Required: true},
		},
		fallback: "Failed to receive stock",
		send: func(ctx context.Context, b Backend, form url.Values) (string, error) {
			receipt, err := b.ReceiveStock(ctx, form.Get("batch"), domain.ParseQuantity(form.Get("received_quantity")))
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Stock updated: %d received, new stock: %d", receipt.Received, receipt.CurrentStock), nil
		},
		// Receiving may create a draft order server-side.
		refresh: func(c *Console) []string { return c.withDashboard(LoadProducts, LoadDrafts) },
	},
}

// ModalID is the id of the modal's backdrop element.
func ModalID(name string) string {
	return name + "-modal"
}

// OpenModal opens the named modal with fields pre-filled from prefill. Keys that
// are not fields of the modal are ignored.
func (c *Console) OpenModal(viewer, name string, prefill url.Values) (view.Modal, error) {
	def, ok := modalDefs[name]
	if !ok {
		return view.Modal{}, fmt.Errorf("%w: %q", ErrUnknownModal, name)
	}
	values := def.keep(prefill)
	c.setModal(viewer, name, PhaseOpen, values)
	return def.render(name, values), nil
}

// CloseModal closes the named modal and resets its fields. A backdrop click only
// counts when target is the backdrop itself; clicks on the content report false.
func (c *Console) CloseModal(viewer, name string, origin Origin, target string) (bool, error) {
	if _, ok := modalDefs[name]; !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownModal, name)
	}
	if origin == OriginBackdrop && target != ModalID(name) {
		return false, nil
	}
	c.setModal(viewer, name, PhaseClosed, nil)
	return true, nil
}

// SubmitModal sends the form to the backend. On success the modal closes and the
// affected sections reload; on failure it stays open with the entered values.
func (c *Console) SubmitModal(ctx context.Context, viewer, name string, form url.Values) (Outcome, error) {
	def, ok := modalDefs[name]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownModal, name)
	}
	values := def.keep(form)
	c.setModal(viewer, name, PhaseSubmitting, values)

	msg, err := def.send(ctx, c.backend, values)
	if err != nil {
		if ferr := c.fail(ctx, viewer, err, def.fallback); ferr != nil {
			return Outcome{}, ferr
		}
		c.setModal(viewer, name, PhaseOpen, values)
		m := def.render(name, values)
		return Outcome{Modal: &m}, nil
	}

	c.succeed(viewer, msg)
	c.setModal(viewer, name, PhaseClosed, nil)
	panels, err := c.Load(ctx, viewer, def.refresh(c)...)
	return Outcome{Panels: panels, Closed: name}, err
}

// ModalState reports the phase and current field values of a viewer's modal.
func (c *Console) ModalState(viewer, name string) (Phase, url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.modals[viewer][name]
	if !ok {
		return PhaseClosed, nil
	}
	return st.phase, st.values
}

func (c *Console) setModal(viewer, name string, phase Phase, values url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch(viewer)
	byName, ok := c.modals[viewer]
	if !ok {
		byName = make(map[string]*modalState)
		c.modals[viewer] = byName
	}
	byName[name] = &modalState{phase: phase, values: values}
}

func (d modalDef) keep(in url.Values) url.Values {
	out := url.Values{}
	for _, f := range d.fields {
		if v := in.Get(f.Name); v != "" {
			out.Set(f.Name, v)
		}
	}
	return out
}

func (d modalDef) render(name string, values url.Values) view.Modal {
	m := view.Modal{
		Name:      name,
		ID:        ModalID(name),
		Title:     d.title,
		Action:    view.ModalPath(name, nil),
		ClosePath: view.ModalClosePath(name),
		Submit:    d.submit,
		Fields:    make([]view.Field, len(d.fields)),
	}
	for i, f := range d.fields {
		f.Value = values.Get(f.Name)
		m.Fields[i] = f
	}
	return m
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
