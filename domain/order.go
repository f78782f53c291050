package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderDraft     OrderStatus = "DRAFT"
	OrderConfirmed OrderStatus = "CONFIRMED"
)

// OrderRecord is one entry of GET /orders. The backend has served two shapes over
// time; CurrentOrder and LegacyOrder are the only implementations.
type OrderRecord interface {
	orderRecord()
}

type CurrentOrder struct {
	OrderID      string      `json:"order_id"`
	Product      string      `json:"product"`
	Batch        string      `json:"batch"`
	RequestedQty int64       `json:"requested_qty"`
	Status       OrderStatus `json:"status"`
	CreatedAt    string      `json:"created_at"`
}

func (CurrentOrder) orderRecord() {}

// IsDraft matches the status case-insensitively, like the status badges.
func (o CurrentOrder) IsDraft() bool {
	return strings.EqualFold(string(o.Status), string(OrderDraft))
}

type LegacyOrder struct {
	Name         string `json:"name"`
	Product      string `json:"product"`
	Batch        string `json:"batch"`
	Quantity     *int64 `json:"quantity"`
	RequestedQty *int64 `json:"requested_qty"`
	CurrentStock *int64 `json:"current_stock"`
}

func (LegacyOrder) orderRecord() {}

// Title prefers name and falls back to product.
func (o LegacyOrder) Title() string {
	if o.Name != "" {
		return o.Name
	}
	return o.Product
}

// Qty prefers a non-zero quantity and falls back to requested_qty.
func (o LegacyOrder) Qty() (int64, bool) {
	switch {
	case o.Quantity != nil && *o.Quantity != 0:
		return *o.Quantity, true
	case o.RequestedQty != nil:
		return *o.RequestedQty, true
	case o.Quantity != nil:
		return *o.Quantity, true
	}
	return 0, false
}

// Stock reports current_stock; zero and missing values are both unknown.
func (o LegacyOrder) Stock() (int64, bool) {
	if o.CurrentStock == nil || *o.CurrentStock == 0 {
		return 0, false
	}
	return *o.CurrentStock, true
}

// DecodeOrder picks the record shape from the presence of a non-empty order_id.
func DecodeOrder(raw []byte) (OrderRecord, error) {
	var probe struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if probe.OrderID != "" {
		var o CurrentOrder
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", probe.OrderID, err)
		}
		return o, nil
	}
	var o LegacyOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("decode legacy order: %w", err)
	}
	return o, nil
}

type OrderList []OrderRecord

func (l *OrderList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode orders: %w", err)
	}
	out := make(OrderList, 0, len(raws))
	for _, raw := range raws {
		rec, err := DecodeOrder(raw)
		if err != nil {
			return err
		}
		out = append(out, rec)
	}
	*l = out
	return nil
}
