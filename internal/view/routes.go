package view

import (
	"net/url"
	"strconv"
)

// Console routes referenced by actions. They must agree with the router in
// internal/api.

func SectionPath(section string) string {
	return "/sections/" + url.PathEscape(section)
}

func RefreshPath(section string) string {
	return SectionPath(section) + "/refresh"
}

func ModalPath(modal string, prefill url.Values) string {
	p := "/modals/" + url.PathEscape(modal)
	if len(prefill) > 0 {
		p += "?" + prefill.Encode()
	}
	return p
}

func ModalClosePath(modal string) string {
	return "/modals/" + url.PathEscape(modal) + "/close"
}

func DeleteProductPath(batch string) string {
	return "/products/" + url.PathEscape(batch) + "/delete"
}

func ConfirmOrderPath(orderID string) string {
	return "/orders/" + url.PathEscape(orderID) + "/confirm"
}

func receivePrefill(batch, name string) url.Values {
	return url.Values{"batch": {batch}, "product_name": {name}}
}

func editOrderPrefill(orderID, product, batch string, qty int64) url.Values {
	return url.Values{
		"order_id": {orderID},
		"product":  {product},
		"batch":    {batch},
		"quantity": {strconv.FormatInt(qty, 10)},
	}
}
