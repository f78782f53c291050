package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"stockdesk/m/domain"
)

// Products

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.Do(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p domain.NewProduct) (domain.Ack, error) {
	var ack domain.Ack
	err := c.Do(ctx, http.MethodPost, "/products", nil, p, &ack)
	return ack, err
}

// DeleteProduct removes the product lot identified by batch. The backend answers
// with a bare JSON string which is discarded.
func (c *Client) DeleteProduct(ctx context.Context, batch string) error {
	return c.Do(ctx, http.MethodDelete, "/products/"+url.PathEscape(batch), nil, nil, nil)
}

func (c *Client) ListExpiry(ctx context.Context) ([]domain.ExpiryItem, error) {
	var items []domain.ExpiryItem
	if err := c.Do(ctx, http.MethodGet, "/products/expiry", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ReceiveStock books a supplier delivery. The path spelling is the backend's.
func (c *Client) ReceiveStock(ctx context.Context, batch string, qty domain.Quantity) (domain.StockReceipt, error) {
	q := url.Values{}
	q.Set("batch", batch)
	q.Set("received_quantity", qty.String())

	var receipt domain.StockReceipt
	err := c.Do(ctx, http.MethodPost, "/supplier/recieve", q, nil, &receipt)
	return receipt, err
}

// Orders

func (c *Client) ListDraftOrders(ctx context.Context) ([]domain.CurrentOrder, error) {
	var drafts []domain.CurrentOrder
	if err := c.Do(ctx, http.MethodGet, "/orders/drafts", nil, nil, &drafts); err != nil {
		return nil, err
	}
	return drafts, nil
}

func (c *Client) ListOrders(ctx context.Context) (domain.OrderList, error) {
	var orders domain.OrderList
	if err := c.Do(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) CreateOrder(ctx context.Context, batch string, qty domain.Quantity) (domain.Ack, error) {
	q := url.Values{}
	q.Set("batch", batch)
	q.Set("quantity", qty.String())

	var result domain.Ack
	err := c.Do(ctx, http.MethodPost, "/orders", q, nil, &result)
	return result, err
}

func (c *Client) ConfirmOrder(ctx context.Context, orderID string) (domain.CurrentOrder, error) {
	var order domain.CurrentOrder
	err := c.Do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/confirm", nil, nil, &order)
	return order, err
}

func (c *Client) UpdateOrderQuantity(ctx context.Context, orderID string, qty domain.Quantity) (domain.CurrentOrder, error) {
	q := url.Values{}
	q.Set("quantity", qty.String())

	var order domain.CurrentOrder
	err := c.Do(ctx, http.MethodPut, "/orders/"+url.PathEscape(orderID), q, nil, &order)
	return order, err
}

// Auth and health

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges credentials for a session through the backend's auth proxy.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := c.Do(ctx, http.MethodPost, "/auth/signin", nil, credentials{Email: email, Password: password}, &resp); err != nil {
		return domain.Session{}, err
	}
	if resp.AccessToken == "" {
		return domain.Session{}, &StatusError{StatusCode: http.StatusBadRequest, Detail: "Invalid email or password"}
	}
	sess := domain.Session{Token: resp.AccessToken, Email: resp.User.Email}
	if sess.Email == "" {
		sess.Email = email
	}
	return sess, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
