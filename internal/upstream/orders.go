package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

// ActionAck is the response to assembly/delivery state transitions.
type ActionAck struct {
	Message  string `json:"message"`
	OrderID  int64  `json:"orderId"`
	WorkerID int64  `json:"workerId"`
}

type CreateOrderRequest struct {
	OrderNumber  string             `json:"orderNumber"`
	DeliveryType model.DeliveryType `json:"delivery_type"`
	Comment      string             `json:"comment,omitempty"`
	Paid         bool               `json:"paid"`
	ProductIDs   []int64            `json:"productIds"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	Phone        string             `json:"phone"`
	Address      string             `json:"address,omitempty"`
	Apartment    *int               `json:"apartment,omitempty"`
	Entrance     *int               `json:"entrance,omitempty"`
	Floor        *int               `json:"floor,omitempty"`
	Intercom     string             `json:"intercom,omitempty"`
	StoreID      int64              `json:"storeId"`
}

type UpdateOrderRequest struct {
	OrderNumber      *string              `json:"order_number,omitempty"`
	StoreID          *int64               `json:"store_id,omitempty"`
	DeliveryType     *model.DeliveryType  `json:"delivery_type,omitempty"`
	AssemblyDeadline *string              `json:"assembly_deadline,omitempty"`
	AssemblyStatus   *model.AssemblyStatus `json:"assembly_status,omitempty"`
	AssemblyWorkerID *int64               `json:"assembly_worker_id,omitempty"`
	DeliveryDeadline *string              `json:"delivery_deadline,omitempty"`
	DeliveryStatus   *model.DeliveryStatus `json:"delivery_status,omitempty"`
	DeliveryWorkerID *int64               `json:"delivery_worker_id,omitempty"`
	Comment          *string              `json:"comment,omitempty"`
	Paid             *bool                `json:"paid,omitempty"`
	ProductIDs       []int64              `json:"product_ids,omitempty"`
	FirstName        *string              `json:"first_name,omitempty"`
	LastName         *string              `json:"last_name,omitempty"`
	Phone            *string              `json:"phone,omitempty"`
	Address          *string              `json:"address,omitempty"`
	Apartment        *int                 `json:"apartment,omitempty"`
	Entrance         *int                 `json:"entrance,omitempty"`
	Floor            *int                 `json:"floor,omitempty"`
	Intercom         *string              `json:"intercom,omitempty"`
}

type ReduceItem struct {
	ID    int64 `json:"id"`
	Count int   `json:"count"`
}

func (c *Client) AssemblyOrders(ctx context.Context, sess *session.Record, storeID int64) ([]model.AssemblyListItem, error) {
	var out []model.AssemblyListItem
	err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/orders/assembly/%d", storeID), nil, &out)
	return out, err
}

func (c *Client) AssemblyOrder(ctx context.Context, sess *session.Record, orderID int64) ([]model.AssemblyOrder, error) {
	var out []model.AssemblyOrder
	err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/orders/assembly/order/%d", orderID), nil, &out)
	return out, err
}

func (c *Client) StartAssembly(ctx context.Context, sess *session.Record, orderID, storeID int64) (*ActionAck, error) {
	body := map[string]int64{"idOrder": orderID, "storeId": storeID}
	var out ActionAck
	if err := c.do(ctx, sess, http.MethodPost, "/orders/assembly", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopAssembly(ctx context.Context, sess *session.Record, orderID int64) (*ActionAck, error) {
	var out ActionAck
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/orders/stop-assembly/%d", orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeliveryOrders(ctx context.Context, sess *session.Record, storeID int64) ([]model.DeliveryListItem, error) {
	var out []model.DeliveryListItem
	err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/orders/delivery/%d", storeID), nil, &out)
	return out, err
}

func (c *Client) DeliveryOrder(ctx context.Context, sess *session.Record, orderID int64) ([]model.DeliveryOrder, error) {
	var out []model.DeliveryOrder
	err := c.do(ctx, sess, http.MethodGet, fmt.Sprintf("/orders/delivery/order/%d", orderID), nil, &out)
	return out, err
}

func (c *Client) StartDelivery(ctx context.Context, sess *session.Record, orderIDs []int64, storeID int64) (*ActionAck, error) {
	body := map[string]any{"idOrders": orderIDs, "storeId": storeID}
	var out ActionAck
	if err := c.do(ctx, sess, http.MethodPost, "/orders/delivery", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ExpectDelivery(ctx context.Context, sess *session.Record, orderID int64) (*ActionAck, error) {
	var out ActionAck
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/orders/expect-delivery/%d", orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StopDelivery(ctx context.Context, sess *session.Record, orderID int64) (*ActionAck, error) {
	var out ActionAck
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/orders/stop-delivery/%d", orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateOrder(ctx context.Context, sess *session.Record, req CreateOrderRequest) ([]model.CreatedOrder, error) {
	var out []model.CreatedOrder
	err := c.do(ctx, sess, http.MethodPost, "/orders/create", req, &out)
	return out, err
}

func (c *Client) UpdateOrder(ctx context.Context, sess *session.Record, orderID int64, req UpdateOrderRequest) ([]model.CreatedOrder, error) {
	var out []model.CreatedOrder
	err := c.do(ctx, sess, http.MethodPatch, fmt.Sprintf("/orders/%d", orderID), req, &out)
	return out, err
}

func (c *Client) AddOrderProducts(ctx context.Context, sess *session.Record, orderID int64, productIDs []int64) error {
	body := map[string][]int64{"product_ids": productIDs}
	return c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/orders/products/%d", orderID), body, nil)
}

func (c *Client) ReduceOrderProducts(ctx context.Context, sess *session.Record, orderID int64, items []ReduceItem) error {
	body := map[string][]ReduceItem{"products": items}
	return c.do(ctx, sess, http.MethodPatch, fmt.Sprintf("/orders/products/%d/reduce", orderID), body, nil)
}

func (c *Client) DeleteOrderProducts(ctx context.Context, sess *session.Record, orderID int64, productIDs []int64) error {
	body := map[string][]int64{"product_ids": productIDs}
	return c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/orders/products/%d/delete", orderID), body, nil)
}
