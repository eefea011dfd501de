package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ssshpaklevka/deliv-ad/internal/auth"
	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
	"github.com/ssshpaklevka/deliv-ad/internal/upstream"
)

func assemblyListKey(storeID int64) string  { return fmt.Sprintf("orders/assembly/%d", storeID) }
func assemblyOrderKey(orderID int64) string { return fmt.Sprintf("order/assembly/%d", orderID) }
func deliveryListKey(storeID int64) string  { return fmt.Sprintf("orders/delivery/%d", storeID) }
func deliveryOrderKey(orderID int64) string { return fmt.Sprintf("order/delivery/%d", orderID) }

func (s *Server) loadAssemblyOrders(ctx context.Context, sess *session.Record, storeID int64) ([]model.AssemblyListItem, error) {
	key := assemblyListKey(storeID)
	if v, ok := s.cache.Get(sess.ID, key); ok {
		if items, ok := v.([]model.AssemblyListItem); ok {
			return items, nil
		}
	}
	items, err := s.upstream.AssemblyOrders(ctx, sess, storeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, key, items)
	return items, nil
}

func (s *Server) loadAssemblyOrder(ctx context.Context, sess *session.Record, orderID int64) ([]model.AssemblyOrder, error) {
	key := assemblyOrderKey(orderID)
	if v, ok := s.cache.Get(sess.ID, key); ok {
		if items, ok := v.([]model.AssemblyOrder); ok {
			return items, nil
		}
	}
	items, err := s.upstream.AssemblyOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, key, items)
	return items, nil
}

func (s *Server) loadDeliveryOrders(ctx context.Context, sess *session.Record, storeID int64) ([]model.DeliveryListItem, error) {
	key := deliveryListKey(storeID)
	if v, ok := s.cache.Get(sess.ID, key); ok {
		if items, ok := v.([]model.DeliveryListItem); ok {
			return items, nil
		}
	}
	items, err := s.upstream.DeliveryOrders(ctx, sess, storeID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, key, items)
	return items, nil
}

func (s *Server) loadDeliveryOrder(ctx context.Context, sess *session.Record, orderID int64) ([]model.DeliveryOrder, error) {
	key := deliveryOrderKey(orderID)
	if v, ok := s.cache.Get(sess.ID, key); ok {
		if items, ok := v.([]model.DeliveryOrder); ok {
			return items, nil
		}
	}
	items, err := s.upstream.DeliveryOrder(ctx, sess, orderID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, key, items)
	return items, nil
}

func (s *Server) handleAssemblyOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	storeID, ok := urlID(r, "storeID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_store_id")
		return
	}
	items, err := s.loadAssemblyOrders(r.Context(), sess, storeID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type assemblySummary struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// countAssembly reduces over the loaded list only; with server-side
// pagination these totals would cover one page, not the world.
func countAssembly(items []model.AssemblyListItem) assemblySummary {
	var sum assemblySummary
	for _, item := range items {
		sum.Total++
		switch item.AssemblyStatus {
		case model.AssemblyPending:
			sum.Pending++
		case model.AssemblyInProgress:
			sum.InProgress++
		case model.AssemblyCompleted:
			sum.Completed++
		case model.AssemblyCancelled:
			sum.Cancelled++
		}
	}
	return sum
}

func (s *Server) handleAssemblySummary(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	storeID, ok := urlID(r, "storeID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_store_id")
		return
	}
	items, err := s.loadAssemblyOrders(r.Context(), sess, storeID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countAssembly(items))
}

func (s *Server) handleAssemblyOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	items, err := s.loadAssemblyOrder(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type startAssemblyRequest struct {
	OrderID int64 `json:"idOrder"`
	StoreID int64 `json:"storeId"`
}

func (s *Server) handleStartAssembly(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var req startAssemblyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.OrderID <= 0 || req.StoreID <= 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	ack, err := s.upstream.StartAssembly(r.Context(), sess, req.OrderID, req.StoreID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders/assembly", assemblyOrderKey(req.OrderID))
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleStopAssembly(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}

	// An assembly nobody started cannot be finished; reject before the
	// mutation goes anywhere near the upstream.
	orders, err := s.loadAssemblyOrder(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	if len(orders) > 0 && orders[0].AssemblyStatus == model.AssemblyPending {
		writeError(w, http.StatusConflict, "assembly_not_started")
		return
	}

	ack, err := s.upstream.StopAssembly(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders/assembly", assemblyOrderKey(orderID))
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleDeliveryOrders(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	storeID, ok := urlID(r, "storeID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_store_id")
		return
	}
	items, err := s.loadDeliveryOrders(r.Context(), sess, storeID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type deliverySummary struct {
	Pending     int `json:"pending"`
	InProgress  int `json:"inProgress"`
	Expectation int `json:"expectation"`
	Completed   int `json:"completed"`
	Cancelled   int `json:"cancelled"`
	Total       int `json:"total"`
}

func countDelivery(items []model.DeliveryListItem) deliverySummary {
	var sum deliverySummary
	for _, item := range items {
		sum.Total++
		switch item.DeliveryStatus {
		case model.DeliveryPending:
			sum.Pending++
		case model.DeliveryInProgress:
			sum.InProgress++
		case model.DeliveryExpectation:
			sum.Expectation++
		case model.DeliveryCompleted:
			sum.Completed++
		case model.DeliveryCancelled:
			sum.Cancelled++
		}
	}
	return sum
}

func (s *Server) handleDeliverySummary(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	storeID, ok := urlID(r, "storeID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_store_id")
		return
	}
	items, err := s.loadDeliveryOrders(r.Context(), sess, storeID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countDelivery(items))
}

func (s *Server) handleDeliveryOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	items, err := s.loadDeliveryOrder(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type startDeliveryRequest struct {
	OrderIDs []int64 `json:"idOrders"`
	StoreID  int64   `json:"storeId"`
}

func (s *Server) handleStartDelivery(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var req startDeliveryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if len(req.OrderIDs) == 0 || req.StoreID <= 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	ack, err := s.upstream.StartDelivery(r.Context(), sess, req.OrderIDs, req.StoreID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	prefixes := []string{"orders/delivery"}
	for _, orderID := range req.OrderIDs {
		prefixes = append(prefixes, deliveryOrderKey(orderID))
	}
	s.cache.Invalidate(sess.ID, prefixes...)
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleExpectDelivery(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	ack, err := s.upstream.ExpectDelivery(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders/delivery", deliveryOrderKey(orderID))
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleStopDelivery(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	ack, err := s.upstream.StopDelivery(r.Context(), sess, orderID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders/delivery", deliveryOrderKey(orderID))
	writeJSON(w, http.StatusOK, ack)
}

// optionalInt accepts a JSON number or a numeric string, because the order
// form sends address fields either way.
type optionalInt struct {
	Set   bool
	Value int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		o.Set, o.Value = true, n
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	o.Set, o.Value = true, n
	return nil
}

func (o optionalInt) ptr() *int {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

type createOrderRequest struct {
	OrderNumber  string      `json:"orderNumber"`
	DeliveryType string      `json:"delivery_type"`
	Comment      string      `json:"comment"`
	Paid         bool        `json:"paid"`
	ProductIDs   []int64     `json:"productIds"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Apartment    optionalInt `json:"apartment"`
	Entrance     optionalInt `json:"entrance"`
	Floor        optionalInt `json:"floor"`
	Intercom     string      `json:"intercom"`
	StoreID      int64       `json:"storeId"`
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.OrderNumber = strings.TrimSpace(req.OrderNumber)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.OrderNumber == "" || req.FirstName == "" || req.LastName == "" || req.StoreID <= 0 {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	if len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "missing_products")
		return
	}
	deliveryType := model.DeliveryType(strings.TrimSpace(req.DeliveryType))
	if !model.ValidDeliveryType(deliveryType) {
		writeError(w, http.StatusBadRequest, "invalid_delivery_type")
		return
	}
	phone := auth.NormalizePhone(strings.TrimSpace(req.Phone))
	if !auth.ValidPhone(phone) {
		writeError(w, http.StatusBadRequest, "invalid_phone")
		return
	}

	created, err := s.upstream.CreateOrder(r.Context(), sess, upstream.CreateOrderRequest{
		OrderNumber:  req.OrderNumber,
		DeliveryType: deliveryType,
		Comment:      strings.TrimSpace(req.Comment),
		Paid:         req.Paid,
		ProductIDs:   req.ProductIDs,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        phone,
		Address:      strings.TrimSpace(req.Address),
		Apartment:    req.Apartment.ptr(),
		Entrance:     req.Entrance.ptr(),
		Floor:        req.Floor.ptr(),
		Intercom:     strings.TrimSpace(req.Intercom),
		StoreID:      req.StoreID,
	})
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders", "order")
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	var req upstream.UpdateOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Phone != nil {
		phone := auth.NormalizePhone(strings.TrimSpace(*req.Phone))
		if !auth.ValidPhone(phone) {
			writeError(w, http.StatusBadRequest, "invalid_phone")
			return
		}
		req.Phone = &phone
	}
	updated, err := s.upstream.UpdateOrder(r.Context(), sess, orderID, req)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders", "order")
	writeJSON(w, http.StatusOK, updated)
}

type orderProductsRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

func (s *Server) handleAddOrderProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	var req orderProductsRequest
	if err := decodeJSON(r, &req); err != nil || len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "missing_product_ids")
		return
	}
	if err := s.upstream.AddOrderProducts(r.Context(), sess, orderID, req.ProductIDs); err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders", "order")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type reduceProductsRequest struct {
	Products []upstream.ReduceItem `json:"products"`
}

func (s *Server) handleReduceOrderProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	var req reduceProductsRequest
	if err := decodeJSON(r, &req); err != nil || len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "missing_products")
		return
	}
	for _, item := range req.Products {
		if item.ID <= 0 || item.Count <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_products")
			return
		}
	}
	if err := s.upstream.ReduceOrderProducts(r.Context(), sess, orderID, req.Products); err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders", "order")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteOrderProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	orderID, ok := urlID(r, "orderID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_order_id")
		return
	}
	var req orderProductsRequest
	if err := decodeJSON(r, &req); err != nil || len(req.ProductIDs) == 0 {
		writeError(w, http.StatusBadRequest, "missing_product_ids")
		return
	}
	if err := s.upstream.DeleteOrderProducts(r.Context(), sess, orderID, req.ProductIDs); err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "orders", "order")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
