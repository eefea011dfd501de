package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/ssshpaklevka/deliv-ad/internal/auth"
	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
	"github.com/ssshpaklevka/deliv-ad/internal/upstream"
)

func (s *Server) loadWorkers(ctx context.Context, sess *session.Record) ([]model.User, error) {
	if v, ok := s.cache.Get(sess.ID, "workers"); ok {
		if users, ok := v.([]model.User); ok {
			return users, nil
		}
	}
	users, err := s.upstream.Workers(ctx, sess)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, "workers", users)
	return users, nil
}

func (s *Server) loadShifts(ctx context.Context, sess *session.Record) ([]model.Shift, error) {
	if v, ok := s.cache.Get(sess.ID, "shifts"); ok {
		if shifts, ok := v.([]model.Shift); ok {
			return shifts, nil
		}
	}
	shifts, err := s.upstream.Shifts(ctx, sess)
	if err != nil {
		return nil, err
	}
	s.cache.Set(sess.ID, "shifts", shifts)
	return shifts, nil
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	users, err := s.loadWorkers(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type workerSummary struct {
	Superadmin int `json:"superadmin"`
	Admin      int `json:"admin"`
	Worker     int `json:"worker"`
	Courier    int `json:"courier"`
	Total      int `json:"total"`
}

func countWorkers(users []model.User) workerSummary {
	var sum workerSummary
	for _, u := range users {
		if u.IsDeleted {
			continue
		}
		sum.Total++
		switch u.Role {
		case model.RoleSuperadmin:
			sum.Superadmin++
		case model.RoleAdmin:
			sum.Admin++
		case model.RoleWorker:
			sum.Worker++
		case model.RoleCourier:
			sum.Courier++
		}
	}
	return sum
}

func (s *Server) handleWorkersSummary(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	users, err := s.loadWorkers(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, countWorkers(users))
}

type createWorkerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	var req createWorkerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	role := model.Role(strings.TrimSpace(req.Role))
	if !model.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "invalid_role")
		return
	}
	phone := auth.NormalizePhone(strings.TrimSpace(req.Phone))
	if !auth.ValidPhone(phone) {
		writeError(w, http.StatusBadRequest, "invalid_phone")
		return
	}

	users, err := s.upstream.CreateWorker(r.Context(), sess, upstream.CreateWorkerRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     phone,
		Role:      role,
	})
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "workers")
	writeJSON(w, http.StatusCreated, users)
}

func (s *Server) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	workerID, ok := urlID(r, "workerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_worker_id")
		return
	}
	if err := s.upstream.DeleteWorker(r.Context(), sess, workerID); err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "workers")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBlockWorker(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	workerID, ok := urlID(r, "workerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_worker_id")
		return
	}
	ack, err := s.upstream.BlockWorker(r.Context(), sess, workerID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "workers")
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleUnblockWorker(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	workerID, ok := urlID(r, "workerID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_worker_id")
		return
	}
	ack, err := s.upstream.UnblockWorker(r.Context(), sess, workerID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "workers")
	writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleShifts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	shifts, err := s.loadShifts(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

func (s *Server) handleCloseShift(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	shiftID, ok := urlID(r, "shiftID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_shift_id")
		return
	}

	// Closing twice is a no-op upstream but confusing in the UI, so an
	// already closed shift gets a conflict instead.
	shifts, err := s.loadShifts(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	for _, shift := range shifts {
		if shift.ID == shiftID && !shift.Status {
			writeError(w, http.StatusConflict, "shift_already_closed")
			return
		}
	}

	updated, err := s.upstream.CloseShift(r.Context(), sess, shiftID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "shifts")
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if v, ok := s.cache.Get(sess.ID, "products"); ok {
		if products, ok := v.([]model.Product); ok {
			writeJSON(w, http.StatusOK, products)
			return
		}
	}
	products, err := s.upstream.Products(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Set(sess.ID, "products", products)
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	productID, ok := urlID(r, "productID")
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_product_id")
		return
	}
	remaining, err := s.upstream.DeleteProduct(r.Context(), sess, productID)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Invalidate(sess.ID, "products")
	writeJSON(w, http.StatusOK, remaining)
}

func (s *Server) handleStores(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if v, ok := s.cache.Get(sess.ID, "stores"); ok {
		if stores, ok := v.([]model.Store); ok {
			writeJSON(w, http.StatusOK, stores)
			return
		}
	}
	stores, err := s.upstream.Stores(r.Context(), sess)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	s.cache.Set(sess.ID, "stores", stores)
	writeJSON(w, http.StatusOK, stores)
}
