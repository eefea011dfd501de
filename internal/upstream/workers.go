package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

type CreateWorkerRequest struct {
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Phone     string     `json:"phone"`
	Role      model.Role `json:"role"`
}

type MessageAck struct {
	Message string `json:"message"`
}

func (c *Client) Workers(ctx context.Context, sess *session.Record) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, sess, http.MethodGet, "/user/all", nil, &out)
	return out, err
}

func (c *Client) CreateWorker(ctx context.Context, sess *session.Record, req CreateWorkerRequest) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, sess, http.MethodPost, "/user", req, &out)
	return out, err
}

func (c *Client) DeleteWorker(ctx context.Context, sess *session.Record, workerID int64) error {
	return c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/user/%d", workerID), nil, nil)
}

func (c *Client) BlockWorker(ctx context.Context, sess *session.Record, workerID int64) (*MessageAck, error) {
	var out MessageAck
	if err := c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/user/block/%d", workerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UnblockWorker(ctx context.Context, sess *session.Record, workerID int64) (*MessageAck, error) {
	var out MessageAck
	if err := c.do(ctx, sess, http.MethodPost, fmt.Sprintf("/user/unblock/%d", workerID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
