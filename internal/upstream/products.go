package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

func (c *Client) Products(ctx context.Context, sess *session.Record) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, sess, http.MethodGet, "/product", nil, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, sess *session.Record, productID int64) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, sess, http.MethodDelete, fmt.Sprintf("/product/%d", productID), nil, &out)
	return out, err
}
