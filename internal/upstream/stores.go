package upstream

import (
	"context"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

func (c *Client) Stores(ctx context.Context, sess *session.Record) ([]model.Store, error) {
	var out []model.Store
	err := c.do(ctx, sess, http.MethodGet, "/store", nil, &out)
	return out, err
}
