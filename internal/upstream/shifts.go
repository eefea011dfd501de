package upstream

import (
	"context"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

func (c *Client) Shifts(ctx context.Context, sess *session.Record) ([]model.Shift, error) {
	var out []model.Shift
	err := c.do(ctx, sess, http.MethodGet, "/shift", nil, &out)
	return out, err
}

func (c *Client) CloseShift(ctx context.Context, sess *session.Record, shiftID int64) ([]model.Shift, error) {
	body := map[string]int64{"shiftId": shiftID}
	var out []model.Shift
	err := c.do(ctx, sess, http.MethodPost, "/shift/admin-close", body, &out)
	return out, err
}
