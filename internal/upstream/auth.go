package upstream

import (
	"context"
	"net/http"

	"github.com/ssshpaklevka/deliv-ad/internal/model"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         *model.User `json:"user"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) SendSMS(ctx context.Context, phone string) error {
	return c.do(ctx, nil, http.MethodPost, "/auth/send-sms", map[string]string{"phone": phone}, nil)
}

func (c *Client) Login(ctx context.Context, phone, code, deviceID, deviceName string) (*LoginResponse, error) {
	body := map[string]string{
		"phone":      phone,
		"code":       code,
		"deviceId":   deviceID,
		"deviceName": deviceName,
	}
	var out LoginResponse
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh is issued without a session so a 401 here can never recurse into
// another refresh.
func (c *Client) Refresh(ctx context.Context, refreshToken, deviceID string) (*RefreshResponse, error) {
	body := map[string]string{
		"refreshToken": refreshToken,
		"deviceId":     deviceID,
	}
	var out RefreshResponse
	if err := c.do(ctx, nil, http.MethodPost, "/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context, sess *session.Record) error {
	body := map[string]string{"refreshToken": sess.RefreshToken}
	return c.do(ctx, sess, http.MethodDelete, "/auth/logout", body, nil)
}
