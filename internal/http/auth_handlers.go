package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ssshpaklevka/deliv-ad/internal/auth"
	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

type sendCodeRequest struct {
	Phone string `json:"phone"`
}

func (s *Server) handleSendCode(w http.ResponseWriter, r *http.Request) {
	var req sendCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	phone := auth.NormalizePhone(strings.TrimSpace(req.Phone))
	if !auth.ValidPhone(phone) {
		writeError(w, http.StatusBadRequest, "invalid_phone")
		return
	}
	if err := s.upstream.SendSMS(r.Context(), phone); err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	phone := auth.NormalizePhone(strings.TrimSpace(req.Phone))
	if !auth.ValidPhone(phone) {
		writeError(w, http.StatusBadRequest, "invalid_phone")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_code")
		return
	}

	deviceID := deviceIDFromRequest(r)
	deviceName := deviceNameFromUserAgent(r.UserAgent())

	resp, err := s.upstream.Login(r.Context(), phone, req.Code, deviceID, deviceName)
	if err != nil {
		s.writeUpstreamError(w, err)
		return
	}
	// Structural check before any state is written.
	if resp.AccessToken == "" || resp.RefreshToken == "" || resp.User == nil {
		writeError(w, http.StatusBadGateway, "bad_upstream_response")
		return
	}

	rec := &session.Record{
		ID:           uuid.NewString(),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		DeviceID:     deviceID,
		DeviceName:   deviceName,
		User:         resp.User,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.sessions.Save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	token, err := auth.NewSessionToken(s.cfg.SessionSecret, s.cfg.SessionIssuer, s.cfg.SessionTTL, auth.Claims{
		SessionID: rec.ID,
		UserID:    resp.User.ID,
		Role:      resp.User.Role,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token_error")
		return
	}

	s.setSessionCookie(w, token)
	s.setDeviceCookie(w, deviceID)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: resp.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	// Best effort: the local session goes away no matter what the server says.
	if sess.RefreshToken != "" {
		if err := s.upstream.Logout(r.Context(), sess); err != nil {
			log.Printf("upstream logout failed: %v", err)
		}
	}

	_ = s.sessions.Delete(r.Context(), sess.ID)
	s.cache.DropSession(sess.ID)
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil || sess.User == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}
	writeJSON(w, http.StatusOK, sess.User)
}

// deviceIDFromRequest returns the browser's stable device id, minting one on
// first contact.
func deviceIDFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(deviceCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return uuid.NewString()
}

func deviceNameFromUserAgent(ua string) string {
	fields := strings.Fields(strings.TrimSpace(ua))
	if len(fields) == 0 {
		return "web - unknown"
	}
	return "web - " + fields[0]
}
