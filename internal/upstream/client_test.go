package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ssshpaklevka/deliv-ad/internal/session"
)

type fakeUpstream struct {
	mux          *http.ServeMux
	server       *httptest.Server
	shiftHits    atomic.Int64
	refreshHits  atomic.Int64
	failRefresh  bool
	validToken   atomic.Value
	seenAuth     chan []string
	alwaysDeny   bool
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{mux: http.NewServeMux(), seenAuth: make(chan []string, 16)}
	f.validToken.Store("access-1")

	f.mux.HandleFunc("/shift", func(w http.ResponseWriter, r *http.Request) {
		f.shiftHits.Add(1)
		f.seenAuth <- r.Header.Values("Authorization")
		if f.alwaysDeny || r.Header.Get("Authorization") != "Bearer "+f.validToken.Load().(string) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "unauthorized"})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "status": true}})
	})
	f.mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshHits.Add(1)
		if f.failRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid refresh token"})
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["refreshToken"] == "" || body["deviceId"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "bad refresh request"})
			return
		}
		f.validToken.Store("access-2")
		json.NewEncoder(w).Encode(map[string]string{
			"accessToken":  "access-2",
			"refreshToken": "refresh-2",
		})
	})

	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)
	return f
}

func seedSession(t *testing.T, store session.Store, access, refresh string) *session.Record {
	t.Helper()
	rec := &session.Record{
		ID:           "s1",
		AccessToken:  access,
		RefreshToken: refresh,
		DeviceID:     "device-1",
		DeviceName:   "Linux - Mozilla/5.0",
	}
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return rec
}

func TestBearerAttachedExactlyOnce(t *testing.T) {
	fake := newFakeUpstream(t)
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "access-1", "refresh-1")
	client := NewClient(fake.server.URL, 5*time.Second, store)

	if _, err := client.Shifts(context.Background(), sess); err != nil {
		t.Fatalf("shifts: %v", err)
	}
	headers := <-fake.seenAuth
	if len(headers) != 1 || headers[0] != "Bearer access-1" {
		t.Fatalf("expected exactly one bearer header, got %v", headers)
	}
}

func TestUnauthorizedTriggersSingleRefreshAndRetry(t *testing.T) {
	fake := newFakeUpstream(t)
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "stale-access", "refresh-1")
	client := NewClient(fake.server.URL, 5*time.Second, store)

	shifts, err := client.Shifts(context.Background(), sess)
	if err != nil {
		t.Fatalf("shifts after refresh: %v", err)
	}
	if len(shifts) != 1 {
		t.Fatalf("expected one shift, got %d", len(shifts))
	}
	if got := fake.refreshHits.Load(); got != 1 {
		t.Fatalf("expected 1 refresh call, got %d", got)
	}
	if got := fake.shiftHits.Load(); got != 2 {
		t.Fatalf("expected original request reissued once, got %d hits", got)
	}

	<-fake.seenAuth
	retried := <-fake.seenAuth
	if len(retried) != 1 || retried[0] != "Bearer access-2" {
		t.Fatalf("expected retry with new token, got %v", retried)
	}

	saved, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("session after refresh: %v", err)
	}
	if saved.AccessToken != "access-2" || saved.RefreshToken != "refresh-2" {
		t.Fatalf("expected refreshed pair persisted, got %+v", saved)
	}
}

func TestSecondUnauthorizedPropagates(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.alwaysDeny = true
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "stale-access", "refresh-1")
	client := NewClient(fake.server.URL, 5*time.Second, store)

	_, err := client.Shifts(context.Background(), sess)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError after retry, got %v", err)
	}
	if got := fake.refreshHits.Load(); got != 1 {
		t.Fatalf("expected exactly 1 refresh call, got %d", got)
	}
	if _, err := store.Get(context.Background(), "s1"); err != nil {
		t.Fatalf("second 401 must not clear the session: %v", err)
	}
}

func TestRefreshFailureClearsSession(t *testing.T) {
	fake := newFakeUpstream(t)
	fake.failRefresh = true
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "stale-access", "refresh-1")
	client := NewClient(fake.server.URL, 5*time.Second, store)

	_, err := client.Shifts(context.Background(), sess)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if got := fake.shiftHits.Load(); got != 1 {
		t.Fatalf("expected no reissue after failed refresh, got %d hits", got)
	}
	if _, err := store.Get(context.Background(), "s1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session cleared, got %v", err)
	}
}

func TestMissingRefreshTokenFailsWithoutRefreshCall(t *testing.T) {
	fake := newFakeUpstream(t)
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "stale-access", "")
	client := NewClient(fake.server.URL, 5*time.Second, store)

	_, err := client.Shifts(context.Background(), sess)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if got := fake.refreshHits.Load(); got != 0 {
		t.Fatalf("expected no refresh call, got %d", got)
	}
	if _, err := store.Get(context.Background(), "s1"); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected session cleared, got %v", err)
	}
}

func TestTransportErrorSurfacedWithoutRefresh(t *testing.T) {
	store := session.NewMemoryStore()
	sess := seedSession(t, store, "access-1", "refresh-1")
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond, store)

	_, err := client.Shifts(context.Background(), sess)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("transport error must not look like an auth failure: %v", err)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport error must not be an APIError: %v", err)
	}
	if _, err := store.Get(context.Background(), "s1"); err != nil {
		t.Fatalf("transport error must leave the session intact: %v", err)
	}
}

func TestAPIErrorMessageShapes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/product", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": []string{"first problem", "second problem"}})
	})
	mux.HandleFunc("/store", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"message": "single problem"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	store := session.NewMemoryStore()
	sess := seedSession(t, store, "access-1", "refresh-1")
	client := NewClient(server.URL, 5*time.Second, store)

	_, err := client.Products(context.Background(), sess)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message() != "first problem, second problem" {
		t.Fatalf("unexpected joined message: %q", apiErr.Message())
	}

	_, err = client.Stores(context.Background(), sess)
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusConflict || apiErr.Message() != "single problem" {
		t.Fatalf("unexpected error: %d %q", apiErr.StatusCode, apiErr.Message())
	}
}
