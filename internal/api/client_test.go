package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hpungsan/rankwatch/internal/errors"
)

// staticCreds is a fixed CredentialSource for tests.
type staticCreds struct {
	token   string
	guestID string
}

func (c staticCreds) Token() string   { return c.token }
func (c staticCreds) GuestID() string { return c.guestID }

func TestCredentialInjection_TokenWins(t *testing.T) {
	var gotAuth, gotGuest, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotGuest = r.Header.Get("X-Guest-Id")
		gotReqID = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode([]any{})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{token: "tok-1", guestID: "g-1"})
	if _, err := client.ListKeywords(context.Background(), false); err != nil {
		t.Fatalf("ListKeywords failed: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotGuest != "" {
		t.Errorf("X-Guest-Id = %q, token must win", gotGuest)
	}
	if len(gotReqID) != 26 {
		t.Errorf("X-Request-Id = %q, want a ULID", gotReqID)
	}
}

func TestCredentialInjection_GuestFallback(t *testing.T) {
	var gotAuth, gotGuest string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotGuest = r.Header.Get("X-Guest-Id")
		_ = json.NewEncoder(w).Encode([]any{})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{guestID: "g-1"})
	if _, err := client.ListKeywords(context.Background(), true); err != nil {
		t.Fatalf("ListKeywords failed: %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none", gotAuth)
	}
	if gotGuest != "g-1" {
		t.Errorf("X-Guest-Id = %q", gotGuest)
	}
}

func TestGuestEndpointRouting(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_ = json.NewEncoder(w).Encode([]any{})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{})
	_, _ = client.ListKeywords(context.Background(), false)
	_, _ = client.ListKeywords(context.Background(), true)

	if len(paths) != 2 || paths[0] != "/keywords" || paths[1] != "/guest/keywords" {
		t.Errorf("paths = %v", paths)
	}
}

func TestToken_FormEncoded(t *testing.T) {
	var gotContentType, gotUser, gotGrant string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotUser = r.PostForm.Get("username")
		gotGrant = r.PostForm.Get("grant_type")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-new"})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{})
	token, err := client.Token(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}

	if token != "tok-new" {
		t.Errorf("token = %q", token)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if gotUser != "user@example.com" || gotGrant != "password" {
		t.Errorf("form = (%q, %q)", gotUser, gotGrant)
	}
}

func TestUnauthorized_FiresHookAndMapsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{token: "tok-stale"})
	hookFired := false
	client.OnUnauthorized(func() { hookFired = true })

	_, err := client.VerifyIdentity(context.Background())
	if !errors.Is(err, errors.ErrIdentityRejected) {
		t.Errorf("err = %v, want IDENTITY_REJECTED", err)
	}
	if !hookFired {
		t.Error("OnUnauthorized hook should fire on 401")
	}
}

func TestStatusMapping(t *testing.T) {
	status := http.StatusForbidden
	detail := "guest keyword limit reached"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{})

	_, err := client.ListKeywords(context.Background(), true)
	if !errors.Is(err, errors.ErrQuotaExceeded) {
		t.Errorf("403 mapped to %v, want QUOTA_EXCEEDED", err)
	}
	if rwErr, ok := err.(*errors.Error); !ok || rwErr.Message != detail {
		t.Errorf("err message = %v, want server detail", err)
	}

	status = http.StatusNotFound
	_, err = client.KeywordDetail(context.Background(), false, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("404 mapped to %v, want NOT_FOUND", err)
	}

	status = http.StatusInternalServerError
	_, err = client.ListKeywords(context.Background(), false)
	if !errors.Is(err, errors.ErrRequestFailed) {
		t.Errorf("500 mapped to %v, want REQUEST_FAILED", err)
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := New(url, time.Second, staticCreds{})
	_, err := client.ListKeywords(context.Background(), false)
	if !errors.Is(err, errors.ErrNetworkUnavailable) {
		t.Errorf("err = %v, want NETWORK_UNAVAILABLE", err)
	}
}

func TestGuestSession_ExplicitHeaderOverride(t *testing.T) {
	var gotGuest string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotGuest = r.Header.Get("X-Guest-Id")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "g-resumed"})
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{})
	result, err := client.GuestSession(context.Background(), "g-42")
	if err != nil {
		t.Fatalf("GuestSession failed: %v", err)
	}
	if gotGuest != "g-42" {
		t.Errorf("X-Guest-Id = %q, want g-42", gotGuest)
	}
	if result.ID != "g-resumed" {
		t.Errorf("result.ID = %q", result.ID)
	}
}

func TestExport_ReturnsDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="a.csv"`)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("id,query\n"))
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second, staticCreds{})
	result, err := client.Export(context.Background(), false)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if string(result.Data) != "id,query\n" {
		t.Errorf("Data = %q", result.Data)
	}
	if result.ContentDisposition != `attachment; filename="a.csv"` {
		t.Errorf("ContentDisposition = %q", result.ContentDisposition)
	}
}
