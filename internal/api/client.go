// Package api is the HTTP client for the monitoring backend. It injects the
// session's credential on every request (bearer token when authenticated,
// guest id header otherwise) and maps responses onto the client's error
// taxonomy. Paths come in an authenticated and a guest variant; callers pick
// the variant with the guest flag.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/rankwatch/internal/errors"
	"github.com/hpungsan/rankwatch/internal/keyword"
)

// CredentialSource supplies the current credential material. Implemented by
// the session container; a request carries the bearer token when present,
// else the guest id when present.
type CredentialSource interface {
	Token() string
	GuestID() string
}

// Client talks to the monitoring backend REST API.
type Client struct {
	baseURL        string
	http           *http.Client
	creds          CredentialSource
	onUnauthorized func()
}

// New creates a Client rooted at baseURL with the given request timeout.
func New(baseURL string, timeout time.Duration, creds CredentialSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		creds:   creds,
	}
}

// OnUnauthorized registers a hook invoked whenever the server answers 401.
// The session wires this to discard its persisted token.
func (c *Client) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

// GuestSessionResult is the body of POST /guest/session.
type GuestSessionResult struct {
	ID string `json:"id"`
}

// TokenResult is the body of POST /auth/token.
type TokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// CreateKeywordPayload is the body of POST /keywords.
type CreateKeywordPayload struct {
	Query         string   `json:"query"`
	Category      *string  `json:"category,omitempty"`
	TargetNames   []string `json:"target_names"`
	TargetDomains []string `json:"target_domains"`
	Notes         *string  `json:"notes,omitempty"`
}

// ExportResult carries the raw bytes of a CSV export together with the
// Content-Disposition header that drives file naming.
type ExportResult struct {
	Data               []byte
	ContentDisposition string
}

// VerifyIdentity calls GET /auth/me with the current bearer token.
func (c *Client) VerifyIdentity(ctx context.Context) (*keyword.User, error) {
	var user keyword.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, "", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GuestSession calls POST /guest/session, supplying guestID as X-Guest-Id
// when non-empty so the server resumes the same anonymous quota bucket.
func (c *Client) GuestSession(ctx context.Context, guestID string) (*GuestSessionResult, error) {
	var headers map[string]string
	if guestID != "" {
		headers = map[string]string{"X-Guest-Id": guestID}
	}
	var result GuestSessionResult
	if err := c.doJSON(ctx, http.MethodPost, "/guest/session", nil, "", headers, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return errors.NewInternal(err)
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", bytes.NewReader(body), "application/json", nil, nil)
}

// Token calls POST /auth/token with the OAuth2 password grant form encoding
// and returns the access token.
func (c *Client) Token(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)
	form.Set("grant_type", "password")

	var result TokenResult
	err := c.doJSON(ctx, http.MethodPost, "/auth/token",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", nil, &result)
	if err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

// ListKeywords calls GET /keywords or GET /guest/keywords.
func (c *Client) ListKeywords(ctx context.Context, guest bool) ([]keyword.Summary, error) {
	var items []keyword.Summary
	if err := c.doJSON(ctx, http.MethodGet, scoped("/keywords", guest), nil, "", nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []keyword.Summary{}
	}
	return items, nil
}

// KeywordDetail calls GET /keywords/{id} or GET /guest/keywords/{id}.
func (c *Client) KeywordDetail(ctx context.Context, guest bool, id string) (*keyword.Detail, error) {
	var detail keyword.Detail
	path := scoped("/keywords/"+url.PathEscape(id), guest)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, "", nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// TriggerCrawl calls POST /keywords/{id}/crawl or the guest variant.
func (c *Client) TriggerCrawl(ctx context.Context, guest bool, id string) error {
	path := scoped("/keywords/"+url.PathEscape(id)+"/crawl", guest)
	return c.doJSON(ctx, http.MethodPost, path, nil, "", nil, nil)
}

// CreateKeyword calls POST /keywords and returns the created keyword.
func (c *Client) CreateKeyword(ctx context.Context, payload CreateKeywordPayload) (*keyword.Detail, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	var created keyword.Detail
	if err := c.doJSON(ctx, http.MethodPost, "/keywords", bytes.NewReader(body), "application/json", nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Export calls GET /keywords/export (or the guest variant) and returns the
// response bytes along with the Content-Disposition header.
func (c *Client) Export(ctx context.Context, guest bool) (*ExportResult, error) {
	resp, err := c.do(ctx, http.MethodGet, scoped("/keywords/export", guest), nil, "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkUnavailable(err)
	}
	return &ExportResult{
		Data:               data,
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}, nil
}

// scoped prefixes path with /guest for the anonymous endpoint variants.
func scoped(path string, guest bool) string {
	if guest {
		return "/guest" + path
	}
	return path
}

// do issues one request with credential injection and a fresh request id.
// Transport failures map to NETWORK_UNAVAILABLE; the caller checks status.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", ulid.Make().String())

	// Token wins over guest id; a request never carries both.
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if guestID := c.creds.GuestID(); guestID != "" {
		req.Header.Set("X-Guest-Id", guestID)
	}

	// Explicit headers override injected ones.
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewNetworkUnavailable(err)
	}
	return resp, nil
}

// doJSON issues a request, checks the status, and decodes the body into out
// when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, headers map[string]string, out any) error {
	resp, err := c.do(ctx, method, path, body, contentType, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewInternal(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// checkStatus maps a non-2xx response onto the error taxonomy.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := readDetail(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return errors.NewIdentityRejected()
	case http.StatusForbidden:
		return errors.NewQuotaExceeded(detail)
	case http.StatusNotFound:
		return errors.NewNotFound(resp.Request.URL.Path)
	default:
		return errors.NewRequestFailed(resp.StatusCode, detail)
	}
}

// readDetail extracts the backend's {"detail": "..."} error body, if any.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	return parsed.Detail
}
