package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const DefaultTimeout = 15 * time.Second

// API is the server surface the store drives.
type API interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, username, email, password string) (*User, error)
	Logout(ctx context.Context) error
	ListNotes(ctx context.Context) ([]Note, error)
	CreateNote(ctx context.Context, title, content string) (*Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*Note, error)
	DeleteNote(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*User, error)
}

// HTTPAPI talks JSON to the server. The session cookie lives in the client's
// cookie jar and is never exposed to the store.
type HTTPAPI struct {
	base   *url.URL
	client *http.Client

	custom  *http.Client
	timeout time.Duration
}

type Option func(*HTTPAPI)

// WithHTTPClient uses a copy of c; the caller's client is never modified.
func WithHTTPClient(c *http.Client) Option {
	return func(a *HTTPAPI) { a.custom = c }
}

// WithTimeout overrides the request timeout regardless of option order.
func WithTimeout(d time.Duration) Option {
	return func(a *HTTPAPI) { a.timeout = d }
}

// NewHTTPAPI takes the API root, e.g. http://localhost:8000/api.
func NewHTTPAPI(baseURL string, opts ...Option) (*HTTPAPI, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	a := &HTTPAPI{base: u}
	for _, o := range opts {
		o(a)
	}

	c := &http.Client{Timeout: DefaultTimeout}
	if a.custom != nil {
		cp := *a.custom
		c = &cp
	}
	if a.timeout > 0 {
		c.Timeout = a.timeout
	}
	if c.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.Jar = jar
	}
	c.Jar = loopbackJar{c.Jar}
	a.client = c
	a.custom = nil
	return a, nil
}

// loopbackJar treats plain-http loopback hosts as secure origins, the way
// browsers do, so the Secure session cookie survives local development.
type loopbackJar struct {
	http.CookieJar
}

func (j loopbackJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.CookieJar.SetCookies(secureOrigin(u), cookies)
}

func (j loopbackJar) Cookies(u *url.URL) []*http.Cookie {
	return j.CookieJar.Cookies(secureOrigin(u))
}

func secureOrigin(u *url.URL) *url.URL {
	if u.Scheme != "http" || !isLoopback(u.Hostname()) {
		return u
	}
	cp := *u
	cp.Scheme = "https"
	return &cp
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Cookies returns the jar's cookies for the server, for saving across runs.
func (a *HTTPAPI) Cookies() []*http.Cookie {
	return a.client.Jar.Cookies(a.base)
}

// SetCookies restores cookies previously returned by Cookies.
func (a *HTTPAPI) SetCookies(cookies []*http.Cookie) {
	a.client.Jar.SetCookies(a.base, cookies)
}

type userEnvelope struct {
	User User `json:"user"`
}

func (a *HTTPAPI) Me(ctx context.Context) (*User, error) {
	var out userEnvelope
	if err := a.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (a *HTTPAPI) Login(ctx context.Context, email, password string) (*User, error) {
	var out userEnvelope
	in := map[string]string{"email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (a *HTTPAPI) Register(ctx context.Context, username, email, password string) (*User, error) {
	var out userEnvelope
	in := map[string]string{"username": username, "email": email, "password": password}
	if err := a.do(ctx, http.MethodPost, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (a *HTTPAPI) Logout(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil)
}

func (a *HTTPAPI) ListNotes(ctx context.Context) ([]Note, error) {
	notes := []Note{}
	if err := a.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (a *HTTPAPI) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	var n Note
	in := map[string]string{"title": title, "content": content}
	if err := a.do(ctx, http.MethodPost, "/notes", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (a *HTTPAPI) UpdateNote(ctx context.Context, id, title, content string) (*Note, error) {
	var n Note
	in := map[string]string{"title": title, "content": content}
	if err := a.do(ctx, http.MethodPut, "/notes/"+url.PathEscape(id), in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (a *HTTPAPI) DeleteNote(ctx context.Context, id string) error {
	return a.do(ctx, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
}

func (a *HTTPAPI) UpdateProfile(ctx context.Context, in ProfileUpdate) (*User, error) {
	var out userEnvelope
	if err := a.do(ctx, http.MethodPut, "/users/profile", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// SearchNotes is a read-only view and does not go through the store.
func (a *HTTPAPI) SearchNotes(ctx context.Context, query string) ([]Note, error) {
	notes := []Note{}
	if err := a.do(ctx, http.MethodGet, "/notes/search?q="+url.QueryEscape(query), nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ExportNotes asks the server to snapshot the caller's notes and returns the URL.
func (a *HTTPAPI) ExportNotes(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := a.do(ctx, http.MethodPost, "/notes/export", struct{}{}, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (a *HTTPAPI) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base.String()+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		var eb struct {
			Message string `json:"message"`
		}
		// a body that is not JSON just leaves Message empty
		_ = json.NewDecoder(io.LimitReader(res.Body, 1<<20)).Decode(&eb)
		return &APIError{Status: res.StatusCode, Message: eb.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrTransport, err)
	}
	return nil
}
