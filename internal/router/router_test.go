package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-notes-sync/internal/infrastructure/memory"
	"github.com/oksasatya/go-notes-sync/pkg/helpers"
	"github.com/oksasatya/go-notes-sync/pkg/validation"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	engine := NewEngine(EngineOptions{CORSOrigins: []string{"http://localhost:5173"}, MetricsEnabled: true})
	reg := NewRegistry(engine)
	InitModules(reg, Deps{
		Users:          memory.NewUserRepository(),
		Notes:          memory.NewNoteRepository(),
		JWT:            helpers.NewJWTManager("router-test"),
		Hasher:         helpers.NewBcryptHasher(bcrypt.MinCost),
		Logger:         helpers.NewNopLogger(),
		AppName:        "Notes",
		MetricsEnabled: true,
	})
	reg.RegisterAll()

	srv := httptest.NewTLSServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

// browser is one cookie-carrying client, like a browser tab.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := *srv.Client()
	c.Jar = jar
	return &browser{t: t, base: srv.URL, c: &c}
}

func (b *browser) do(method, path string, body any) (int, map[string]any, *http.Response) {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(b.t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, b.base+path, r)
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := b.c.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(b.t, err)

	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(b.t, json.Unmarshal(raw, &out))
	} else if len(raw) > 0 {
		out = map[string]any{"_raw": string(raw)}
	}
	return res.StatusCode, out, res
}

func (b *browser) list() []map[string]any {
	b.t.Helper()
	res, err := b.c.Get(b.base + "/api/notes")
	require.NoError(b.t, err)
	defer res.Body.Close()
	require.Equal(b.t, http.StatusOK, res.StatusCode)
	var notes []map[string]any
	require.NoError(b.t, json.NewDecoder(res.Body).Decode(&notes))
	return notes
}

func register(t *testing.T, b *browser, name, email string) string {
	t.Helper()
	code, body, _ := b.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["user"].(map[string]any)["id"].(string)
}

func TestRegisterSetsSessionCookie(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)

	code, body, res := b.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, "alice@x.com", user["email"])
	assert.NotContains(t, user, "password")

	setCookie := res.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "token=")
	assert.Contains(t, setCookie, "Max-Age=2592000")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "Secure")
	assert.Contains(t, setCookie, "SameSite=Strict")
	assert.Contains(t, setCookie, "Path=/")

	code, body, _ = b.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, user["id"], body["user"].(map[string]any)["id"])
}

func TestRegisterValidationAndDuplicate(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)

	code, body, _ := b.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["message"])
	assert.Contains(t, body["details"], "email")

	register(t, b, "alice", "alice@x.com")
	code, body, _ = b.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "other", "email": "ALICE@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email is already registered", body["message"])
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	srv := newServer(t)
	register(t, newBrowser(t, srv), "alice", "alice@x.com")

	b := newBrowser(t, srv)
	c1, unknown, _ := b.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@x.com", "password": "secret1"})
	c2, wrong, _ := b.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@x.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, c1)
	assert.Equal(t, c1, c2)
	assert.Equal(t, "Invalid email or password", unknown["message"])
	assert.Equal(t, unknown["message"], wrong["message"])

	code, _, _ := b.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, code)
	code, _, _ = b.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)
	register(t, b, "alice", "alice@x.com")

	code, body, res := b.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", body["message"])
	assert.Contains(t, res.Header.Get("Set-Cookie"), "Max-Age=0")

	code, body, _ = b.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized", body["message"])

	// logout without a session still succeeds
	code, _, _ = newBrowser(t, srv).do(http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodGet, "/api/notes"},
		{http.MethodPost, "/api/notes"},
		{http.MethodPut, "/api/notes/x"},
		{http.MethodDelete, "/api/notes/x"},
		{http.MethodGet, "/api/notes/search?q=a"},
		{http.MethodPost, "/api/notes/export"},
	} {
		code, body, _ := b.do(rt.method, rt.path, map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, code, rt.path)
		assert.Equal(t, "Not authorized", body["message"], rt.path)
	}
}

func TestNotesCRUDAndIsolation(t *testing.T) {
	srv := newServer(t)
	alice := newBrowser(t, srv)
	bob := newBrowser(t, srv)
	aliceID := register(t, alice, "alice", "alice@x.com")
	register(t, bob, "bob", "bob@x.com")

	code, created, _ := alice.do(http.MethodPost, "/api/notes", map[string]string{"title": "T", "content": "C"})
	require.Equal(t, http.StatusCreated, code)
	noteID := created["id"].(string)
	assert.Equal(t, aliceID, created["owner_id"])

	notes := alice.list()
	require.Len(t, notes, 1)
	assert.Equal(t, "T", notes[0]["title"])
	assert.Empty(t, bob.list())

	code, body, _ := bob.do(http.MethodPut, "/api/notes/"+noteID, map[string]string{"title": "X", "content": "Y"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Note not found", body["message"])
	code, missing, _ := bob.do(http.MethodPut, "/api/notes/does-not-exist", map[string]string{"title": "X", "content": "Y"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, body["message"], missing["message"])

	code, _, _ = bob.do(http.MethodDelete, "/api/notes/"+noteID, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "T", alice.list()[0]["title"])

	code, updated, _ := alice.do(http.MethodPut, "/api/notes/"+noteID, map[string]string{"title": "T2", "content": "C2"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "T2", updated["title"])
	assert.Equal(t, aliceID, updated["owner_id"])

	code, _, _ = alice.do(http.MethodPost, "/api/notes", map[string]string{"title": "", "content": "C"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body, _ = alice.do(http.MethodDelete, "/api/notes/"+noteID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Note removed", body["message"])
	assert.Empty(t, alice.list())
}

func TestSearchAndExport(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)
	register(t, b, "alice", "alice@x.com")
	b.do(http.MethodPost, "/api/notes", map[string]string{"title": "Groceries", "content": "milk"})
	b.do(http.MethodPost, "/api/notes", map[string]string{"title": "Work", "content": "report"})

	res, err := b.c.Get(srv.URL + "/api/notes/search?q=MILK")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var hits []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "Groceries", hits[0]["title"])

	code, _, _ := b.do(http.MethodGet, "/api/notes/search?q=", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body, _ := b.do(http.MethodPost, "/api/notes/export", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.NotEmpty(t, body["message"])
}

func TestUpdateProfile(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)
	register(t, b, "alice", "alice@x.com")

	code, body, _ := b.do(http.MethodPut, "/api/users/profile", map[string]string{"username": "alicia"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Profile updated successfully", body["message"])
	assert.Equal(t, "alicia", body["user"].(map[string]any)["username"])

	code, _, _ = b.do(http.MethodPut, "/api/users/profile", map[string]string{"password": "123"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _, _ = b.do(http.MethodPut, "/api/users/profile", map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)
	b := newBrowser(t, srv)

	code, body, _ := b.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])

	code, body, _ = b.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, strings.Contains(body["_raw"].(string), "http_requests_total"))
}
