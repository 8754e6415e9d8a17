package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" binding:"required,uname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var in signup
	return c.ShouldBindJSON(&in)
}

func TestToDetails_FieldErrors(t *testing.T) {
	Init()
	err := bind(t, `{"username":"a","email":"nope","password":"123"}`)
	require.Error(t, err)

	d := ToDetails(err)
	assert.Equal(t, "must be a valid email", d["email"])
	assert.Equal(t, "must be at least 6 characters long", d["password"])
	assert.Equal(t, "email must be a valid email; password must be at least 6 characters long", Summary(d))
}

func TestToDetails_InvalidJSON(t *testing.T) {
	Init()
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(bind(t, `{"username":`)))
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(bind(t, ``)))
}

func TestSummary_Empty(t *testing.T) {
	assert.Equal(t, "Invalid request", Summary(nil))
}
