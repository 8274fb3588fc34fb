package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"daybook/internal/models"
	"daybook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGate struct {
	sess  *models.Session
	err   error
	owner string
}

func (g fakeGate) ValidateSession(_ context.Context, token string) (*models.Session, error) {
	if g.err != nil {
		return nil, g.err
	}
	if token != "good" {
		return nil, service.ErrNoSession
	}
	return g.sess, nil
}

func (g fakeGate) IsOwner(id string) bool { return id == g.owner }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func withCookie(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	return req
}

func TestRequireSession(t *testing.T) {
	gate := fakeGate{sess: &models.Session{ID: "s1", UserID: "owner"}, owner: "owner"}
	r := gin.New()
	r.GET("/x", RequireSession(gate), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).UserID)
	})

	w := serve(r, withCookie("/x", "good"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", w.Body.String())

	w = serve(r, withCookie("/x", ""))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRequireSession_StorageFailure(t *testing.T) {
	gate := fakeGate{err: fmt.Errorf("%w: db locked", service.ErrStorageUnavailable)}
	r := gin.New()
	r.GET("/x", RequireSession(gate), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, withCookie("/x", "good"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/server-error", w.Header().Get("Location"))
}

func TestRequireOwner(t *testing.T) {
	run := func(user string) *httptest.ResponseRecorder {
		gate := fakeGate{sess: &models.Session{UserID: user}, owner: "owner"}
		r := gin.New()
		r.GET("/x", RequireSession(gate), RequireOwner(gate), func(c *gin.Context) { c.Status(http.StatusOK) })
		return serve(r, withCookie("/x", "good"))
	}
	assert.Equal(t, http.StatusOK, run("owner").Code)
	w := run("guest")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		query  string
		status int
	}{
		{"match", "k1", "?api_key=k1", http.StatusOK},
		{"mismatch", "k1", "?api_key=k2", http.StatusUnauthorized},
		{"missing", "k1", "", http.StatusUnauthorized},
		{"unset key rejects empty", "", "?api_key=", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/t", RequireAPIKey(tt.key), func(c *gin.Context) { c.String(http.StatusOK, "sent") })
			w := serve(r, httptest.NewRequest(http.MethodGet, "/t"+tt.query, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSessionCookie(t *testing.T) {
	r := gin.New()
	r.GET("/in", func(c *gin.Context) { SetSessionCookie(c, "tok", 3600, true) })
	r.GET("/out", func(c *gin.Context) { ClearSessionCookie(c, false) })

	cookies := serve(r, httptest.NewRequest(http.MethodGet, "/in", nil)).Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, "tok", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.True(t, cookies[0].Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	}

	cookies = serve(r, httptest.NewRequest(http.MethodGet, "/out", nil)).Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, -1, cookies[0].MaxAge)
	}
}

func TestRedactForm(t *testing.T) {
	assert.Equal(t, "password=%2A%2A%2A&user=a", redactForm("user=a&password=secret"))
	assert.Equal(t, "new_password=%2A%2A%2A&old_password=%2A%2A%2A", redactForm("old_password=a&new_password=b"))
	assert.Equal(t, "task_name=x", redactForm("task_name=x"))
	assert.Equal(t, "", redactForm("%zz"))
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	assert.Equal(t, "abc", serve(r, req).Header().Get(RequestIDHeader))
}

func TestLimitBody(t *testing.T) {
	r := gin.New()
	r.POST("/x", LimitBody(4), func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("1234"))).Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("12345"))).Code)
}
