package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitquest/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret = "super-secret-jwt-token"
	testUser   = "0b9c6c1e-1111-4e5e-9a57-2a1e2b3c4d5e"
)

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(IdentityMiddleware(testSecret))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"identity": IdentityFrom(c).Key()})
	})
	r.GET("/private", RequireUser(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBearerTokenIdentifiesUser(t *testing.T) {
	token, err := utils.SignAccessToken(testSecret, testUser, time.Hour)
	require.NoError(t, err)
	r := newRouter()

	w := do(r, "/whoami", map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"identity":"`+testUser+`"}`, w.Body.String())
	assert.Empty(t, w.Header().Get(SessionHeader))

	w = do(r, "/private?access_token="+token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestBadTokensAreRejected(t *testing.T) {
	r := newRouter()

	w := do(r, "/whoami", map[string]string{"Authorization": "Bearer not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())

	token, err := utils.SignAccessToken(testSecret, "not-a-uuid", time.Hour)
	require.NoError(t, err)
	w = do(r, "/whoami", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnonymousSessions(t *testing.T) {
	r := newRouter()

	w := do(r, "/whoami", map[string]string{SessionHeader: "tab-1"})
	assert.JSONEq(t, `{"identity":"anon:tab-1"}`, w.Body.String())
	assert.Equal(t, "tab-1", w.Header().Get(SessionHeader))

	w = do(r, "/whoami", nil)
	session := w.Header().Get(SessionHeader)
	assert.NotEmpty(t, session)
	assert.JSONEq(t, `{"identity":"anon:`+session+`"}`, w.Body.String())

	w = do(r, "/private", map[string]string{SessionHeader: "tab-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
