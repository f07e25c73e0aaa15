package middleware

import (
	"Chatter/internal/pkg/logger"
	"Chatter/internal/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blacklistStub 只实现 Exists
type blacklistStub struct {
	redis.Cmdable
	revoked map[string]bool
}

func (b *blacklistStub) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if b.revoked[k] {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func newRouter(rdb redis.Cmdable) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), AuthMiddleware("s3cret", rdb))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetUint64("user_id"),
			"trace_id": c.Request.Context().Value(logger.TraceIDKey),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	token, err := security.GenerateToken("s3cret", 7)
	require.NoError(t, err)
	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		revoked bool
		want    string
	}{
		{name: "valid", header: "Bearer " + token, want: `"user_id":7`},
		{name: "missing", header: "", want: `"code":401`},
		{name: "garbage", header: "Bearer nope", want: `"code":401`},
		{name: "revoked", header: "Bearer " + token, revoked: true, want: `"code":401`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &blacklistStub{revoked: map[string]bool{}}
			if tc.revoked {
				stub.revoked["token:blacklist:"+sig] = true
			}
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			req.Header.Set("X-Trace-ID", "trace-"+tc.name)
			w := httptest.NewRecorder()
			newRouter(stub).ServeHTTP(w, req)

			assert.Contains(t, w.Body.String(), tc.want)
			assert.Equal(t, "trace-"+tc.name, w.Header().Get("X-Trace-ID"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://chatter.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://chatter.example", w.Header().Get("Access-Control-Allow-Origin"))
}
