package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jobtracker/internal/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()

	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.GET("/boards/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req, _ := http.NewRequest("GET", "/boards/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.InfoLevel, entry.Level)
	assert.Equal(t, "/boards/:id", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])

	req, _ = http.NewRequest("GET", "/broken", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, log.ErrorLevel, hook.LastEntry().Level)
}
