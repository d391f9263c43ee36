package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad", nil), http.StatusBadRequest},
		{Unauthorized(), http.StatusUnauthorized},
		{Forbidden(), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Disabled("off"), http.StatusServiceUnavailable},
		{Upstream("down", errors.New("x")), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", NotFound("missing")), http.StatusNotFound},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestWrite_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Write(c, errors.New("pq: connection refused"), "Failed to fetch products")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch products", body["error"])
}

func TestWrite_FieldErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Write(c, Validation("Validation Error", map[string][]string{"cvv": {"CVV must be 3 or 4 digits"}}), "x")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Validation Error","fieldErrors":{"cvv":["CVV must be 3 or 4 digits"]}}`, w.Body.String())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Conflict("dup"))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
}
