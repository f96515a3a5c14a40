package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func TestSuccess_WritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")

	Success(c, http.StatusCreated, gin.H{"email": "jane@x.com"}, "otp sent", nil)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "otp sent", body["message"])
	assert.Equal(t, "rid-1", body["request_id"])
	assert.Equal(t, "jane@x.com", body["data"].(map[string]any)["email"])
	assert.NotContains(t, body, "error")
}

func TestAbort_StopsChain(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, http.StatusUnauthorized, "no token", nil)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no token", body["message"])
}

func TestError_DefaultsToBadRequest(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	resp := Error[any](c, 0, "bad", map[string]string{"email": "is required"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
