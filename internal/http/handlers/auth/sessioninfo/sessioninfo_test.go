package sessioninfo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

func TestServeHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), "sid", &models.Principal{
		Role:  models.RoleTrainer,
		GymID: "g1",
	}))
	rec = httptest.NewRecorder()
	ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "trainer", got.Data["role"])
	assert.Equal(t, "g1", got.Data["gym_id"])
}
