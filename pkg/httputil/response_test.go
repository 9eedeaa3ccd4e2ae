package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/omnisaude/saude-api/pkg/errors"
)

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusForCode(apperrors.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(apperrors.ErrBadRequest))
	assert.Equal(t, http.StatusUnauthorized, StatusForCode(apperrors.ErrUnauthorized))
	assert.Equal(t, http.StatusForbidden, StatusForCode(apperrors.ErrForbidden))
	assert.Equal(t, http.StatusConflict, StatusForCode(apperrors.ErrConflict))
	assert.Equal(t, http.StatusTooManyRequests, StatusForCode(apperrors.ErrTooManyRequests))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(apperrors.ErrInternal))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(apperrors.ErrorCode(0)))
}

func TestRespondWithErrorMapsAppErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"conflict", apperrors.Conflict("overlap", nil), http.StatusConflict, "overlap"},
		{"not found", apperrors.NotFound("event", nil), http.StatusNotFound, "event not found"},
		{"bad request", apperrors.BadRequest("invalid time", nil), http.StatusBadRequest, "invalid time"},
		{"too many requests", apperrors.TooManyRequests("slow down", nil), http.StatusTooManyRequests, "slow down"},
		{"unwrapped error", fmt.Errorf("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantStatus, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestRespondWithSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithSuccess(c, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestRespondWithPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithPagination(c, []int{1, 2, 3}, 1, 10, 25)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Pagination Pagination `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Data.Pagination.TotalPage)
}
