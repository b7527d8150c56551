package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
	"github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccessWithMeta_KeepsZeroTotal(t *testing.T) {
	w := httptest.NewRecorder()
	SuccessWithMeta(w, []string{}, &Meta{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"total_items":0`)
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "bad", nil) }, http.StatusBadRequest, CodeBadRequest},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "gone") }, http.StatusNotFound, CodeNotFound},
		{"conflict", func(w http.ResponseWriter) { Conflict(w, "busy") }, http.StatusConflict, CodeConflict},
		{"internal", func(w http.ResponseWriter) { InternalServerError(w, "boom") }, http.StatusInternalServerError, CodeInternal},
		{"unavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "down") }, http.StatusServiceUnavailable, CodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError(t *testing.T) {
	errs := validator.ValidationErrors{{Field: "email", Message: "invalid email format"}}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", errs, http.StatusUnprocessableEntity, CodeValidation},
		{"wrapped employee not found", fmt.Errorf("lookup: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, CodeNotFound},
		{"view not found", listview.ErrViewNotFound, http.StatusNotFound, CodeNotFound},
		{"view closed", listview.ErrViewClosed, http.StatusConflict, CodeConflict},
		{"no pending delete", listview.ErrNoPendingDelete, http.StatusConflict, CodeConflict},
		{"invalid view mode", listview.ErrInvalidViewMode, http.StatusBadRequest, CodeBadRequest},
		{"unknown", assert.AnError, http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}

	w := httptest.NewRecorder()
	HandleError(w, errs)
	assert.Equal(t, "invalid email format", decode(t, w).Error.Details["email"])
}
