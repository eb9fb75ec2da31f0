package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestJSONResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "bad_request", "nope", map[string]string{"limit": "too big"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "bad_request", resp.Error.Code)
	assert.Equal(t, "nope", resp.Error.Message)
	assert.Equal(t, "too big", resp.Error.Details["limit"])
}

func TestErrorFromAppError(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		wantCode string
		wantHTTP int
	}{
		{name: "not found", appErr: NewNotFoundError("activity", 1), wantCode: "not_found", wantHTTP: http.StatusNotFound},
		{name: "validation", appErr: NewValidationError("limit", "bad"), wantCode: "validation_error", wantHTTP: http.StatusBadRequest},
		{name: "unauthorized", appErr: NewUnauthorizedError(""), wantCode: "unauthorized", wantHTTP: http.StatusUnauthorized},
		{name: "unavailable", appErr: NewUnavailableError(nil), wantCode: "service_unavailable", wantHTTP: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorFromAppError(rec, tt.appErr)

			assert.Equal(t, tt.wantHTTP, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestPaginatedResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, http.StatusOK, []int{1, 2, 3}, 2, 10, 25)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
	assert.Equal(t, 25, resp.Meta.TotalItems)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{name: "defaults", query: "", wantPage: 1, wantSize: 50},
		{name: "explicit values", query: "?page=3&page_size=20", wantPage: 3, wantSize: 20},
		{name: "size clamped high", query: "?page_size=10000", wantPage: 1, wantSize: 500},
		{name: "size clamped low", query: "?page_size=0", wantPage: 1, wantSize: 1},
		{name: "garbage ignored", query: "?page=x&page_size=y", wantPage: 1, wantSize: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			params := GetPaginationParams(req)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantSize, params.PageSize)
		})
	}
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
