package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeOutOfStock, http.StatusUnprocessableEntity},
		{ErrCodeTotalsMismatch, http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	assert.Equal(t, ErrCodeOutOfStock, NormalizeErrorCode("OUT_OF_STOCK"))
	assert.Equal(t, ErrCodeInvalidInput, NormalizeErrorCode("INVALID_ADDRESS"))
	assert.Equal(t, ErrCodeInvalidCredentials, NormalizeErrorCode("INVALID_CREDENTIALS"))
	assert.Equal(t, ErrCodeNotFound, NormalizeErrorCode(ErrCodeNotFound))
	assert.Equal(t, ErrCodeBusinessRule, NormalizeErrorCode("ORDER_LOCKED"))
}

func TestResponses(t *testing.T) {
	ok := NewSuccessResponseWithMeta([]int{1}, 3, 1, 2, 2)
	assert.True(t, ok.Success)
	assert.Equal(t, 2, ok.Meta.TotalPages)

	errResp := NewErrorResponseWithRequestID(ErrCodeNotFound, "missing", "req-1")
	assert.False(t, errResp.Success)
	assert.Equal(t, "req-1", errResp.Error.RequestID)

	v := NewValidationErrorResponse("bad", "req-2", []ValidationDetail{{Field: "email", Message: "Invalid email format"}})
	assert.Equal(t, ErrCodeValidation, v.Error.Code)
	assert.Len(t, v.Error.Details, 1)
}
