package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeAccountLocked, http.StatusLocked},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeQuotaExceeded, http.StatusTooManyRequests},
		{ErrCodeUnavailable, http.StatusServiceUnavailable},
		// unmapped ERR_ codes are server faults
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
		// domain codes classified by shape
		{"RESIDENT_NOT_FOUND", http.StatusNotFound},
		{"INVALID_NIK", http.StatusBadRequest},
		{"REJECTION_REASON_REQUIRED", http.StatusBadRequest},
		{"NIK_EXISTS", http.StatusConflict},
		{"ALREADY_ENROLLED", http.StatusConflict},
		{"HAS_RESIDENTS", http.StatusConflict},
		{"LETTER_TYPE_IN_USE", http.StatusConflict},
		{"PASSWORD_HASH_ERROR", http.StatusInternalServerError},
		{"AI_VALIDATION_REQUIRED", http.StatusUnprocessableEntity},
		{"BUDGET_EXCEEDED", http.StatusUnprocessableEntity},
		{"LETTER_NOT_SIGNABLE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"INVALID_CREDENTIALS", ErrCodeUnauthorized},
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked},
		{"TOKEN_REVOKED", ErrCodeTokenRevoked},
		{"AI_QUOTA_EXCEEDED", ErrCodeQuotaExceeded},
		{"INTERNAL_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"BUDGET_EXCEEDED", "BUDGET_EXCEEDED"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestLegacyMappingTargetsAreMapped(t *testing.T) {
	for legacy, code := range LegacyErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "%s maps to %s which has no status", legacy, code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Letter not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Letter not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "nik", Message: "must be 16 digits"},
		{Field: "name", Message: "is required"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details":[{"field":"nik"`)
	assert.NotContains(t, string(data), `"data"`)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]int{1, 2}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.EqualValues(t, 41, resp.Meta.Total)

	resp = NewSuccessResponseWithMeta(nil, 5, 1, 0)
	assert.Zero(t, resp.Meta.TotalPages, "zero page size must not divide")
}
