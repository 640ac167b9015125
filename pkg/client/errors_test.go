package client

import (
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		expected string
	}{
		{
			name: "client error with body",
			apiError: &APIError{
				StatusCode: 404,
				Body:       `{"error": "not found"}`,
			},
			expected: `pagerduty GET failed (status 404): {"error": "not found"}`,
		},
		{
			name: "server error with empty body",
			apiError: &APIError{
				StatusCode: 503,
				Body:       "",
			},
			expected: "pagerduty GET failed (status 503): ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.apiError.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected ErrorClass
	}{
		{
			name:     "bad request is client",
			status:   400,
			expected: ErrorClassClient,
		},
		{
			name:     "too many requests is client",
			status:   429,
			expected: ErrorClassClient,
		},
		{
			name:     "internal error is server",
			status:   500,
			expected: ErrorClassServer,
		},
		{
			name:     "bad gateway is server",
			status:   502,
			expected: ErrorClassServer,
		},
		{
			name:     "success has no class",
			status:   200,
			expected: "",
		},
		{
			name:     "redirect has no class",
			status:   304,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifyStatus(tt.status)
			if result != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, result, tt.expected)
			}
		})
	}
}
