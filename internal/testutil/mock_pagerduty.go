// Package testutil provides a configurable mock PagerDuty server for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// MockPagerDuty is a configurable mock PagerDuty API server.
type MockPagerDuty struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastRequestQuery  map[string][]string
}

// NewMockPagerDuty creates a new mock server. Paths without a
// configured handler answer 404 with a PagerDuty-style error body.
func NewMockPagerDuty() *MockPagerDuty {
	mock := &MockPagerDuty{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastRequestQuery = r.URL.Query()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"message": "Not Found", "code": 2100}}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPagerDuty) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockPagerDuty) Close() {
	m.server.Close()
}

// Reset clears all tracking state.
func (m *MockPagerDuty) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.LastRequestQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPagerDuty) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetStatus configures a fixed status/body response for a path.
func (m *MockPagerDuty) SetStatus(path string, status int, body string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// SetCollection serves a paginated collection at path. items are raw
// JSON objects; requests are answered by slicing items per the
// limit/offset query params with a "more" continuation flag, the way
// real collection endpoints page.
func (m *MockPagerDuty) SetCollection(path, listField string, items []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		limit := 25 // API default when no limit is sent
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				limit = n
			}
		}
		offset := 0
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				offset = n
			}
		}

		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		page := []string{}
		if offset < len(items) {
			page = items[offset:end]
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"%s": [%s], "limit": %d, "offset": %d, "more": %t}`,
			listField, strings.Join(page, ","), limit, offset, end < len(items))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPagerDuty) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Query returns the query values of the most recent request.
func (m *MockPagerDuty) Query() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestQuery
}
