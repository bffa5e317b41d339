package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"X-Api-Key": "secret"}
	client := NewClient(headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.headers["X-Api-Key"] != "secret" {
		t.Error("NewClient() headers not set correctly")
	}
	if client.limiter != nil {
		t.Error("NewClient() should not rate limit by default")
	}
}

func TestNewClientOptions(t *testing.T) {
	hc := &http.Client{Timeout: time.Second}
	client := NewClient(nil, WithHTTPClient(hc), WithRateLimit(5))

	if client.http != hc {
		t.Error("WithHTTPClient() not applied")
	}
	if client.limiter == nil {
		t.Error("WithRateLimit() not applied")
	}
	if NewClient(nil, WithRateLimit(0)).limiter != nil {
		t.Error("WithRateLimit(0) should disable limiting")
	}
	if NewClient(nil, WithHTTPClient(nil)).http == nil {
		t.Error("WithHTTPClient(nil) should keep the default client")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, WithHTTPClient(server.Client()))

	var resp response
	err := client.Get(context.Background(), server.URL, &resp)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var custom, override string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		custom = r.Header.Get("X-Custom")
		override = r.Header.Get("X-Override")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"X-Override": "default"}, WithHTTPClient(server.Client()))

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Custom": "custom", "X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if custom != "custom" {
		t.Errorf("custom header = %q, want %q", custom, "custom")
	}
	if override != "overridden" {
		t.Errorf("header = %q, want %q", override, "overridden")
	}
}

func TestClientGet404(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(nil, WithHTTPClient(server.Client()))

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestClientGet500NotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(nil, WithHTTPClient(server.Client()))

	var resp map[string]string
	err := client.Get(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestClientGetBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	client := NewClient(nil, WithHTTPClient(server.Client()))

	var resp map[string]string
	if err := client.Get(context.Background(), server.URL, &resp); err == nil {
		t.Error("Get() should fail on non-JSON body")
	}
}

func TestClientGetConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	client := NewClient(nil)
	var resp map[string]string
	if err := client.Get(context.Background(), addr, &resp); !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() error = %v, want ErrNetwork", err)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantErr  bool
		wantType error
	}{
		{"200 OK", 200, false, nil},
		{"204 No Content", 204, false, nil},
		{"404 Not Found", 404, true, ErrNotFound},
		{"500 Internal Server Error", 500, true, ErrNetwork},
		{"503 Service Unavailable", 503, true, ErrNetwork},
		{"400 Bad Request", 400, true, ErrNetwork},
		{"403 Forbidden", 403, true, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStatus(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantType != nil && !errors.Is(err, tt.wantType) {
				t.Errorf("checkStatus() error = %v, want %v", err, tt.wantType)
			}
		})
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base  string
		parts []string
		want  string
	}{
		{"https://h/api", []string{"items"}, "https://h/api/items"},
		{"https://h/api/", []string{"/items/"}, "https://h/api/items"},
		{"https://h/api", []string{"item_sets", "7"}, "https://h/api/item_sets/7"},
		{"https://h/api", nil, "https://h/api"},
	}

	for _, tt := range tests {
		if got := JoinURL(tt.base, tt.parts...); got != tt.want {
			t.Errorf("JoinURL(%q, %v) = %q, want %q", tt.base, tt.parts, got, tt.want)
		}
	}
}

func TestWithQuery(t *testing.T) {
	q := url.Values{}
	q.Set("page", "2")
	q.Set("per_page", "50")
	if got := WithQuery("https://h/api/items", q); got != "https://h/api/items?page=2&per_page=50" {
		t.Errorf("WithQuery() = %q", got)
	}
	if got := WithQuery("https://h/api/items", nil); got != "https://h/api/items" {
		t.Errorf("WithQuery(nil) = %q", got)
	}
}
