package util

import (
	"errors"
	"net/http/httptest"
	"testing"

	"urlintel/internal/errs"
)

func TestParseTargetURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  bool
		wantHost string
	}{
		{name: "https URL", input: "https://example.com", wantHost: "example.com"},
		{name: "http URL with path", input: "http://example.com/a/b?q=1", wantHost: "example.com"},
		{name: "upper case scheme", input: "HTTPS://Example.com", wantHost: "Example.com"},
		{name: "with port", input: "http://example.com:8080/", wantHost: "example.com"},
		{name: "surrounding spaces", input: "  https://example.com  ", wantHost: "example.com"},
		{name: "not a url", input: "not a url", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "missing scheme", input: "example.com", wantErr: true},
		{name: "ftp scheme", input: "ftp://example.com", wantErr: true},
		{name: "missing host", input: "https://", wantErr: true},
		{name: "bad port", input: "http://example.com:99999", wantErr: true},
		{name: "javascript", input: "javascript:alert(1)", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseTargetURL(tt.input)
			if tt.wantErr {
				var appErr *errs.AppError
				if !errors.As(err, &appErr) {
					t.Fatalf("ParseTargetURL(%q) error = %v, want *errs.AppError", tt.input, err)
				}
				if appErr.Kind != errs.InvalidURL || appErr.Field != "url" {
					t.Errorf("ParseTargetURL(%q) kind=%v field=%q, want invalid_url/url", tt.input, appErr.Kind, appErr.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTargetURL(%q) unexpected error: %v", tt.input, err)
			}
			if u.Hostname() != tt.wantHost {
				t.Errorf("ParseTargetURL(%q) host = %q, want %q", tt.input, u.Hostname(), tt.wantHost)
			}
		})
	}
}

func TestGetClientIPAddress(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := GetClientIPAddress(r); got != "10.0.0.1" {
		t.Errorf("GetClientIPAddress() = %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := GetClientIPAddress(r); got != "203.0.113.7" {
		t.Errorf("GetClientIPAddress() = %q, want 203.0.113.7", got)
	}
}
