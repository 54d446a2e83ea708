package util

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"urlintel/internal/errs"
)

func GetClientIPAddress(r *http.Request) string {
	if forwardedIP := r.Header.Get("X-Forwarded-For"); forwardedIP != "" {
		first, _, _ := strings.Cut(forwardedIP, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// ParseTargetURL validates that input is an absolute http(s) URL with a host.
// It returns an *errs.AppError of kind InvalidURL naming the "url" field otherwise.
func ParseTargetURL(input string) (*url.URL, error) {
	invalid := func(msg string, cause error) error {
		return &errs.AppError{Kind: errs.InvalidURL, Field: "url", Message: msg, Cause: cause}
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, invalid("url is required", nil)
	}
	if strings.ContainsAny(input, " \t\r\n") {
		return nil, invalid("url must not contain whitespace", nil)
	}

	u, err := url.Parse(input)
	if err != nil {
		return nil, invalid("url is not a valid URL", err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, invalid("url must be an absolute http:// or https:// URL", nil)
	}
	if u.Hostname() == "" {
		return nil, invalid("url must include a host", nil)
	}
	if p := u.Port(); p != "" && !isPort(p) {
		return nil, invalid("url has an invalid port", nil)
	}

	u.Scheme = scheme
	return u, nil
}

func isPort(p string) bool {
	if len(p) > 5 {
		return false
	}
	n := 0
	for _, c := range p {
		if c < '0' || c > '9' {
			return false
		}
		n = n*10 + int(c-'0')
	}
	return n > 0 && n <= 65535
}
