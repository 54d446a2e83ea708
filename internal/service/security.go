package service

import (
	"net"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"urlintel/internal/model"
)

const (
	maxDomainLength    = 50
	maxSubdomainLabels = 2
	maxScriptTags      = 10

	penaltyNoHTTPS       = 30
	penaltyInvalidCert   = 20
	penaltyPerSuspicious = 10
	maxSafetyScore       = 100
)

var urlShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd", "buff.ly",
	"cutt.ly", "rebrand.ly", "tiny.cc", "shorturl.at", "rb.gy", "t.ly",
}

var formActionPattern = regexp.MustCompile(`(?is)<form\b[^>]*?\baction\s*=\s*["']?([^"'\s>]+)`)

// pageSignals is what the suspicious pattern checks look at.
type pageSignals struct {
	target  *url.URL
	host    string
	pageURL *url.URL
	// content is the lower-cased response body.
	content string
}

type suspiciousCheck struct {
	name  string
	match func(*pageSignals) bool
}

// suspiciousChecks run in this order; the report lists matches in the same order.
var suspiciousChecks = []suspiciousCheck{
	{name: "IP address in URL", match: hostIsIP},
	{name: "Credentials embedded in URL", match: func(s *pageSignals) bool { return s.target.User != nil }},
	{name: "Unusually long domain name", match: func(s *pageSignals) bool { return len(s.host) > maxDomainLength }},
	{name: "Excessive subdomain depth", match: deepSubdomain},
	{name: "URL shortener", match: isShortener},
	{name: "Punycode domain", match: isPunycode},
	{name: "Login verification form posting off-site", match: offSiteLoginForm},
	keywordCheck("verify account"),
	keywordCheck("update payment"),
	keywordCheck("suspended account"),
	keywordCheck("click here now"),
	{name: "Excessive JavaScript", match: func(s *pageSignals) bool {
		return strings.Count(s.content, "<script>") > maxScriptTags
	}},
}

func keywordCheck(keyword string) suspiciousCheck {
	return suspiciousCheck{
		name:  "Suspicious keyword: " + keyword,
		match: func(s *pageSignals) bool { return strings.Contains(s.content, keyword) },
	}
}

func hostIsIP(s *pageSignals) bool {
	return net.ParseIP(s.host) != nil
}

func deepSubdomain(s *pageSignals) bool {
	domain, err := RegistrableDomain(s.host)
	if err != nil {
		return false
	}
	sub := strings.TrimSuffix(strings.TrimSuffix(s.host, domain), ".")
	if sub == "" {
		return false
	}
	return len(strings.Split(sub, ".")) > maxSubdomainLabels
}

func isShortener(s *pageSignals) bool {
	return slices.ContainsFunc(urlShorteners, func(d string) bool {
		return s.host == d || strings.HasSuffix(s.host, "."+d)
	})
}

func isPunycode(s *pageSignals) bool {
	return slices.ContainsFunc(strings.Split(s.host, "."), func(label string) bool {
		return strings.HasPrefix(label, "xn--")
	})
}

func offSiteLoginForm(s *pageSignals) bool {
	if !strings.Contains(s.content, "login") || !strings.Contains(s.content, "verify") {
		return false
	}
	for _, m := range formActionPattern.FindAllStringSubmatch(s.content, -1) {
		action, err := url.Parse(m[1])
		if err != nil {
			continue
		}
		resolved := s.pageURL.ResolveReference(action)
		if resolved.Hostname() != "" && !strings.EqualFold(resolved.Hostname(), s.pageURL.Hostname()) {
			return true
		}
	}
	return false
}

// DetectSuspiciousPatterns evaluates every check against the target URL and
// the fetched page, returning matched names without duplicates.
func DetectSuspiciousPatterns(target *url.URL, fr *FetchResult) []string {
	s := &pageSignals{
		target:  target,
		host:    strings.TrimSuffix(strings.ToLower(target.Hostname()), "."),
		pageURL: target,
	}
	if fr != nil {
		if fr.URL != nil {
			s.pageURL = fr.URL
		}
		s.content = strings.ToLower(string(fr.Body))
	}

	patterns := []string{}
	for _, c := range suspiciousChecks {
		if c.match(s) && !slices.Contains(patterns, c.name) {
			patterns = append(patterns, c.name)
		}
	}
	return patterns
}

// SafetyScore starts at 100 and subtracts fixed penalties, clamped to [0, 100].
func SafetyScore(sslEnabled, sslValid bool, patterns int) int {
	score := maxSafetyScore
	switch {
	case !sslEnabled:
		score -= penaltyNoHTTPS
	case !sslValid:
		score -= penaltyInvalidCert
	}
	score -= penaltyPerSuspicious * patterns
	return max(0, min(maxSafetyScore, score))
}

// EvaluateSecurity builds the security report. httpsRedirect is the outcome of
// the HTTPS probe and is ignored for https targets.
func EvaluateSecurity(target *url.URL, fr *FetchResult, httpsRedirect bool) model.SecurityReport {
	sslEnabled := target.Scheme == "https"
	sslValid := sslEnabled && fr != nil && fr.CertError == nil
	patterns := DetectSuspiciousPatterns(target, fr)

	return model.SecurityReport{
		SSLEnabled:         sslEnabled,
		SSLValid:           sslValid,
		HTTPSRedirect:      !sslEnabled && httpsRedirect,
		SuspiciousPatterns: patterns,
		SafetyScore:        SafetyScore(sslEnabled, sslValid, len(patterns)),
	}
}
