package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestElapsedJSON(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  Elapsed
		expected string
	}{
		{name: "Two decimals", elapsed: Elapsed(2340 * time.Millisecond), expected: `"2.34s"`},
		{name: "Rounds", elapsed: Elapsed(1236 * time.Millisecond), expected: `"1.24s"`},
		{name: "Zero", elapsed: 0, expected: `"0.00s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.elapsed)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(b) != tt.expected {
				t.Errorf("Marshal() = %s, want %s", b, tt.expected)
			}
		})
	}

	var e Elapsed
	if err := json.Unmarshal([]byte(`"2.34s"`), &e); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if e.String() != "2.34s" {
		t.Errorf("Unmarshal() round trip = %s, want 2.34s", e)
	}
}

func TestNullableFieldsEncodeAsNull(t *testing.T) {
	resp := AnalysisResponse{
		URL:        "https://example.com",
		Technology: TechnologyReport{Technologies: []string{}, Frameworks: []string{}},
		Domain:     DomainReport{Domain: "example.com"},
	}

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	out := string(b)

	for _, want := range []string{
		`"title":null`,
		`"meta_keywords":null`,
		`"server":null`,
		`"cms_detected":null`,
		`"technologies":[]`,
		`"registrar":null`,
		`"creation_date":null`,
		`"expiration_date":null`,
		`"country":null`,
		`"domain":"example.com"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("encoded response missing %s: %s", want, out)
		}
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Error("StringPtr(\"\") should be nil")
	}
	if p := StringPtr("x"); p == nil || *p != "x" {
		t.Errorf("StringPtr(\"x\") = %v, want pointer to x", p)
	}
}
