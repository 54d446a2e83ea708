package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type AnalysisRequest struct {
	URL string `json:"url"`
}

// AnalysisResponse is the complete report for one analyzed URL.
type AnalysisResponse struct {
	URL          string            `json:"url"`
	AnalysisTime Elapsed           `json:"analysis_time"`
	Security     SecurityReport    `json:"security"`
	Performance  PerformanceReport `json:"performance"`
	Content      ContentReport     `json:"content"`
	Technology   TechnologyReport  `json:"technology"`
	Domain       DomainReport      `json:"domain"`
}

type SecurityReport struct {
	SSLEnabled         bool     `json:"ssl_enabled"`
	SSLValid           bool     `json:"ssl_valid"`
	HTTPSRedirect      bool     `json:"https_redirect"`
	SuspiciousPatterns []string `json:"suspicious_patterns"`
	SafetyScore        int      `json:"safety_score"`
}

type LoadSpeed string

const (
	LoadSpeedFast   LoadSpeed = "Fast"
	LoadSpeedMedium LoadSpeed = "Medium"
	LoadSpeedSlow   LoadSpeed = "Slow"
)

type PerformanceReport struct {
	ResponseTime float64   `json:"response_time"`
	PageSize     int       `json:"page_size"`
	StatusCode   int       `json:"status_code"`
	LoadSpeed    LoadSpeed `json:"load_speed"`
}

// ContentReport summarizes an HTML page. Optional values are nil when the
// page has no such element or the body is not HTML.
type ContentReport struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	MetaKeywords  *string `json:"meta_keywords"`
	WordCount     int     `json:"word_count"`
	HasForms      bool    `json:"has_forms"`
	ExternalLinks int     `json:"external_links"`
}

type TechnologyReport struct {
	Server       *string  `json:"server"`
	Technologies []string `json:"technologies"`
	CMSDetected  *string  `json:"cms_detected"`
	Frameworks   []string `json:"frameworks"`
}

// DomainReport carries WHOIS registration data. Domain is always set; the
// other fields are nil when the lookup failed.
type DomainReport struct {
	Domain         string     `json:"domain"`
	Registrar      *string    `json:"registrar"`
	CreationDate   *time.Time `json:"creation_date"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Country        *string    `json:"country"`
}

// ConnectivityReport is the result of a lightweight reachability check.
type ConnectivityReport struct {
	URL        string            `json:"url"`
	Reachable  bool              `json:"reachable"`
	StatusCode int               `json:"status_code,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Error      string            `json:"error,omitempty"`
	Message    string            `json:"message"`
}

// Elapsed is a duration rendered as fractional seconds with an "s" suffix, e.g. "2.34s".
type Elapsed time.Duration

func (e Elapsed) String() string {
	return fmt.Sprintf("%.2fs", time.Duration(e).Seconds())
}

func (e Elapsed) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}

func (e *Elapsed) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("analysis_time: %w", err)
	}
	secs, err := strconv.ParseFloat(strings.TrimSuffix(s, "s"), 64)
	if err != nil {
		return fmt.Errorf("analysis_time: %w", err)
	}
	*e = Elapsed(time.Duration(secs * float64(time.Second)))
	return nil
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
