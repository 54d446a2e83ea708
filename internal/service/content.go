package service

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"urlintel/internal/errs"
	"urlintel/internal/model"
	"urlintel/internal/util/analyzer"
)

// isHTML reports whether a response should be treated as an HTML document.
// Without a Content-Type header the body is sniffed.
func isHTML(contentType string, body []byte) bool {
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(body)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// parseHTML decodes body to UTF-8 according to contentType and parses it leniently.
func parseHTML(body []byte, contentType string) (*html.Node, error) {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.ParseFailed, Message: "decode body", Cause: err}
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.ParseFailed, Message: "parse HTML", Cause: err}
	}
	return root, nil
}

// ExtractContent summarizes root, a parsed page fetched from pageURL.
func ExtractContent(root *html.Node, pageURL *url.URL) model.ContentReport {
	var report model.ContentReport

	analyzer.Walk(root, func(n *html.Node) bool {
		switch {
		case analyzer.IsElement(n, "title"):
			if report.Title == nil {
				report.Title = model.StringPtr(strings.TrimSpace(analyzer.ExtractInnerText(n)))
			}
		case analyzer.IsElement(n, "meta"):
			extractMeta(n, &report)
		case analyzer.IsElement(n, "form"):
			report.HasForms = true
		case analyzer.IsElement(n, "a"):
			if isExternalLink(analyzer.GetHrefValue(n), pageURL) {
				report.ExternalLinks++
			}
		}
		return true
	})

	report.WordCount = len(strings.Fields(analyzer.ExtractVisibleText(root)))
	return report
}

func extractMeta(n *html.Node, report *model.ContentReport) {
	name, ok := analyzer.GetAttr(n, "name")
	if !ok {
		return
	}
	content, _ := analyzer.GetAttr(n, "content")
	content = strings.TrimSpace(content)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "description":
		if report.Description == nil {
			report.Description = model.StringPtr(content)
		}
	case "keywords":
		if report.MetaKeywords == nil {
			report.MetaKeywords = model.StringPtr(content)
		}
	}
}

// isExternalLink reports whether href points to an http(s) host other than
// the page's own. Relative links resolve onto the page host and never count.
func isExternalLink(href string, pageURL *url.URL) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return false
	}
	resolved := pageURL.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return false
	}
	return !strings.EqualFold(resolved.Hostname(), pageURL.Hostname())
}

// parsePage parses the fetched body once for the content and technology
// stages. Non-HTML and empty bodies yield a nil root and no error; unreadable
// ones a nil root and a ParseFailed error.
func parsePage(fr *FetchResult) (*html.Node, error) {
	if !isHTML(fr.ContentType, fr.Body) {
		return nil, nil
	}
	if len(fr.Body) == 0 && fr.BodyErr == nil {
		return nil, nil
	}
	if fr.BodyErr != nil && len(fr.Body) == 0 {
		return nil, &errs.AppError{Kind: errs.ParseFailed, Message: "empty body", Cause: fr.BodyErr}
	}

	root, err := parseHTML(fr.Body, fr.ContentType)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	return root, nil
}

// analyzeContent summarizes a parsed page; a nil root yields the empty report.
func analyzeContent(root *html.Node, pageURL *url.URL) model.ContentReport {
	if root == nil {
		return model.ContentReport{}
	}
	return ExtractContent(root, pageURL)
}
