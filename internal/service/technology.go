package service

import (
	"net/http"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"urlintel/internal/model"
)

// pageEvidence holds the lower-cased values each signature source matches against.
type pageEvidence struct {
	header     http.Header
	assets     []string
	classes    []string
	attributes []string
	generators []string
	markup     string
}

func collectEvidence(header http.Header, root *html.Node) *pageEvidence {
	ev := &pageEvidence{header: header}
	if root == nil {
		return ev
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		ev.assets = append(ev.assets, strings.ToLower(s.AttrOr("src", "")))
	})
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		ev.assets = append(ev.assets, strings.ToLower(s.AttrOr("href", "")))
	})
	doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
		ev.classes = append(ev.classes, strings.Fields(strings.ToLower(s.AttrOr("class", "")))...)
	})
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("name", "")), "generator") {
			ev.generators = append(ev.generators, strings.ToLower(s.AttrOr("content", "")))
		}
	})
	seen := map[string]struct{}{}
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			key := strings.ToLower(attr.Key)
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				ev.attributes = append(ev.attributes, key)
			}
		}
	})
	if markup, err := doc.Html(); err == nil {
		ev.markup = strings.ToLower(markup)
	}
	return ev
}

func containsMarker(values []string, marker string) bool {
	return slices.ContainsFunc(values, func(v string) bool { return strings.Contains(v, marker) })
}

func (ev *pageEvidence) matches(sig Signature) bool {
	switch sig.Source {
	case SourceHeader:
		values := ev.header.Values(sig.Header)
		if len(values) == 0 {
			return false
		}
		return sig.Marker == "" || containsMarker(lowerAll(values), sig.Marker)
	case SourceAsset:
		return containsMarker(ev.assets, sig.Marker)
	case SourceClass:
		return containsMarker(ev.classes, sig.Marker)
	case SourceAttribute:
		return containsMarker(ev.attributes, sig.Marker)
	case SourceGenerator:
		return containsMarker(ev.generators, sig.Marker)
	case SourceMarkup:
		return ev.markup != "" && strings.Contains(ev.markup, sig.Marker)
	default:
		return false
	}
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

func appendUnique(list []string, name string) []string {
	if slices.Contains(list, name) {
		return list
	}
	return append(list, name)
}

// DetectTechnology matches the signature table against the response headers
// and, when the page was parsed as HTML, its markup. root may be nil.
func DetectTechnology(header http.Header, root *html.Node) model.TechnologyReport {
	if header == nil {
		header = http.Header{}
	}
	ev := collectEvidence(header, root)

	report := model.TechnologyReport{
		Technologies: []string{},
		Frameworks:   []string{},
	}
	poweredByMatched := false

	for _, sig := range signatures {
		if !ev.matches(sig) {
			continue
		}
		if sig.Source == SourceHeader && http.CanonicalHeaderKey(sig.Header) == "X-Powered-By" {
			poweredByMatched = true
		}

		switch sig.Category {
		case CategoryServer:
			if report.Server == nil {
				report.Server = model.StringPtr(sig.Name)
			}
		case CategoryTechnology:
			report.Technologies = appendUnique(report.Technologies, sig.Name)
		case CategoryCMS:
			if report.CMSDetected == nil {
				report.CMSDetected = model.StringPtr(sig.Name)
			}
		case CategoryFramework:
			report.Frameworks = appendUnique(report.Frameworks, sig.Name)
		}
	}

	if report.Server == nil {
		report.Server = model.StringPtr(strings.TrimSpace(header.Get("Server")))
	}
	if poweredBy := strings.TrimSpace(header.Get("X-Powered-By")); poweredBy != "" && !poweredByMatched {
		report.Technologies = appendUnique(report.Technologies, poweredBy)
	}
	return report
}
