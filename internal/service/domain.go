package service

import (
	"bufio"
	"context"
	"errors"
	"iter"
	"net"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
	"urlintel/internal/cache"
	"urlintel/internal/errs"
	"urlintel/internal/model"
)

var (
	errIPHost         = errors.New("IP address hosts have no registrable domain")
	errUnsupportedTLD = errors.New("unsupported top-level domain")
)

// WhoisClient returns the raw WHOIS record for a registrable domain.
type WhoisClient interface {
	Whois(ctx context.Context, domain string) (string, error)
}

type whoisClient struct {
	client *whois.Client
}

// NewWhoisClient returns a WhoisClient that queries WHOIS servers directly,
// following registrar referrals.
func NewWhoisClient(timeout time.Duration) WhoisClient {
	return &whoisClient{client: whois.NewClient().SetTimeout(timeout)}
}

func (w *whoisClient) Whois(ctx context.Context, domain string) (string, error) {
	type result struct {
		raw string
		err error
	}
	// The client has no context support; its own timeout bounds the goroutine.
	done := make(chan result, 1)
	go func() {
		raw, err := w.client.Whois(domain)
		done <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.raw, r.err
	}
}

// DomainRecord is the subset of a WHOIS record the report exposes.
type DomainRecord struct {
	Registrar      string
	Country        string
	CreationDate   *time.Time
	ExpirationDate *time.Time
}

type DomainOptions struct {
	Timeout time.Duration
	// QPS paces outbound WHOIS queries across all requests. Zero disables pacing.
	QPS float64
	// CacheTTL keeps successful records in memory. Zero disables caching.
	CacheTTL time.Duration
}

// DomainResolver looks up registration data for the registrable domain of a host.
type DomainResolver struct {
	client  WhoisClient
	timeout time.Duration
	limiter *rate.Limiter
	cache   *cache.Store[*DomainRecord]
}

func NewDomainResolver(client WhoisClient, opts DomainOptions) *DomainResolver {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	r := &DomainResolver{
		client:  client,
		timeout: opts.Timeout,
		cache:   cache.New[*DomainRecord](opts.CacheTTL),
	}
	if opts.QPS > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.QPS), 1)
	}
	return r
}

// Resolve returns the domain report for host. On failure the report still
// names the domain, every other field is nil, and the error is of kind
// DomainLookupFailed.
func (r *DomainResolver) Resolve(ctx context.Context, host string) (model.DomainReport, error) {
	domain, err := RegistrableDomain(host)
	report := model.DomainReport{Domain: domain}
	if err != nil {
		return report, lookupError("no WHOIS lookup possible", err)
	}

	rec, err := r.lookup(ctx, domain)
	if err != nil {
		return report, err
	}

	report.Registrar = model.StringPtr(rec.Registrar)
	report.Country = model.StringPtr(rec.Country)
	report.CreationDate = rec.CreationDate
	report.ExpirationDate = rec.ExpirationDate
	return report, nil
}

func (r *DomainResolver) lookup(ctx context.Context, domain string) (*DomainRecord, error) {
	if rec, ok := r.cache.Get(domain); ok {
		return rec, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, lookupError("WHOIS query not started", err)
		}
	}

	raw, err := r.client.Whois(ctx, domain)
	if err != nil {
		return nil, lookupError("WHOIS query failed", err)
	}

	rec, err := parseRecord(raw)
	if err != nil {
		return nil, lookupError("WHOIS record unusable", err)
	}

	r.cache.Set(domain, rec)
	return rec, nil
}

func lookupError(msg string, cause error) error {
	return &errs.AppError{Kind: errs.DomainLookupFailed, Message: msg, Cause: cause}
}

// RegistrableDomain returns the eTLD+1 of host, e.g. "www.example.co.uk" →
// "example.co.uk". For hosts without one (IP literals, unknown TLDs) it
// returns the normalized host and an error.
func RegistrableDomain(host string) (string, error) {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")

	if net.ParseIP(h) != nil {
		return h, errIPHost
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(h)
	if err != nil {
		return h, errors.Join(errUnsupportedTLD, err)
	}
	if suffix, icann := publicsuffix.PublicSuffix(h); !icann && !strings.Contains(suffix, ".") {
		return domain, errUnsupportedTLD
	}
	return domain, nil
}

var (
	creationKeys = []string{
		"creation date", "created", "created on", "created date", "registered on",
		"registration date", "registration time", "domain registration date",
	}
	expirationKeys = []string{
		"registry expiry date", "registrar registration expiration date", "expiration date",
		"expiry date", "expires on", "expires", "paid-till", "expiration time",
		"domain expiration date",
	}
	whoisDateLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05 MST",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"2006.01.02",
		"2006/01/02",
		"02-Jan-2006",
		"02.01.2006",
		"Mon Jan 2 15:04:05 MST 2006",
	}
)

func parseRecord(raw string) (*DomainRecord, error) {
	info, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, err
	}

	rec := &DomainRecord{}
	if info.Registrar != nil {
		rec.Registrar = firstNonEmpty(info.Registrar.Name, info.Registrar.Organization)
	}
	if info.Registrant != nil {
		rec.Country = info.Registrant.Country
	}
	if rec.Registrar == "" {
		rec.Registrar = rawField(raw, "registrar")
	}
	if rec.Country == "" {
		rec.Country = rawField(raw, "registrant country")
	}

	created := collectDates(raw, creationKeys)
	expires := collectDates(raw, expirationKeys)
	if info.Domain != nil {
		if info.Domain.CreatedDateInTime != nil {
			created = append(created, info.Domain.CreatedDateInTime.UTC())
		}
		if info.Domain.ExpirationDateInTime != nil {
			expires = append(expires, info.Domain.ExpirationDateInTime.UTC())
		}
	}
	rec.CreationDate = earliest(created)
	rec.ExpirationDate = latest(expires)

	return rec, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// rawField returns the first non-empty value of "key: value" lines.
func rawField(raw, key string) string {
	for k, v := range rawLines(raw) {
		if k == key && v != "" {
			return v
		}
	}
	return ""
}

// collectDates parses every value whose key is one of keys. Records often
// repeat date lines (registry and registrar views), so all of them are kept.
func collectDates(raw string, keys []string) []time.Time {
	var dates []time.Time
	for k, v := range rawLines(raw) {
		for _, key := range keys {
			if k != key {
				continue
			}
			if t, ok := parseWhoisDate(v); ok {
				dates = append(dates, t)
			}
			break
		}
	}
	return dates
}

// rawLines yields the lower-cased key and trimmed value of each "key: value" line.
func rawLines(raw string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		sc := bufio.NewScanner(strings.NewReader(raw))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") {
				continue
			}
			k, v, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			if !yield(strings.ToLower(strings.TrimSpace(k)), strings.TrimSpace(v)) {
				return
			}
		}
	}
}

func parseWhoisDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	candidates := []string{v}
	if fields := strings.Fields(v); len(fields) > 1 {
		candidates = append(candidates, fields[0])
	}
	for _, c := range candidates {
		for _, layout := range whoisDateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func earliest(dates []time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}
	first := dates[0]
	for _, d := range dates[1:] {
		if d.Before(first) {
			first = d
		}
	}
	return &first
}

func latest(dates []time.Time) *time.Time {
	if len(dates) == 0 {
		return nil
	}
	last := dates[0]
	for _, d := range dates[1:] {
		if d.After(last) {
			last = d
		}
	}
	return &last
}
