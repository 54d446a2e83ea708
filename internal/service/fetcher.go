package service

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"urlintel/internal/errs"
	"urlintel/internal/log"
	"urlintel/internal/model"
)

const (
	maxRedirects     = 10
	maxProbeBodyRead = 64 << 10
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBlockedRedirect  = errors.New("redirect to non-http(s) scheme blocked")
)

// FetcherOptions configures a Fetcher. Zero values fall back to defaults.
type FetcherOptions struct {
	Timeout      time.Duration
	ProbeTimeout time.Duration
	UserAgent    string
	MaxBodyBytes int64
	BlockPrivate bool
	// RootCAs overrides the system certificate pool.
	RootCAs *x509.CertPool
}

// FetchResult is the raw outcome of fetching the target. It lives only for
// the duration of one analysis.
type FetchResult struct {
	URL         *url.URL
	StatusCode  int
	Elapsed     time.Duration
	Header      http.Header
	ContentType string
	Body        []byte
	// BodyErr is set when the body could only be read partially.
	BodyErr error
	// CertError is set when certificate verification failed and the page was
	// fetched again without verification.
	CertError error
}

// Fetcher retrieves a single page, the HTTPS variant probe and connectivity checks.
type Fetcher struct {
	client    *http.Client
	insecure  *http.Client
	probe     *http.Client
	userAgent string
	maxBody   int64
	timeout   time.Duration
	probeWait time.Duration
}

func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 5 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 10 << 20
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; urlintel/1.0)"
	}

	newTransport := func(skipVerify bool) *http.Transport {
		return &http.Transport{
			DialContext: newDialer(opts.Timeout, opts.BlockPrivate).DialContext,
			TLSClientConfig: &tls.Config{
				RootCAs:            opts.RootCAs,
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: skipVerify, //nolint:gosec // only used to report pages behind invalid certificates
			},
			TLSHandshakeTimeout: opts.Timeout,
			ForceAttemptHTTP2:   true,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	newClient := func(timeout time.Duration, transport http.RoundTripper) *http.Client {
		return &http.Client{
			Timeout:       timeout,
			Transport:     transport,
			CheckRedirect: safeRedirectPolicy,
		}
	}

	verified := newTransport(false)
	return &Fetcher{
		client:    newClient(opts.Timeout, verified),
		insecure:  newClient(opts.Timeout, newTransport(true)),
		probe:     newClient(opts.ProbeTimeout, verified),
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBodyBytes,
		timeout:   opts.Timeout,
		probeWait: opts.ProbeTimeout,
	}
}

func safeRedirectPolicy(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", errTooManyRedirects, maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("%w: %s", errBlockedRedirect, req.URL.Scheme)
	}
	return nil
}

// Fetch performs one GET against target. Transport failures are returned as
// *errs.AppError of kind Unreachable or Timeout. A certificate verification
// failure on an https target triggers a single unverified fetch whose result
// carries CertError.
func (f *Fetcher) Fetch(ctx context.Context, target *url.URL) (*FetchResult, error) {
	result, err := f.fetch(ctx, f.client, target)
	if err != nil && target.Scheme == "https" && isCertificateError(err) {
		log.Logger.Warn("certificate verification failed, fetching without verification",
			zap.String("url", target.String()),
			zap.Error(err),
		)
		certErr := err
		result, err = f.fetch(ctx, f.insecure, target)
		if err == nil {
			result.CertError = certErr
		}
	}
	if err != nil {
		log.Logger.Error("failed to fetch URL",
			zap.String("url", target.String()),
			zap.Error(err),
		)
		return nil, classifyFetchError(err)
	}

	log.Logger.Info("fetched target",
		zap.String("url", target.String()),
		zap.Int("status_code", result.StatusCode),
		zap.Int("content_length", len(result.Body)),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (f *Fetcher) fetch(ctx context.Context, client *http.Client, target *url.URL) (*FetchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	f.setBrowserHeaders(req)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Logger.Warn("failed to close response body", zap.Error(cerr))
		}
	}()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	elapsed := time.Since(start)
	if readErr != nil {
		log.Logger.Warn("failed to read full response body",
			zap.String("url", target.String()),
			zap.Int("bytes_read", len(body)),
			zap.Error(readErr),
		)
	}

	return &FetchResult{
		URL:         resp.Request.URL,
		StatusCode:  resp.StatusCode,
		Elapsed:     elapsed,
		Header:      resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		BodyErr:     readErr,
	}, nil
}

// ProbeHTTPS reports whether the https variant of an http target answers
// with a 2xx status.
func (f *Fetcher) ProbeHTTPS(ctx context.Context, target *url.URL) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, f.probeWait)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpsVariant(target).String(), nil)
	if err != nil {
		return false, &errs.AppError{Kind: errs.ProbeFailed, Message: "build https probe", Cause: err}
	}
	f.setBrowserHeaders(req)

	resp, err := f.probe.Do(req)
	if err != nil {
		return false, &errs.AppError{Kind: errs.ProbeFailed, Message: "https probe failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxProbeBodyRead))

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// httpsVariant returns target with the https scheme. An explicit port 80 is
// dropped since it cannot serve TLS.
func httpsVariant(target *url.URL) *url.URL {
	u := *target
	u.Scheme = "https"
	if u.Port() == "80" {
		host := u.Hostname()
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		u.Host = host
	}
	return &u
}

// CheckConnectivity sends a HEAD request and reports whether target answered.
func (f *Fetcher) CheckConnectivity(ctx context.Context, target *url.URL) *model.ConnectivityReport {
	report := &model.ConnectivityReport{URL: target.String()}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		report.Error = "unknown"
		report.Message = fmt.Sprintf("Error: %v", err)
		return report
	}
	f.setBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		var netErr net.Error
		var opErr *net.OpError
		var dnsErr *net.DNSError
		switch {
		case errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()):
			report.Error = "timeout"
			report.Message = "Request timed out - server may be slow or blocking requests"
		case errors.As(err, &opErr) || errors.As(err, &dnsErr) || errors.Is(err, errBlockedAddress):
			report.Error = "connection_failed"
			report.Message = "Connection failed - URL may be blocked by ISP/firewall or server is down"
		default:
			report.Error = "unknown"
			report.Message = fmt.Sprintf("Error: %v", err)
		}
		return report
	}
	defer func() { _ = resp.Body.Close() }()

	report.Reachable = true
	report.StatusCode = resp.StatusCode
	report.Headers = make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		report.Headers[strings.ToLower(k)] = resp.Header.Get(k)
	}
	report.Message = "URL is accessible"
	return report
}

func (f *Fetcher) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var invalidErr x509.CertificateInvalidError
	return errors.As(err, &verifyErr) ||
		errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}

func classifyFetchError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "the target URL did not respond in time",
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "the target URL could not be reached",
		Cause:   err,
	}
}
