package service

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"urlintel/internal/config"
	"urlintel/internal/errs"
	"urlintel/internal/log"
	"urlintel/internal/model"
	"urlintel/internal/util"
)

// PageFetcher performs the outbound HTTP work of an analysis.
type PageFetcher interface {
	Fetch(ctx context.Context, target *url.URL) (*FetchResult, error)
	ProbeHTTPS(ctx context.Context, target *url.URL) (bool, error)
	CheckConnectivity(ctx context.Context, target *url.URL) *model.ConnectivityReport
}

// DomainLookup resolves registration data for a host.
type DomainLookup interface {
	Resolve(ctx context.Context, host string) (model.DomainReport, error)
}

// outcome is the value of a sub-result that may degrade, or the reason it did.
type outcome[T any] struct {
	value T
	err   error
}

// Analyzer runs the full pipeline for one URL at a time; it is safe for
// concurrent use.
type Analyzer struct {
	fetcher PageFetcher
	domains DomainLookup
	timeout time.Duration
}

// NewAnalyzer returns an Analyzer bounding every analysis by timeout. A
// non-positive timeout leaves the bound to the individual stages.
func NewAnalyzer(fetcher PageFetcher, domains DomainLookup, timeout time.Duration) *Analyzer {
	return &Analyzer{fetcher: fetcher, domains: domains, timeout: timeout}
}

// NewAnalyzerFromConfig wires the production fetcher and WHOIS resolver.
func NewAnalyzerFromConfig(cfg *config.Config) *Analyzer {
	fetcher := NewFetcher(FetcherOptions{
		Timeout:      cfg.FetchTimeout,
		ProbeTimeout: cfg.ProbeTimeout,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
		BlockPrivate: cfg.BlockPrivateNetworks,
	})
	resolver := NewDomainResolver(NewWhoisClient(cfg.WhoisTimeout), DomainOptions{
		Timeout:  cfg.WhoisTimeout,
		QPS:      cfg.WhoisQPS,
		CacheTTL: cfg.WhoisCacheTTL,
	})
	return NewAnalyzer(fetcher, resolver, cfg.AnalyzeTimeout)
}

// Analyze validates rawURL and produces its report. Only an invalid URL or a
// failed main fetch return an error; every other stage degrades in place.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*model.AnalysisResponse, error) {
	start := time.Now()

	target, err := util.ParseTargetURL(rawURL)
	if err != nil {
		analysesTotal.WithLabelValues(errs.InvalidURL.String()).Inc()
		return nil, err
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	log.Logger.Info("starting analysis", zap.String("url", target.String()))

	var (
		fr     *FetchResult
		probe  outcome[bool]
		domain outcome[model.DomainReport]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fr, err = a.fetcher.Fetch(gctx, target)
		return err
	})
	if target.Scheme == "http" {
		g.Go(func() error {
			probe.value, probe.err = a.fetcher.ProbeHTTPS(gctx, target)
			return nil
		})
	}
	g.Go(func() error {
		domain.value, domain.err = a.domains.Resolve(gctx, target.Hostname())
		return nil
	})

	if err := g.Wait(); err != nil {
		analysesTotal.WithLabelValues(kindOf(err).String()).Inc()
		return nil, err
	}

	a.degrade("probe", target, probe.err)
	a.degrade("domain", target, domain.err)
	a.degrade("body", target, fr.BodyErr)

	var page outcome[*html.Node]
	page.value, page.err = parsePage(fr)
	a.degrade("parse", target, page.err)

	resp := &model.AnalysisResponse{
		URL:    target.String(),
		Domain: domain.value,
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		resp.Security = EvaluateSecurity(target, fr, probe.value)
	}()

	go func() {
		defer wg.Done()
		resp.Performance = EvaluatePerformance(fr)
	}()

	go func() {
		defer wg.Done()
		resp.Content = analyzeContent(page.value, target)
	}()

	go func() {
		defer wg.Done()
		resp.Technology = DetectTechnology(fr.Header, page.value)
	}()

	wg.Wait()

	elapsed := time.Since(start)
	resp.AnalysisTime = model.Elapsed(elapsed)
	analysesTotal.WithLabelValues("success").Inc()
	analysisDuration.Observe(elapsed.Seconds())

	log.Logger.Info("analysis completed",
		zap.String("url", target.String()),
		zap.Int("safety_score", resp.Security.SafetyScore),
		zap.Duration("elapsed", elapsed),
	)
	return resp, nil
}

// CheckConnectivity validates rawURL and reports whether it answers a HEAD request.
func (a *Analyzer) CheckConnectivity(ctx context.Context, rawURL string) (*model.ConnectivityReport, error) {
	target, err := util.ParseTargetURL(rawURL)
	if err != nil {
		return nil, err
	}
	return a.fetcher.CheckConnectivity(ctx, target), nil
}

func (a *Analyzer) degrade(stage string, target *url.URL, err error) {
	if err == nil {
		return
	}
	degradedStagesTotal.WithLabelValues(stage).Inc()
	log.Logger.Warn("analysis stage degraded",
		zap.String("stage", stage),
		zap.String("url", target.String()),
		zap.Error(err),
	)
}

func kindOf(err error) errs.Kind {
	var appErr *errs.AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return errs.Unknown
}
