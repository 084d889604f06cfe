// Package sirene queries the INSEE Sirene registry for legal units by SIREN.
package sirene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.insee.fr/api-sirene/3.11"
	DefaultTimeout = 5 * time.Second

	apiKeyHeader = "X-INSEE-Api-Key-Integration"
	maxBodyBytes = 1 << 20
)

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sirene_lookups_total",
		Help: "Registry lookups by outcome",
	}, []string{"outcome"})

	lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sirene_lookup_duration_seconds",
		Help:    "Latency of registry lookups in seconds",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Result is the outcome of one lookup. Name is set only when Outcome is OutcomeFound,
// Err only when it is not.
type Result struct {
	Outcome Outcome
	SIREN   string
	Name    string
	Err     *LookupError
}

// Found reports whether the registry returned the legal unit.
func (r Result) Found() bool { return r.Outcome == OutcomeFound }

// Client performs single, unretried lookups against the registry.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for per-call logs.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client. An empty baseURL or a non-positive timeout fall back to the defaults.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Lookup fetches the legal unit identified by siren. It never returns an error:
// every failure is reported through Result.Outcome and Result.Err.
func (c *Client) Lookup(ctx context.Context, siren string) Result {
	start := time.Now()
	res := c.lookup(ctx, siren)
	lookupDuration.Observe(time.Since(start).Seconds())
	lookupsTotal.WithLabelValues(string(res.Outcome)).Inc()

	log := c.logger.With(zap.String("siren", siren), zap.Duration("latency", time.Since(start)))
	switch res.Outcome {
	case OutcomeFound:
		log.Info("sirene lookup succeeded", zap.String("name", res.Name))
	case OutcomeNotFound:
		log.Warn("sirene lookup: unknown siren")
	default:
		log.Error("sirene lookup failed", zap.String("outcome", string(res.Outcome)), zap.Error(res.Err))
	}
	return res
}

func (c *Client) lookup(ctx context.Context, siren string) Result {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/siren/"+siren, nil)
	if err != nil {
		return failure(siren, OutcomeTransportError, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(siren, classify(err), 0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return failure(siren, OutcomeNotFound, resp.StatusCode, nil)
	default:
		return failure(siren, OutcomeUpstreamError, resp.StatusCode, nil)
	}

	var payload Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		outcome := classify(err)
		if outcome == OutcomeTransportError {
			err = fmt.Errorf("decode body: %w", err)
		}
		return failure(siren, outcome, resp.StatusCode, err)
	}
	return Result{
		Outcome: OutcomeFound,
		SIREN:   siren,
		Name:    ResolveName(payload.UniteLegale),
	}
}

func failure(siren string, outcome Outcome, status int, err error) Result {
	return Result{
		Outcome: outcome,
		SIREN:   siren,
		Err:     &LookupError{Outcome: outcome, StatusCode: status, Err: err},
	}
}

func classify(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return OutcomeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}
	return OutcomeTransportError
}
